package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/healthconnect-api/internal/audit"
	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
	"github.com/BruksfildServices01/healthconnect-api/internal/timezone"
	"github.com/BruksfildServices01/healthconnect-api/internal/validators"
)

const minSecretLength = 6

// Next tells the client which view to show after an operation.
type Next string

const (
	NextProfile         Next = "profile"
	NextCompleteProfile Next = "complete-profile"
	NextLogin           Next = "login"
)

type Result struct {
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	User      *models.User `json:"user,omitempty"`
	Next      Next         `json:"next"`
}

type OTP interface {
	Request(ctx context.Context, phone, challengeToken string) (string, error)
	Verify(ctx context.Context, phone, code string) (string, error)
}

type PhoneVerifier interface {
	VerifyPhone(ctx context.Context, idToken string) (string, error)
}

type Deps struct {
	Users  user.Repository
	Store  *Store
	Tokens *Tokens

	// OTP and Phones may be nil; the matching operations then report
	// provider_configuration_error.
	OTP    OTP
	Phones PhoneVerifier

	Audit audit.Recorder
	Clock timezone.Clock
	Log   zerolog.Logger

	// CheckEmailDomain, when set, rejects signups whose domain does not resolve.
	CheckEmailDomain func(email string) bool
}

type Manager struct {
	users  user.Repository
	store  *Store
	tokens *Tokens
	otp    OTP
	phones PhoneVerifier
	audit  audit.Recorder
	clock  timezone.Clock
	log    zerolog.Logger

	checkEmailDomain func(string) bool
	newID            func() string
}

func NewManager(d Deps) *Manager {
	m := &Manager{
		users:            d.Users,
		store:            d.Store,
		tokens:           d.Tokens,
		otp:              d.OTP,
		phones:           d.Phones,
		audit:            d.Audit,
		clock:            d.Clock,
		log:              d.Log,
		checkEmailDomain: d.CheckEmailDomain,
		newID:            uuid.NewString,
	}
	if m.audit == nil {
		m.audit = audit.Discard{}
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	return m
}

func nextFor(u *models.User) Next {
	if user.IsComplete(u) {
		return NextProfile
	}
	return NextCompleteProfile
}

func (m *Manager) open(ctx context.Context, u *models.User) (Result, error) {
	sid := m.newID()
	if err := m.store.Open(ctx, sid, u.ID); err != nil {
		return Result{}, err
	}
	if err := m.store.CacheUser(ctx, u); err != nil {
		m.log.Warn().Err(err).Str("user_id", u.ID).Msg("user cache write failed")
	}

	token, exp, err := m.tokens.Issue(Claims{UserID: u.ID, SessionID: sid, Role: u.Role}, m.clock())
	if err != nil {
		return Result{}, err
	}

	return Result{Token: token, ExpiresAt: &exp, User: u, Next: nextFor(u)}, nil
}

// ===============================
// Restore
// ===============================

// Restore resolves a session id to a fresh copy of its user. A user that no
// longer exists, or that the store refuses to read, ends the session. Other
// backend failures fall back to the cached copy when there is one.
func (m *Manager) Restore(ctx context.Context, sid string) (*models.User, error) {
	userID, err := m.store.Lookup(ctx, sid)
	if err != nil {
		return nil, err
	}

	u, err := m.users.FindByID(ctx, userID)
	switch {
	case err == nil:
		if cacheErr := m.store.CacheUser(ctx, u); cacheErr != nil {
			m.log.Warn().Err(cacheErr).Str("user_id", u.ID).Msg("user cache write failed")
		}
		return u, nil

	case httperr.IsBusiness(err, httperr.CodeUserNotFound),
		httperr.IsBusiness(err, httperr.CodePermissionDenied):
		if httperr.IsBusiness(err, httperr.CodePermissionDenied) {
			m.log.Error().Err(err).Str("user_id", userID).Msg("session restore denied by user store")
		}
		_ = m.store.Close(ctx, sid)
		_ = m.store.DropUser(ctx, userID)
		return nil, httperr.Wrap(httperr.CodeUnauthenticated, err)
	}

	cached, ok, cacheErr := m.store.CachedUser(ctx, userID)
	if cacheErr == nil && ok {
		m.log.Warn().Err(err).Str("user_id", userID).Msg("user store unavailable, serving cached profile")
		return cached, nil
	}
	return nil, err
}

// ===============================
// Password login / signup
// ===============================

func (m *Manager) findByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return m.users.FindByEmail(ctx, strings.ToLower(identifier))
	}

	phone, ok := validators.NormalizePhone(identifier)
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeUserNotFound)
	}
	return m.users.FindByPhone(ctx, phone)
}

// Login writes nothing unless the secret matches.
func (m *Manager) Login(ctx context.Context, identifier, secret string) (Result, error) {
	u, err := m.findByIdentifier(ctx, identifier)
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeUserNotFound) {
			return Result{}, httperr.ErrBusiness(httperr.CodeInvalidCredentials)
		}
		return Result{}, err
	}

	cred, err := m.users.GetCredential(ctx, u.ID)
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeUserNotFound) {
			return Result{}, httperr.ErrBusiness(httperr.CodeInvalidCredentials)
		}
		return Result{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(secret)) != nil {
		return Result{}, httperr.ErrBusiness(httperr.CodeInvalidCredentials)
	}

	return m.open(ctx, u)
}

type SignupDetails struct {
	Name    string
	Address string
	Phone   string // used when the identifier is an email
}

func (m *Manager) Signup(ctx context.Context, identifier, secret string, d SignupDetails) (Result, error) {
	if len(secret) < minSecretLength {
		return Result{}, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	u := &models.User{
		Name:    strings.TrimSpace(d.Name),
		Address: strings.TrimSpace(d.Address),
		Role:    user.RoleUser,
	}

	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		email := strings.ToLower(identifier)
		if !validators.IsEmail(email) {
			return Result{}, httperr.ErrBusiness(httperr.CodeInvalidRequest)
		}
		if m.checkEmailDomain != nil && !m.checkEmailDomain(email) {
			return Result{}, httperr.ErrBusiness(httperr.CodeInvalidRequest)
		}
		u.Email = email
		identifier = d.Phone
	}

	if strings.TrimSpace(identifier) != "" {
		phone, ok := validators.NormalizePhone(identifier)
		if !ok {
			return Result{}, httperr.ErrBusiness(httperr.CodeInvalidPhoneNumber)
		}
		u.Phone = phone
	}
	if u.Email == "" && u.Phone == "" {
		return Result{}, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	if err := m.ensureUnclaimed(ctx, u); err != nil {
		return Result{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return Result{}, err
	}

	now := m.clock()
	u.ID = m.newID()
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := m.users.Create(ctx, u, &models.Credential{PasswordHash: string(hash), UpdatedAt: now}); err != nil {
		return Result{}, err
	}

	m.audit.Dispatch(audit.Event{ActorID: u.ID, Action: audit.ActionUserSignedUp, Entity: "user", EntityID: u.ID})
	return m.open(ctx, u)
}

// ensureUnclaimed fails with duplicate_account before any write; the
// repository's unique constraints still catch races.
func (m *Manager) ensureUnclaimed(ctx context.Context, u *models.User) error {
	lookups := []struct {
		value string
		find  func(context.Context, string) (*models.User, error)
	}{
		{u.Email, m.users.FindByEmail},
		{u.Phone, m.users.FindByPhone},
	}

	for _, l := range lookups {
		if l.value == "" {
			continue
		}
		existing, err := l.find(ctx, l.value)
		if err == nil && existing.ID != u.ID {
			return httperr.ErrBusiness(httperr.CodeDuplicateAccount)
		}
		if err != nil && !httperr.IsBusiness(err, httperr.CodeUserNotFound) {
			return err
		}
	}
	return nil
}

// ===============================
// Phone sign-in
// ===============================

func (m *Manager) RequestOtp(ctx context.Context, phone, challengeToken string) (string, error) {
	if m.otp == nil {
		return "", httperr.ErrBusiness(httperr.CodeProviderConfiguration)
	}
	return m.otp.Request(ctx, phone, challengeToken)
}

// VerifyOtp signs in the owner of phone, creating a bare account on first
// use. The result routes to profile completion while name or address is
// missing.
func (m *Manager) VerifyOtp(ctx context.Context, phone, code string) (Result, error) {
	if m.otp == nil {
		return Result{}, httperr.ErrBusiness(httperr.CodeProviderConfiguration)
	}

	verified, err := m.otp.Verify(ctx, phone, code)
	if err != nil {
		return Result{}, err
	}
	return m.loginByPhone(ctx, verified)
}

func (m *Manager) FirebaseLogin(ctx context.Context, idToken string) (Result, error) {
	if m.phones == nil {
		return Result{}, httperr.ErrBusiness(httperr.CodeProviderConfiguration)
	}

	raw, err := m.phones.VerifyPhone(ctx, idToken)
	if err != nil {
		return Result{}, err
	}
	phone, ok := validators.NormalizePhone(raw)
	if !ok {
		return Result{}, httperr.ErrBusiness(httperr.CodeInvalidPhoneNumber)
	}
	return m.loginByPhone(ctx, phone)
}

func (m *Manager) loginByPhone(ctx context.Context, phone string) (Result, error) {
	u, err := m.users.FindByPhone(ctx, phone)
	if err == nil {
		return m.open(ctx, u)
	}
	if !httperr.IsBusiness(err, httperr.CodeUserNotFound) {
		return Result{}, err
	}

	now := m.clock()
	u = &models.User{
		ID:        m.newID(),
		Phone:     phone,
		Role:      user.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.users.Create(ctx, u, nil); err != nil {
		return Result{}, err
	}

	m.audit.Dispatch(audit.Event{ActorID: u.ID, Action: audit.ActionUserSignedUp, Entity: "user", EntityID: u.ID, Metadata: map[string]string{"method": "phone"}})
	return m.open(ctx, u)
}

// ===============================
// Profile / logout
// ===============================

func (m *Manager) UpdateProfile(ctx context.Context, userID string, d user.Details) (Result, error) {
	u, err := m.users.FindByID(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	if d.Phone != nil {
		if strings.TrimSpace(*d.Phone) == "" {
			// the phone may only be cleared while an email still identifies the account
			if u.Email == "" {
				return Result{}, httperr.ErrBusiness(httperr.CodeInvalidPhoneNumber)
			}
		} else {
			phone, ok := validators.NormalizePhone(*d.Phone)
			if !ok {
				return Result{}, httperr.ErrBusiness(httperr.CodeInvalidPhoneNumber)
			}
			d.Phone = &phone
		}
	}

	if user.Merge(u, d) {
		if err := m.ensureUnclaimed(ctx, u); err != nil {
			return Result{}, err
		}
		u.UpdatedAt = m.clock()
		if err := m.users.Update(ctx, u); err != nil {
			return Result{}, err
		}
	}

	if err := m.store.CacheUser(ctx, u); err != nil {
		m.log.Warn().Err(err).Str("user_id", u.ID).Msg("user cache write failed")
	}
	return Result{User: u, Next: NextProfile}, nil
}

func (m *Manager) Logout(ctx context.Context, sid string) (Result, error) {
	if err := m.store.Close(ctx, sid); err != nil {
		return Result{}, err
	}
	return Result{Next: NextLogin}, nil
}

// ===============================
// Bootstrap
// ===============================

// EnsureAdmin creates or promotes the configured administrator and resets its
// password. Empty email is a no-op.
func (m *Manager) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	if len(password) < minSecretLength {
		return httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := m.clock()

	u, err := m.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Role != user.RoleAdmin {
			u.Role = user.RoleAdmin
			u.UpdatedAt = now
			if err := m.users.Update(ctx, u); err != nil {
				return err
			}
		}
		return m.users.SetCredential(ctx, &models.Credential{UserID: u.ID, PasswordHash: string(hash), UpdatedAt: now})

	case httperr.IsBusiness(err, httperr.CodeUserNotFound):
		admin := &models.User{
			ID:        m.newID(),
			Email:     email,
			Name:      "Administrator",
			Role:      user.RoleAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return m.users.Create(ctx, admin, &models.Credential{PasswordHash: string(hash), UpdatedAt: now})

	default:
		return err
	}
}
