package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

// UserMemoryRepository backs STORAGE_DRIVER=memory and tests.
type UserMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
	creds map[string]models.Credential
}

func NewUserMemoryRepository() *UserMemoryRepository {
	return &UserMemoryRepository{
		users: map[string]models.User{},
		creds: map[string]models.Credential{},
	}
}

func (r *UserMemoryRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeUserNotFound)
	}
	return &u, nil
}

func (r *UserMemoryRepository) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	return r.findWhere(func(u models.User) bool { return phone != "" && u.Phone == phone })
}

func (r *UserMemoryRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.findWhere(func(u models.User) bool { return email != "" && u.Email == email })
}

func (r *UserMemoryRepository) findWhere(match func(models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeUserNotFound)
}

func (r *UserMemoryRepository) List(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// taken reports whether another user already holds the phone or email.
// Caller holds the lock.
func (r *UserMemoryRepository) taken(u *models.User) bool {
	for id, other := range r.users {
		if id == u.ID {
			continue
		}
		if u.Phone != "" && other.Phone == u.Phone {
			return true
		}
		if u.Email != "" && other.Email == u.Email {
			return true
		}
	}
	return false
}

func (r *UserMemoryRepository) Create(_ context.Context, u *models.User, cred *models.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[u.ID]; exists || r.taken(u) {
		return httperr.ErrBusiness(httperr.CodeDuplicateAccount)
	}

	r.users[u.ID] = *u
	if cred != nil {
		cred.UserID = u.ID
		r.creds[u.ID] = *cred
	}
	return nil
}

func (r *UserMemoryRepository) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; !ok {
		return httperr.ErrBusiness(httperr.CodeUserNotFound)
	}
	if r.taken(u) {
		return httperr.ErrBusiness(httperr.CodeDuplicateAccount)
	}

	r.users[u.ID] = *u
	return nil
}

func (r *UserMemoryRepository) GetCredential(_ context.Context, userID string) (*models.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.creds[userID]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeUserNotFound)
	}
	return &c, nil
}

func (r *UserMemoryRepository) SetCredential(_ context.Context, cred *models.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[cred.UserID]; !ok {
		return httperr.ErrBusiness(httperr.CodeUserNotFound)
	}
	r.creds[cred.UserID] = *cred
	return nil
}

var _ user.Repository = (*UserMemoryRepository)(nil)
