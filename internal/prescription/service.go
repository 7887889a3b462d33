package prescription

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/healthconnect-api/internal/audit"
	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/prescription"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
	"github.com/BruksfildServices01/healthconnect-api/internal/timezone"
)

const DownloadTTL = 15 * time.Minute

type UploadInput struct {
	UserID   string
	UserName string
	FileName string
	Purpose  string
	Data     []byte
}

type Service struct {
	repo  domain.Repository
	store ObjectStore
	audit audit.Recorder
	clock timezone.Clock
	log   zerolog.Logger
}

func NewService(
	repo domain.Repository,
	store ObjectStore,
	audit audit.Recorder,
	clock timezone.Clock,
	log zerolog.Logger,
) *Service {
	return &Service{
		repo:  repo,
		store: store,
		audit: audit,
		clock: clock,
		log:   log,
	}
}

// ======================================================
// UPLOAD
// ======================================================

func (s *Service) Upload(ctx context.Context, in UploadInput) (*models.Prescription, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	purpose, ok := domain.ParsePurpose(in.Purpose)
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}
	if len(in.Data) == 0 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	file, err := Normalize(in.Data)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Object first, then the record pointing at it
	// --------------------------------------------------
	id := uuid.NewString()
	key := fmt.Sprintf("prescriptions/%s/%s.%s", in.UserID, id, file.Ext)

	if err := s.store.Put(ctx, key, file.ContentType, file.Body); err != nil {
		return nil, err
	}

	now := s.clock()
	p := &models.Prescription{
		ID:          id,
		UserID:      in.UserID,
		UserName:    in.UserName,
		FileName:    displayName(in.FileName, file.Ext),
		ObjectKey:   key,
		ContentType: file.ContentType,
		Size:        int64(len(file.Body)),
		Purpose:     string(purpose),
		Status:      string(domain.StatusPendingReview),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Warn().Str("object_key", key).Msg("prescription record failed, object orphaned")
		return nil, err
	}

	s.audit.Dispatch(audit.Event{
		ActorID:  in.UserID,
		Action:   audit.ActionPrescriptionUploaded,
		Entity:   "prescription",
		EntityID: p.ID,
		Metadata: map[string]any{"purpose": p.Purpose, "size": p.Size},
	})

	return p, nil
}

// displayName keeps the client's base name with the stored extension.
func displayName(name, ext string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "prescription"
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	return base + "." + ext
}

// ======================================================
// LISTS
// ======================================================

func (s *Service) ListMine(ctx context.Context, userID string) ([]models.Prescription, error) {
	return s.repo.List(ctx, domain.Filter{UserID: userID})
}

func (s *Service) ListAll(ctx context.Context, status string) ([]models.Prescription, error) {
	return s.repo.List(ctx, domain.Filter{Status: domain.Status(status)})
}

// ======================================================
// REVIEW
// ======================================================

func (s *Service) Approve(ctx context.Context, actorID, id string) (*models.Prescription, error) {
	return s.review(ctx, actorID, id, domain.StatusApproved, audit.ActionPrescriptionApproved)
}

func (s *Service) Reject(ctx context.Context, actorID, id string) (*models.Prescription, error) {
	return s.review(ctx, actorID, id, domain.StatusRejected, audit.ActionPrescriptionRejected)
}

func (s *Service) review(ctx context.Context, actorID, id string, next domain.Status, action string) (*models.Prescription, error) {
	if err := s.repo.Review(ctx, id, next, s.clock()); err != nil {
		return nil, err
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   action,
		Entity:   "prescription",
		EntityID: id,
	})

	return p, nil
}

// ======================================================
// DOWNLOAD
// ======================================================

// DownloadURL returns a presigned link for the owner or an admin. Other
// users get prescription_not_found so ids cannot be probed.
func (s *Service) DownloadURL(ctx context.Context, requesterID string, admin bool, id string) (string, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !admin && p.UserID != requesterID {
		return "", httperr.ErrBusiness(httperr.CodePrescriptionNotFound)
	}
	return s.store.PresignGet(ctx, p.ObjectKey, DownloadTTL)
}
