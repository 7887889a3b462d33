package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/healthconnect-api/internal/audit"
	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	rx "github.com/BruksfildServices01/healthconnect-api/internal/domain/prescription"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

func TestUserMemoryUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserMemoryRepository()

	require.NoError(t, repo.Create(ctx, &models.User{ID: "u1", Phone: "5551234", Email: "a@test.com"}, &models.Credential{PasswordHash: "h"}))

	err := repo.Create(ctx, &models.User{ID: "u2", Phone: "5551234"}, nil)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeDuplicateAccount))
	err = repo.Create(ctx, &models.User{ID: "u2", Email: "a@test.com"}, nil)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeDuplicateAccount))

	// two users without email do not collide on ""
	require.NoError(t, repo.Create(ctx, &models.User{ID: "u3", Phone: "5559999"}, nil))
	require.NoError(t, repo.Create(ctx, &models.User{ID: "u4", Phone: "5558888"}, nil))

	cred, err := repo.GetCredential(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", cred.UserID)

	_, err = repo.FindByEmail(ctx, "")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeUserNotFound))

	u3, _ := repo.FindByID(ctx, "u3")
	u3.Phone = "5551234"
	assert.True(t, httperr.IsBusiness(repo.Update(ctx, u3), httperr.CodeDuplicateAccount))
}

func TestAppointmentMemoryListAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentMemoryRepository()

	require.NoError(t, repo.Create(ctx, &models.Appointment{ID: "a1", Status: "Pending", Fees: "$20"}))
	require.NoError(t, repo.Create(ctx, &models.Appointment{ID: "a2", Status: "Pending"}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a2", all[0].ID)

	clinic := "North Clinic"
	require.NoError(t, repo.Update(ctx, "a1", domain.Patch{Clinic: &clinic}))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "North Clinic", got.Clinic)
	assert.Equal(t, "$20", got.Fees)
	assert.Equal(t, "Pending", got.Status)

	assert.True(t, httperr.IsBusiness(repo.Update(ctx, "zz", domain.Patch{Clinic: &clinic}), httperr.CodeAppointmentNotFound))
}

func TestAppointmentMemoryGuardedStatusUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentMemoryRepository()
	require.NoError(t, repo.Create(ctx, &models.Appointment{ID: "a1", Status: "Pending"}))

	from, to := domain.StatusPending, domain.StatusConfirmed
	require.NoError(t, repo.Update(ctx, "a1", domain.Patch{From: &from, Status: &to}))

	// a second writer that read Pending earlier loses
	now := time.Now()
	err := repo.Update(ctx, "a1", domain.Patch{From: &from, Status: &to, ConfirmedAt: &now})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidStateTransition))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Confirmed", got.Status)
	assert.Nil(t, got.ConfirmedAt)
}

func TestPrescriptionMemoryReviewOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewPrescriptionMemoryRepository()
	require.NoError(t, repo.Create(ctx, &models.Prescription{ID: "p1", UserID: "u1", Status: string(rx.StatusPendingReview)}))
	require.NoError(t, repo.Create(ctx, &models.Prescription{ID: "p2", UserID: "u2", Status: string(rx.StatusPendingReview)}))

	require.NoError(t, repo.Review(ctx, "p1", rx.StatusApproved, time.Now()))
	err := repo.Review(ctx, "p1", rx.StatusRejected, time.Now())
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidStateTransition))

	mine, err := repo.List(ctx, rx.Filter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, string(rx.StatusApproved), mine[0].Status)

	pending, err := repo.List(ctx, rx.Filter{Status: rx.StatusPendingReview})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "p2", pending[0].ID)
}

func TestAuditMemoryPaging(t *testing.T) {
	ctx := context.Background()
	store := NewAuditMemoryStore()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Create(ctx, &models.AuditLog{Action: audit.ActionDoctorCreated, CreatedAt: base.Add(time.Duration(i) * time.Hour)}))
	}
	require.NoError(t, store.Create(ctx, &models.AuditLog{Action: audit.ActionLabTestDeleted, CreatedAt: base}))

	logs, total, err := store.List(ctx, audit.Query{Action: audit.ActionDoctorCreated, Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, logs, 2)
	assert.Equal(t, uint(3), logs[0].ID)

	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	logs, total, err = store.List(ctx, audit.Query{From: &day})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, logs)
}

func TestDeviceMemoryMovesToken(t *testing.T) {
	ctx := context.Background()
	repo := NewDeviceMemoryRepository()

	require.NoError(t, repo.Register(ctx, "u1", "t1"))
	require.NoError(t, repo.Register(ctx, "u2", "t1"))

	tokens, _ := repo.Tokens(ctx, "u1")
	assert.Empty(t, tokens)
	tokens, _ = repo.Tokens(ctx, "u2")
	assert.Equal(t, []string{"t1"}, tokens)
}
