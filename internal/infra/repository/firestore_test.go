package repository

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

const emulatorProject = "healthconnect-test"

// newEmulatorClient connects to the Firestore emulator and wipes it. Tests
// using it are skipped unless FIRESTORE_EMULATOR_HOST is set.
func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()

	host := os.Getenv("FIRESTORE_EMULATOR_HOST")
	if host == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	url := fmt.Sprintf("http://%s/emulator/v1/projects/%s/databases/(default)/documents", host, emulatorProject)
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	client, err := firestore.NewClient(context.Background(), emulatorProject)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestUserFirestoreLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewUserFirestoreRepository(newEmulatorClient(t))

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	alice := &models.User{ID: "u1", Phone: "5551234", Name: "Alice", Role: "user", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, alice, &models.Credential{PasswordHash: "hash"}))

	got, err := repo.FindByPhone(ctx, "5551234")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "Alice", got.Name)

	cred, err := repo.GetCredential(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "hash", cred.PasswordHash)
	assert.Equal(t, "u1", cred.UserID)

	err = repo.Create(ctx, &models.User{ID: "u2", Phone: "5551234", Role: "user", CreatedAt: now}, nil)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeDuplicateAccount))

	bob := &models.User{ID: "u2", Email: "bob@test.com", Role: "user", CreatedAt: now.Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, bob, nil))

	bob.Phone = "5551234"
	assert.True(t, httperr.IsBusiness(repo.Update(ctx, bob), httperr.CodeDuplicateAccount))

	alice.Address = "1 Main St"
	require.NoError(t, repo.Update(ctx, alice))
	got, err = repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", got.Address)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "u2", all[0].ID)

	_, err = repo.FindByID(ctx, "missing")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeUserNotFound))
	_, err = repo.FindByEmail(ctx, "")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeUserNotFound))
}

func TestAppointmentFirestoreGuardedConfirm(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentFirestoreRepository(newEmulatorClient(t))

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &models.Appointment{
		ID: "a1", User: models.UserSnapshot{ID: "u1", Name: "Alice"},
		Item: "Urinalysis", Type: "Lab Test", Date: "2026-03-11", Time: "09:00 AM",
		Status: "Pending", CreatedAt: now, UpdatedAt: now,
	}))

	from, to := domain.StatusPending, domain.StatusConfirmed
	require.NoError(t, repo.Update(ctx, "a1", domain.Patch{From: &from, Status: &to, ConfirmedAt: &now}))

	err := repo.Update(ctx, "a1", domain.Patch{From: &from, Status: &to})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidStateTransition))

	err = repo.Update(ctx, "missing", domain.Patch{From: &from, Status: &to})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAppointmentNotFound))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Confirmed", got.Status)
	assert.Equal(t, "Alice", got.User.Name)
	require.NotNil(t, got.ConfirmedAt)
}

func TestAppointmentFirestoreSubscribe(t *testing.T) {
	repo := NewAppointmentFirestoreRepository(newEmulatorClient(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snaps, err := repo.Subscribe(ctx)
	require.NoError(t, err)

	next := func() domain.Snapshot {
		t.Helper()
		select {
		case s, ok := <-snaps:
			require.True(t, ok, "feed closed early")
			require.NoError(t, s.Err)
			return s
		case <-time.After(5 * time.Second):
			t.Fatal("no snapshot")
			return domain.Snapshot{}
		}
	}

	assert.Empty(t, next().Appointments)

	now := time.Now().UTC()
	require.NoError(t, repo.Create(context.Background(), &models.Appointment{ID: "a1", Status: "Pending", CreatedAt: now}))
	require.NoError(t, repo.Create(context.Background(), &models.Appointment{ID: "a2", Status: "Pending", CreatedAt: now.Add(time.Second)}))

	// changes may arrive coalesced, so read until both are visible
	apps := next().Appointments
	for len(apps) < 2 {
		apps = next().Appointments
	}
	require.Len(t, apps, 2)
	assert.Equal(t, "a2", apps[0].ID)

	cancel()

	closed := make(chan struct{})
	go func() {
		for range snaps {
		}
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("feed not closed after cancel")
	}
}
