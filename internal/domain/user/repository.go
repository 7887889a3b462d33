package user

import (
	"context"

	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

// Repository is the credential store. Lookups that find nothing return
// httperr code user_not_found; writes that collide on phone or email return
// duplicate_account; access-rule failures return permission_denied.
type Repository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)

	// Create stores the profile and, when cred is non-nil, its credential in
	// one unit of work.
	Create(ctx context.Context, u *models.User, cred *models.Credential) error
	Update(ctx context.Context, u *models.User) error

	GetCredential(ctx context.Context, userID string) (*models.Credential, error)
	SetCredential(ctx context.Context, cred *models.Credential) error
}
