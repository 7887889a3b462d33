package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func userErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return httperr.ErrBusiness(httperr.CodeUserNotFound)
	case httperr.IsUniqueViolation(err):
		return httperr.Wrap(httperr.CodeDuplicateAccount, err)
	default:
		return httperr.FromPostgres(err)
	}
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *UserGormRepository) findBy(ctx context.Context, column, value string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Where(column+" = ?", value).
		First(&u).Error; err != nil {
		return nil, userErr(err)
	}
	return &u, nil
}

func (r *UserGormRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findBy(ctx, "id", id)
}

func (r *UserGormRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.findBy(ctx, "phone", phone)
}

func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findBy(ctx, "email", email)
}

func (r *UserGormRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, userErr(err)
	}
	return users, nil
}

// --------------------------------------------------
// Writes
// --------------------------------------------------

func (r *UserGormRepository) Create(
	ctx context.Context,
	u *models.User,
	cred *models.Credential,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		if cred == nil {
			return nil
		}
		cred.UserID = u.ID
		return tx.Create(cred).Error
	})
	if err != nil {
		return userErr(err)
	}
	return nil
}

func (r *UserGormRepository) Update(ctx context.Context, u *models.User) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"name":       u.Name,
			"phone":      u.Phone,
			"email":      u.Email,
			"address":    u.Address,
			"role":       u.Role,
			"updated_at": u.UpdatedAt,
		})
	if res.Error != nil {
		return userErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeUserNotFound)
	}
	return nil
}

// --------------------------------------------------
// Credentials
// --------------------------------------------------

func (r *UserGormRepository) GetCredential(ctx context.Context, userID string) (*models.Credential, error) {
	var cred models.Credential
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cred).Error; err != nil {
		return nil, userErr(err)
	}
	return &cred, nil
}

func (r *UserGormRepository) SetCredential(ctx context.Context, cred *models.Credential) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"password_hash", "updated_at"}),
		}).
		Create(cred).Error
	if err != nil {
		return userErr(err)
	}
	return nil
}

var _ user.Repository = (*UserGormRepository)(nil)
