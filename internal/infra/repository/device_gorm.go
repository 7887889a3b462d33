package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

type DeviceGormRepository struct {
	db *gorm.DB
}

func NewDeviceGormRepository(db *gorm.DB) *DeviceGormRepository {
	return &DeviceGormRepository{db: db}
}

func (r *DeviceGormRepository) Register(ctx context.Context, userID, token string) error {
	dt := models.DeviceToken{
		UserID:    userID,
		Token:     token,
		CreatedAt: time.Now(),
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id"}),
		}).
		Create(&dt).Error
	return httperr.FromPostgres(err)
}

func (r *DeviceGormRepository) Tokens(ctx context.Context, userID string) ([]string, error) {
	var tokens []string
	if err := r.db.WithContext(ctx).
		Model(&models.DeviceToken{}).
		Where("user_id = ?", userID).
		Pluck("token", &tokens).Error; err != nil {
		return nil, httperr.FromPostgres(err)
	}
	return tokens, nil
}

func (r *DeviceGormRepository) Remove(ctx context.Context, token string) error {
	return httperr.FromPostgres(r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&models.DeviceToken{}).Error)
}

var _ user.DeviceRepository = (*DeviceGormRepository)(nil)
