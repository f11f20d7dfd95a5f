package device

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=device_repo.go -destination=mock/device_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, d *Device) error
	FindAll(ctx context.Context) ([]Device, error)
	FindActiveByAPIKey(ctx context.Context, apiKey string) (*Device, error)
	TouchLastSeen(ctx context.Context, id string, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, d *Device) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Device, error) {
	var rows []Device
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActiveByAPIKey(ctx context.Context, apiKey string) (*Device, error) {
	var d Device
	err := r.db.WithContext(ctx).
		Where("api_key = ?", apiKey).
		Where("status = ?", StatusActive).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) TouchLastSeen(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Device{}).
		Where("id = ?", id).
		Update("last_seen", at).Error
}
