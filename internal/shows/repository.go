package shows

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/google/uuid"
)

type Repository interface {
	CreateBatch(ctx context.Context, batch []Show) error
	GetByID(ctx context.Context, id uuid.UUID) (*Show, error)
	ListUpcoming(ctx context.Context) ([]Show, error)
	ListUpcomingByMovie(ctx context.Context, movieID string) ([]Show, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, batch []Show) error {
	return r.db.WithContext(ctx).Create(&batch).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	var show Show
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Where("id = ?", id).
		First(&show).Error
	if err != nil {
		return nil, err
	}
	return &show, nil
}

func (r *repository) ListUpcoming(ctx context.Context) ([]Show, error) {
	var result []Show
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Where("show_date_time >= ?", time.Now()).
		Order("show_date_time ASC").
		Find(&result).Error
	return result, err
}

func (r *repository) ListUpcomingByMovie(ctx context.Context, movieID string) ([]Show, error) {
	var result []Show
	err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Where("show_date_time >= ?", time.Now()).
		Order("show_date_time ASC").
		Find(&result).Error
	return result, err
}
