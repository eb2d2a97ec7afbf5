package review

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	CreateReview(ctx context.Context, r Review) error
	ExistsByTask(ctx context.Context, taskID uuid.UUID) (bool, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]Review, error)
	ListByHandyman(ctx context.Context, handymanID uuid.UUID) ([]Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) CreateReview(ctx context.Context, rev Review) error {
	return r.db.WithContext(ctx).Create(&rev).Error
}

func (r *reviewRepository) ExistsByTask(ctx context.Context, taskID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Review{}).
		Where("task_id = ?", taskID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]Review, error) {
	var reviews []Review
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) ListByHandyman(ctx context.Context, handymanID uuid.UUID) ([]Review, error) {
	var reviews []Review
	err := r.db.WithContext(ctx).
		Where("reviewed_handyman_id = ?", handymanID).
		Order("created_at").
		Find(&reviews).Error
	return reviews, err
}
