package bid

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BidRepository interface {
	CreateBid(ctx context.Context, b Bid) error
	GetBid(ctx context.Context, id uuid.UUID) (Bid, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]Bid, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
	// RejectPendingSiblings rejects every still-PENDING bid on the task
	// except the one identified by keepID. The accepted bid is excluded
	// by identity, not by status, so it can never be rejected here.
	RejectPendingSiblings(ctx context.Context, taskID, keepID uuid.UUID) error
}

type bidRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) BidRepository {
	return &bidRepository{db: db}
}

func (r *bidRepository) CreateBid(ctx context.Context, b Bid) error {
	return r.db.WithContext(ctx).Create(&b).Error
}

func (r *bidRepository) GetBid(ctx context.Context, id uuid.UUID) (Bid, error) {
	var b Bid
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	return b, err
}

func (r *bidRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]Bid, error) {
	var bids []Bid
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&bids).Error
	return bids, err
}

func (r *bidRepository) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return r.db.WithContext(ctx).Model(&Bid{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *bidRepository) RejectPendingSiblings(ctx context.Context, taskID, keepID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&Bid{}).
		Where("task_id = ? AND status = ? AND id <> ?", taskID, StatusPending, keepID).
		Update("status", StatusRejected).Error
}
