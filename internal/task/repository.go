package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository interface {
	CreateTask(ctx context.Context, t Task) error
	GetTask(ctx context.Context, id uuid.UUID) (Task, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Task, error)
	ListByStatus(ctx context.Context, status Status) ([]Task, error)
	ListByHandymanAndStatus(ctx context.Context, handymanID uuid.UUID, status Status) ([]Task, error)
	// AssignIfPending sets the assignee and moves the task to ASSIGNED in
	// one conditional update guarded on status = PENDING. Returns the
	// number of rows affected; zero means the task was no longer PENDING.
	AssignIfPending(ctx context.Context, id, handymanID uuid.UUID) (int64, error)
	// CancelIfPending is the same guard for customer cancellation.
	CancelIfPending(ctx context.Context, id uuid.UUID) (int64, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) CreateTask(ctx context.Context, t Task) error {
	return r.db.WithContext(ctx).Create(&t).Error
}

func (r *taskRepository) GetTask(ctx context.Context, id uuid.UUID) (Task, error) {
	var t Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	return t, err
}

func (r *taskRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) ListByStatus(ctx context.Context, status Status) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) ListByHandymanAndStatus(ctx context.Context, handymanID uuid.UUID, status Status) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("assigned_handyman_id = ? AND status = ?", handymanID, status).
		Order("created_at").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) AssignIfPending(ctx context.Context, id, handymanID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Task{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"assigned_handyman_id": handymanID,
			"status":               StatusAssigned,
			"updated_at":           time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *taskRepository) CancelIfPending(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Task{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":     StatusCancelled,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *taskRepository) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return r.db.WithContext(ctx).Model(&Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
