package chat

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MrJusticeShai/odd-handyman-api/internal/auth"
)

// TaskUnread is one row of an unread-count query: a task id and how many
// messages the caller has not read on it.
type TaskUnread struct {
	TaskID uuid.UUID `gorm:"column:task_id"`
	Count  int64     `gorm:"column:unread"`
}

type ChatRepository interface {
	CreateMessage(ctx context.Context, m ChatMessage) error
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]ChatMessage, error)
	// MarkReadByCustomer / MarkReadByHandyman flip the caller's flag on
	// every message of the task. Monotonic: flags are only ever set true.
	MarkReadByCustomer(ctx context.Context, taskID uuid.UUID) error
	MarkReadByHandyman(ctx context.Context, taskID uuid.UUID) error
	UnreadForCustomer(ctx context.Context, customerID uuid.UUID) ([]TaskUnread, error)
	UnreadForHandyman(ctx context.Context, handymanID uuid.UUID) ([]TaskUnread, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateMessage(ctx context.Context, m ChatMessage) error {
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *chatRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]ChatMessage, error) {
	var messages []ChatMessage
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("sent_at").
		Find(&messages).Error
	return messages, err
}

func (r *chatRepository) MarkReadByCustomer(ctx context.Context, taskID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&ChatMessage{}).
		Where("task_id = ? AND read_by_customer = ?", taskID, false).
		Update("read_by_customer", true).Error
}

func (r *chatRepository) MarkReadByHandyman(ctx context.Context, taskID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&ChatMessage{}).
		Where("task_id = ? AND read_by_handyman = ?", taskID, false).
		Update("read_by_handyman", true).Error
}

func (r *chatRepository) UnreadForCustomer(ctx context.Context, customerID uuid.UUID) ([]TaskUnread, error) {
	var rows []TaskUnread
	err := r.db.WithContext(ctx).Model(&ChatMessage{}).
		Select("chat_messages.task_id AS task_id, COUNT(*) AS unread").
		Joins("JOIN tasks ON tasks.id = chat_messages.task_id").
		Where("tasks.customer_id = ? AND chat_messages.sender_role = ? AND chat_messages.read_by_customer = ?",
			customerID, auth.RoleHandyman, false).
		Group("chat_messages.task_id").
		Scan(&rows).Error
	return rows, err
}

func (r *chatRepository) UnreadForHandyman(ctx context.Context, handymanID uuid.UUID) ([]TaskUnread, error) {
	var rows []TaskUnread
	err := r.db.WithContext(ctx).Model(&ChatMessage{}).
		Select("chat_messages.task_id AS task_id, COUNT(*) AS unread").
		Joins("JOIN tasks ON tasks.id = chat_messages.task_id").
		Where("tasks.assigned_handyman_id = ? AND chat_messages.sender_role = ? AND chat_messages.read_by_handyman = ?",
			handymanID, auth.RoleCustomer, false).
		Group("chat_messages.task_id").
		Scan(&rows).Error
	return rows, err
}
