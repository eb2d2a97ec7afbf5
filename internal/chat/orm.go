package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJusticeShai/odd-handyman-api/internal/auth"
)

// ChatMessage carries one read flag per party. Exactly one of the two
// flags is false at creation, decided by whether the sender is the
// task's customer. Flags only ever move false to true.
//
// SenderRole is denormalized from the sender's account at send time so
// unread-count queries do not have to join the users table.
type ChatMessage struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TaskID         uuid.UUID `json:"task_id" gorm:"type:uuid;not null;index"`
	SenderID       uuid.UUID `json:"sender_id" gorm:"type:uuid;not null"`
	SenderRole     auth.Role `json:"sender_role" gorm:"type:text;not null"`
	Body           string    `json:"body" gorm:"type:text;not null"`
	SentAt         time.Time `json:"sent_at" gorm:"not null;index"`
	ReadByCustomer bool      `json:"read_by_customer" gorm:"not null"`
	ReadByHandyman bool      `json:"read_by_handyman" gorm:"not null"`
}
