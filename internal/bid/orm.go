package bid

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// Bid is a handyman's proposed price for a task. At most one bid per
// task is ACCEPTED at any time; the accept-bid transaction enforces it.
type Bid struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TaskID     uuid.UUID `json:"task_id" gorm:"type:uuid;not null;index"`
	HandymanID uuid.UUID `json:"handyman_id" gorm:"type:uuid;not null;index"`
	Amount     float64   `json:"amount" gorm:"not null"`
	Status     Status    `json:"status" gorm:"type:text;not null;default:'PENDING';check:status IN ('PENDING', 'ACCEPTED', 'REJECTED')"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null"`
}
