package task

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAssigned  Status = "ASSIGNED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Task is a unit of work posted by a customer. AssignedHandymanID is
// non-nil iff Status is ASSIGNED or COMPLETED; both fields change only
// together, inside the accept-bid transaction.
type Task struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	Title              string     `json:"title" gorm:"not null"`
	Description        string     `json:"description" gorm:"type:text"`
	Address            string     `json:"address"`
	Budget             float64    `json:"budget" gorm:"not null"`
	Deadline           time.Time  `json:"deadline"`
	Status             Status     `json:"status" gorm:"type:text;not null;default:'PENDING';check:status IN ('PENDING', 'ASSIGNED', 'COMPLETED', 'CANCELLED')"`
	CustomerID         uuid.UUID  `json:"customer_id" gorm:"type:uuid;not null;index"`
	AssignedHandymanID *uuid.UUID `json:"assigned_handyman_id,omitempty" gorm:"type:uuid;index"`
	CreatedAt          time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt          time.Time  `json:"updated_at" gorm:"not null"`
}
