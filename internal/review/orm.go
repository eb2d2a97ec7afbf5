package review

import (
	"time"

	"github.com/google/uuid"
)

// Review is post-completion feedback, at most one per task.
// ReviewedHandymanID is copied from the task's assignee at creation
// time, not resolved live.
type Review struct {
	ID                 uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TaskID             uuid.UUID `json:"task_id" gorm:"type:uuid;not null;uniqueIndex"`
	ReviewerID         uuid.UUID `json:"reviewer_id" gorm:"type:uuid;not null"`
	ReviewedHandymanID uuid.UUID `json:"reviewed_handyman_id" gorm:"type:uuid;not null;index"`
	Rating             int       `json:"rating" gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment            string    `json:"comment" gorm:"type:text"`
	CreatedAt          time.Time `json:"created_at" gorm:"not null"`
}
