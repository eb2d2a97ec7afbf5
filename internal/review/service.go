package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MrJusticeShai/odd-handyman-api/internal/apperr"
	"github.com/MrJusticeShai/odd-handyman-api/internal/task"
)

type ReviewService interface {
	CreateReview(ctx context.Context, taskID, reviewerID uuid.UUID, rating int, comment string) (Review, error)
	ReviewsForTask(ctx context.Context, taskID uuid.UUID) ([]Review, error)
	ReviewsForHandyman(ctx context.Context, handymanID uuid.UUID) ([]Review, error)
}

type reviewService struct {
	reviews ReviewRepository
	tasks   task.TaskRepository
}

func NewReviewService(reviews ReviewRepository, tasks task.TaskRepository) ReviewService {
	return &reviewService{
		reviews: reviews,
		tasks:   tasks,
	}
}

// CreateReview admits a review only for a COMPLETED task, only from the
// task's customer, and at most once per task.
func (s *reviewService) CreateReview(ctx context.Context, taskID, reviewerID uuid.UUID, rating int, comment string) (Review, error) {
	if rating < 1 || rating > 5 {
		return Review{}, apperr.InvalidArgument("rating must be between 1 and 5")
	}

	t, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Review{}, apperr.NotFound("task not found")
		}
		return Review{}, err
	}

	if t.CustomerID != reviewerID {
		return Review{}, apperr.Forbidden("only the task's customer can leave a review")
	}

	if t.Status != task.StatusCompleted {
		return Review{}, apperr.InvalidState("cannot review a task before it is completed")
	}

	exists, err := s.reviews.ExistsByTask(ctx, taskID)
	if err != nil {
		return Review{}, err
	}
	if exists {
		return Review{}, apperr.Conflict("this task already has a review")
	}

	rev := Review{
		ID:                 uuid.New(),
		TaskID:             taskID,
		ReviewerID:         reviewerID,
		ReviewedHandymanID: *t.AssignedHandymanID,
		Rating:             rating,
		Comment:            comment,
		CreatedAt:          time.Now(),
	}

	if err := s.reviews.CreateReview(ctx, rev); err != nil {
		// A racing duplicate loses to the unique index on task_id
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Review{}, apperr.Conflict("this task already has a review")
		}
		return Review{}, err
	}

	return rev, nil
}

func (s *reviewService) ReviewsForTask(ctx context.Context, taskID uuid.UUID) ([]Review, error) {
	if _, err := s.tasks.GetTask(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, err
	}
	return s.reviews.ListByTask(ctx, taskID)
}

func (s *reviewService) ReviewsForHandyman(ctx context.Context, handymanID uuid.UUID) ([]Review, error) {
	return s.reviews.ListByHandyman(ctx, handymanID)
}
