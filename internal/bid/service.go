package bid

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MrJusticeShai/odd-handyman-api/internal/apperr"
	"github.com/MrJusticeShai/odd-handyman-api/internal/auth"
	"github.com/MrJusticeShai/odd-handyman-api/internal/event"
	"github.com/MrJusticeShai/odd-handyman-api/internal/task"
)

type BidService interface {
	PlaceBid(ctx context.Context, taskID, handymanID uuid.UUID, amount float64) (Bid, error)
	ListBidsForTask(ctx context.Context, taskID uuid.UUID) ([]Bid, error)
	AcceptBid(ctx context.Context, bidID uuid.UUID) (Bid, error)
	RejectBid(ctx context.Context, bidID uuid.UUID) (Bid, error)
}

type bidService struct {
	db       *gorm.DB
	bids     BidRepository
	tasks    task.TaskRepository
	users    auth.UserRepository
	producer event.Producer
}

func NewBidService(db *gorm.DB, bids BidRepository, tasks task.TaskRepository, users auth.UserRepository, producer event.Producer) BidService {
	return &bidService{
		db:       db,
		bids:     bids,
		tasks:    tasks,
		users:    users,
		producer: producer,
	}
}

func (s *bidService) PlaceBid(ctx context.Context, taskID, handymanID uuid.UUID, amount float64) (Bid, error) {
	if amount < 0 {
		return Bid{}, apperr.InvalidArgument("amount must be non-negative")
	}

	if _, err := s.users.GetUserByID(ctx, handymanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Bid{}, apperr.NotFound("handyman not found")
		}
		return Bid{}, err
	}

	t, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Bid{}, apperr.NotFound("task not found")
		}
		return Bid{}, err
	}

	if t.Status != task.StatusPending {
		return Bid{}, apperr.InvalidState("cannot bid on this task")
	}

	b := Bid{
		ID:         uuid.New(),
		TaskID:     taskID,
		HandymanID: handymanID,
		Amount:     amount,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
	}

	if err := s.bids.CreateBid(ctx, b); err != nil {
		return Bid{}, err
	}

	s.publish(event.TypeBidPlaced, taskID, handymanID)

	return b, nil
}

func (s *bidService) ListBidsForTask(ctx context.Context, taskID uuid.UUID) ([]Bid, error) {
	if _, err := s.tasks.GetTask(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, err
	}
	return s.bids.ListByTask(ctx, taskID)
}

// AcceptBid accepts the given bid, rejects every still-PENDING sibling
// bid on the same task and assigns the task to the bid's handyman. All
// writes commit as a single transaction; no reader ever observes an
// accepted bid without the matching sibling rejections and assignment.
//
// The assignment is guarded on the task still being PENDING, which
// serializes concurrent accepts on the same task: the loser's guard
// matches zero rows and the whole transaction rolls back.
func (s *bidService) AcceptBid(ctx context.Context, bidID uuid.UUID) (Bid, error) {
	b, err := s.bids.GetBid(ctx, bidID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Bid{}, apperr.NotFound("bid not found")
		}
		return Bid{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bids := NewRepository(tx)
		tasks := task.NewRepository(tx)

		rows, err := tasks.AssignIfPending(ctx, b.TaskID, b.HandymanID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperr.InvalidState("task is no longer open for bids")
		}

		if err := bids.SetStatus(ctx, b.ID, StatusAccepted); err != nil {
			return err
		}

		return bids.RejectPendingSiblings(ctx, b.TaskID, b.ID)
	})
	if err != nil {
		return Bid{}, err
	}
	b.Status = StatusAccepted

	s.publish(event.TypeBidAccepted, b.TaskID, b.HandymanID)

	return b, nil
}

func (s *bidService) RejectBid(ctx context.Context, bidID uuid.UUID) (Bid, error) {
	b, err := s.bids.GetBid(ctx, bidID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Bid{}, apperr.NotFound("bid not found")
		}
		return Bid{}, err
	}

	if err := s.bids.SetStatus(ctx, b.ID, StatusRejected); err != nil {
		return Bid{}, err
	}
	b.Status = StatusRejected

	return b, nil
}

func (s *bidService) publish(typ event.Type, taskID, actorID uuid.UUID) {
	if s.producer == nil {
		return
	}
	ev := event.TaskEvent{
		Type:      typ,
		TaskID:    taskID.String(),
		ActorID:   actorID.String(),
		Timestamp: time.Now(),
	}
	// Fire-and-forget: event delivery must not block the response
	go func() {
		_ = s.producer.SendTaskEvent(context.Background(), ev)
	}()
}
