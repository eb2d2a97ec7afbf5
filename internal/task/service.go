package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MrJusticeShai/odd-handyman-api/internal/apperr"
	"github.com/MrJusticeShai/odd-handyman-api/internal/auth"
	"github.com/MrJusticeShai/odd-handyman-api/internal/event"
)

type TaskService interface {
	CreateTask(ctx context.Context, customerID uuid.UUID, role auth.Role, title, description, address string, budget float64, deadline time.Time) (Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (Task, error)
	TasksForUser(ctx context.Context, userID uuid.UUID, role auth.Role) ([]Task, error)
	CompleteTask(ctx context.Context, taskID, callerID uuid.UUID) (Task, error)
	CancelTask(ctx context.Context, taskID, callerID uuid.UUID) (Task, error)
}

type taskService struct {
	repo     TaskRepository
	producer event.Producer
}

func NewTaskService(repo TaskRepository, producer event.Producer) TaskService {
	return &taskService{
		repo:     repo,
		producer: producer,
	}
}

func (s *taskService) CreateTask(ctx context.Context, customerID uuid.UUID, role auth.Role, title, description, address string, budget float64, deadline time.Time) (Task, error) {
	if role != auth.RoleCustomer {
		return Task{}, apperr.Forbidden("only customers can create tasks")
	}
	if strings.TrimSpace(title) == "" {
		return Task{}, apperr.InvalidArgument("title is required")
	}
	if budget < 0 {
		return Task{}, apperr.InvalidArgument("budget must be non-negative")
	}

	t := Task{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Description: description,
		Address:     address,
		Budget:      budget,
		Deadline:    deadline,
		Status:      StatusPending,
		CustomerID:  customerID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.CreateTask(ctx, t); err != nil {
		return Task{}, err
	}

	return t, nil
}

func (s *taskService) GetTask(ctx context.Context, id uuid.UUID) (Task, error) {
	t, err := s.repo.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Task{}, apperr.NotFound("task not found")
		}
		return Task{}, err
	}
	return t, nil
}

// TasksForUser returns the tasks relevant to the caller: everything they
// created for customers; open tasks plus their assigned and completed
// tasks for handymen.
func (s *taskService) TasksForUser(ctx context.Context, userID uuid.UUID, role auth.Role) ([]Task, error) {
	switch role {
	case auth.RoleCustomer:
		return s.repo.ListByCustomer(ctx, userID)
	case auth.RoleHandyman:
		tasks, err := s.repo.ListByStatus(ctx, StatusPending)
		if err != nil {
			return nil, err
		}
		assigned, err := s.repo.ListByHandymanAndStatus(ctx, userID, StatusAssigned)
		if err != nil {
			return nil, err
		}
		completed, err := s.repo.ListByHandymanAndStatus(ctx, userID, StatusCompleted)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, assigned...)
		tasks = append(tasks, completed...)
		return tasks, nil
	default:
		return nil, apperr.Forbidden("unknown role")
	}
}

func (s *taskService) CompleteTask(ctx context.Context, taskID, callerID uuid.UUID) (Task, error) {
	t, err := s.GetTask(ctx, taskID)
	if err != nil {
		return Task{}, err
	}

	if t.AssignedHandymanID == nil || *t.AssignedHandymanID != callerID {
		return Task{}, apperr.Forbidden("only the assigned handyman can complete this task")
	}

	if err := s.repo.SetStatus(ctx, taskID, StatusCompleted); err != nil {
		return Task{}, err
	}
	t.Status = StatusCompleted

	if s.producer != nil {
		ev := event.TaskEvent{
			Type:      event.TypeTaskCompleted,
			TaskID:    t.ID.String(),
			ActorID:   callerID.String(),
			Timestamp: time.Now(),
		}
		// Fire-and-forget: event delivery must not block the response
		go func() {
			_ = s.producer.SendTaskEvent(context.Background(), ev)
		}()
	}

	return t, nil
}

func (s *taskService) CancelTask(ctx context.Context, taskID, callerID uuid.UUID) (Task, error) {
	t, err := s.GetTask(ctx, taskID)
	if err != nil {
		return Task{}, err
	}

	if t.CustomerID != callerID {
		return Task{}, apperr.Forbidden("only the task's customer can cancel it")
	}

	rows, err := s.repo.CancelIfPending(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	if rows == 0 {
		return Task{}, apperr.InvalidState("task is no longer open")
	}
	t.Status = StatusCancelled

	return t, nil
}
