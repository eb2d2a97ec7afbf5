package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MrJusticeShai/odd-handyman-api/internal/apperr"
	"github.com/MrJusticeShai/odd-handyman-api/internal/auth"
	"github.com/MrJusticeShai/odd-handyman-api/internal/task"
)

type ChatService interface {
	SendMessage(ctx context.Context, taskID, senderID uuid.UUID, body string) (ChatMessage, error)
	MessagesForTask(ctx context.Context, taskID uuid.UUID) ([]ChatMessage, error)
	MarkMessagesAsRead(ctx context.Context, taskID, callerID uuid.UUID) error
	UnreadCounts(ctx context.Context, callerID uuid.UUID, role auth.Role) (map[uuid.UUID]int64, error)
}

type chatService struct {
	messages ChatRepository
	tasks    task.TaskRepository
	users    auth.UserRepository
}

func NewChatService(messages ChatRepository, tasks task.TaskRepository, users auth.UserRepository) ChatService {
	return &chatService{
		messages: messages,
		tasks:    tasks,
		users:    users,
	}
}

func (s *chatService) SendMessage(ctx context.Context, taskID, senderID uuid.UUID, body string) (ChatMessage, error) {
	if strings.TrimSpace(body) == "" {
		return ChatMessage{}, apperr.InvalidArgument("message body is required")
	}

	sender, err := s.users.GetUserByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ChatMessage{}, apperr.NotFound("sender not found")
		}
		return ChatMessage{}, err
	}

	t, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ChatMessage{}, apperr.NotFound("task not found")
		}
		return ChatMessage{}, err
	}

	// Anyone who is not the task's customer counts as the handyman side,
	// including bidders who were never assigned.
	senderIsCustomer := sender.ID == t.CustomerID

	m := ChatMessage{
		ID:             uuid.New(),
		TaskID:         taskID,
		SenderID:       senderID,
		SenderRole:     sender.Role,
		Body:           body,
		SentAt:         time.Now(),
		ReadByCustomer: senderIsCustomer,
		ReadByHandyman: !senderIsCustomer,
	}

	if err := s.messages.CreateMessage(ctx, m); err != nil {
		return ChatMessage{}, err
	}

	return m, nil
}

func (s *chatService) MessagesForTask(ctx context.Context, taskID uuid.UUID) ([]ChatMessage, error) {
	if _, err := s.tasks.GetTask(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, err
	}
	return s.messages.ListByTask(ctx, taskID)
}

func (s *chatService) MarkMessagesAsRead(ctx context.Context, taskID, callerID uuid.UUID) error {
	if _, err := s.users.GetUserByID(ctx, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user not found")
		}
		return err
	}

	t, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("task not found")
		}
		return err
	}

	if callerID == t.CustomerID {
		return s.messages.MarkReadByCustomer(ctx, taskID)
	}
	return s.messages.MarkReadByHandyman(ctx, taskID)
}

// UnreadCounts returns per-task unread message counts for the caller.
// Tasks with nothing unread are omitted.
func (s *chatService) UnreadCounts(ctx context.Context, callerID uuid.UUID, role auth.Role) (map[uuid.UUID]int64, error) {
	var (
		rows []TaskUnread
		err  error
	)
	switch role {
	case auth.RoleCustomer:
		rows, err = s.messages.UnreadForCustomer(ctx, callerID)
	case auth.RoleHandyman:
		rows, err = s.messages.UnreadForHandyman(ctx, callerID)
	default:
		return nil, apperr.Forbidden("unknown role")
	}
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.TaskID] = row.Count
	}
	return counts, nil
}
