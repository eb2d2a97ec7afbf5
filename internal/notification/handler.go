package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJusticeShai/odd-handyman-api/internal/event"
	"github.com/MrJusticeShai/odd-handyman-api/internal/task"
)

var (
	ErrEmptyTaskID  = errors.New("taskID is required")
	ErrEmptyActorID = errors.New("actorID is required")
)

// RecipientResolver decides who a lifecycle event should notify.
type RecipientResolver interface {
	ResolveRecipient(ctx context.Context, ev event.TaskEvent) (string, error)
}

// taskRecipientResolver routes bid events to the task's customer and
// acceptance events to the acting handyman.
type taskRecipientResolver struct {
	tasks task.TaskRepository
}

func NewTaskRecipientResolver(tasks task.TaskRepository) RecipientResolver {
	return &taskRecipientResolver{tasks: tasks}
}

func (r *taskRecipientResolver) ResolveRecipient(ctx context.Context, ev event.TaskEvent) (string, error) {
	if ev.Type == event.TypeBidAccepted {
		return ev.ActorID, nil
	}

	taskID, err := uuid.Parse(ev.TaskID)
	if err != nil {
		return "", fmt.Errorf("parse task id: %w", err)
	}
	t, err := r.tasks.GetTask(ctx, taskID)
	if err != nil {
		return "", fmt.Errorf("load task: %w", err)
	}
	return t.CustomerID.String(), nil
}

type eventHandler struct {
	notifier Notifier
	resolver RecipientResolver
}

func NewEventHandler(notifier Notifier, resolver RecipientResolver) EventHandler {
	return &eventHandler{
		notifier: notifier,
		resolver: resolver,
	}
}

func (h *eventHandler) HandleEvent(ctx context.Context, ev event.TaskEvent) error {
	if strings.TrimSpace(ev.TaskID) == "" {
		return ErrEmptyTaskID
	}
	if strings.TrimSpace(ev.ActorID) == "" {
		return ErrEmptyActorID
	}

	recipientID, err := h.resolver.ResolveRecipient(ctx, ev)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}

	notification := NewNotificationFromEvent(ev)
	notification.RecipientID = recipientID

	if err := h.notifier.SendNotification(ctx, notification); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	return nil
}
