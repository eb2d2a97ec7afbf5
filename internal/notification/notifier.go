package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/MrJusticeShai/odd-handyman-api/internal/event"
)

type Notification struct {
	Type        event.Type
	TaskID      string
	ActorID     string
	RecipientID string
	Message     string
	CreatedAt   time.Time
}

func NewNotificationFromEvent(ev event.TaskEvent) Notification {
	return Notification{
		Type:      ev.Type,
		TaskID:    ev.TaskID,
		ActorID:   ev.ActorID,
		Message:   messageFor(ev.Type),
		CreatedAt: ev.Timestamp,
	}
}

func messageFor(typ event.Type) string {
	switch typ {
	case event.TypeBidPlaced:
		return "a new bid was placed on your task"
	case event.TypeBidAccepted:
		return "your bid was accepted"
	case event.TypeTaskCompleted:
		return "your task was marked as completed"
	default:
		return "task updated"
	}
}

// Notifier delivers notifications.
type Notifier interface {
	SendNotification(ctx context.Context, notification Notification) error
}

type logNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) Notifier {
	if logger == nil {
		logger = log.Default()
	}
	return &logNotifier{logger: logger}
}

func (n *logNotifier) SendNotification(ctx context.Context, notification Notification) error {
	entry := fmt.Sprintf(
		"[NOTIFICATION] type=%s task=%s actor=%s recipient=%s message=%q at=%s",
		notification.Type,
		notification.TaskID,
		notification.ActorID,
		notification.RecipientID,
		notification.Message,
		notification.CreatedAt.Format(time.RFC3339),
	)
	n.logger.Println(entry)
	return nil
}
