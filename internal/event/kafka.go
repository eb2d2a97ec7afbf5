package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type Type string

const (
	TypeBidPlaced     Type = "BID_PLACED"
	TypeBidAccepted   Type = "BID_ACCEPTED"
	TypeTaskCompleted Type = "TASK_COMPLETED"
)

// TaskEvent is the lifecycle event published to Kafka. The notifier
// consumes the same structure.
type TaskEvent struct {
	Type      Type      `json:"type"`
	TaskID    string    `json:"taskId"`
	ActorID   string    `json:"actorId"`
	Timestamp time.Time `json:"timestamp"`
}

type Producer interface {
	SendTaskEvent(ctx context.Context, event TaskEvent) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaProducer(brokers []string, topic string) Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &kafkaProducer{
		writer: writer,
		topic:  topic,
	}
}

func (p *kafkaProducer) SendTaskEvent(ctx context.Context, event TaskEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(event.TaskID),
		Value: eventJSON,
		Time:  time.Now(),
	}

	return p.writer.WriteMessages(ctx, message)
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}
