package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/facilops/chamados-service/internal/model"
	"github.com/segmentio/kafka-go"
)

// Lifecycle event names carried in the message body.
const (
	EventCreated   = "chamado.created"
	EventCompleted = "chamado.completed"
	EventDeleted   = "chamado.deleted"
	EventPurged    = "chamado.purged"
)

// ChamadoEventProducer is the producer surface handlers depend on, so tests
// can swap in a recorder.
type ChamadoEventProducer interface {
	ProduceChamadoEvent(ctx context.Context, event string, payload map[string]interface{})
	ProduceAsync(event string, payload map[string]interface{})
}

// Producer writes lifecycle events to a Kafka topic (best-effort, never
// blocks a request outcome).
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer builds a producer. With no brokers or an empty topic every
// method is a no-op.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{}
	}
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// ProduceChamadoEvent sends one event. Failures are logged and swallowed.
func (p *Producer) ProduceChamadoEvent(ctx context.Context, event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	msg := map[string]interface{}{"event": event}
	for k, v := range payload {
		msg[k] = v
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("events: marshal %s: %v", event, err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		log.Printf("events: write %s: %v", event, err)
	}
}

// ProduceAsync fires the event from a goroutine with its own timeout, so it
// survives the request ending.
func (p *Producer) ProduceAsync(event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.ProduceChamadoEvent(ctx, event, payload)
	}()
}

// ChamadoPayload flattens a ticket into the event body.
func ChamadoPayload(c *model.Chamado) map[string]interface{} {
	if c == nil {
		return nil
	}
	payload := map[string]interface{}{
		"chamado_id":  int64(c.ID),
		"requester":   c.Requester,
		"location":    c.Location,
		"description": c.Description,
		"status":      string(c.Status()),
	}
	if c.Assignee != "" {
		payload["assignee"] = c.Assignee
	}
	return payload
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
