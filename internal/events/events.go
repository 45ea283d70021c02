// Package events publishes blood request decisions for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"blood-bank-dashboard/internal/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

//go:generate mockgen -source=events.go -destination=mocks/mocks.go -package=mocks Publisher

type RequestEventType string

const (
	RequestCreated  RequestEventType = "request.created"
	RequestUpdated  RequestEventType = "request.updated"
	RequestApproved RequestEventType = "request.approved"
	RequestRejected RequestEventType = "request.rejected"
	RequestUrgent   RequestEventType = "request.urgent"
)

// RequestEvent describes one change to a blood request
type RequestEvent struct {
	Type      RequestEventType `json:"type"`
	RequestID string           `json:"request_id"`
	Hospital  string           `json:"hospital"`
	BloodType string           `json:"blood_type"`
	Quantity  int              `json:"quantity"`
	Status    string           `json:"status"`
	Priority  string           `json:"priority"`
	ActorID   string           `json:"actor_id,omitempty"`
	At        time.Time        `json:"at"`
}

// NewRequestEvent snapshots req as an event of type t
func NewRequestEvent(t RequestEventType, req *models.BloodRequest, actorID string) RequestEvent {
	return RequestEvent{
		Type:      t,
		RequestID: req.ID,
		Hospital:  req.Hospital,
		BloodType: req.BloodType,
		Quantity:  req.Quantity,
		Status:    string(req.Status),
		Priority:  string(req.Priority),
		ActorID:   actorID,
		At:        time.Now().UTC(),
	}
}

type Publisher interface {
	PublishRequestEvent(ctx context.Context, evt RequestEvent) error
	Close() error
}

// KafkaPublisher writes request events to a Kafka topic keyed by request id
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) *KafkaPublisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	})
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) PublishRequestEvent(ctx context.Context, evt RequestEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode request event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.RequestID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(evt.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write request event: %w", err)
	}
	p.log.Debug("request event published",
		zap.String("type", string(evt.Type)),
		zap.String("request_id", evt.RequestID),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishRequestEvent(ctx context.Context, evt RequestEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
