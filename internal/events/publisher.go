package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/kafka"
)

// Event types carried on the sales topic
const (
	EventSaleCreated       = "sale.created"
	EventSaleStatusChanged = "sale.status_changed"
	EventContractCreated   = "contract.created"
)

// SaleEvent is the envelope for sale lifecycle events
type SaleEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Timestamp time.Time    `json:"timestamp"`
	Sale      *domain.Sale `json:"sale,omitempty"`
	// OldStatus is set on status change events
	OldStatus domain.SaleStatus `json:"old_status,omitempty"`
}

// ContractEvent is the envelope for contract lifecycle events
type ContractEvent struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	Timestamp time.Time        `json:"timestamp"`
	Contract  *domain.Contract `json:"contract,omitempty"`
}

// Publisher defines the interface for publishing sales events
type Publisher interface {
	// PublishSaleCreated publishes a sale created event
	PublishSaleCreated(ctx context.Context, sale *domain.Sale) error
	// PublishSaleStatusChanged publishes a sale status change event
	PublishSaleStatusChanged(ctx context.Context, sale *domain.Sale, oldStatus domain.SaleStatus) error
	// PublishContractCreated publishes a contract created event
	PublishContractCreated(ctx context.Context, contract *domain.Contract) error
	// Close closes the publisher
	Close() error
}

// KafkaPublisher implements Publisher on a Kafka topic
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	source   string
}

// PublisherConfig contains configuration for the event publisher
type PublisherConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
	Source   string
}

// NewKafkaPublisher creates a new Kafka-backed publisher
func NewKafkaPublisher(ctx context.Context, cfg *PublisherConfig) (*KafkaPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("publisher config is required")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = "sales.events"
	}
	source := cfg.Source
	if source == "" {
		source = "carros-e-cia"
	}

	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Brokers,
		ClientID:      cfg.ClientID,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
		LingerMs:      10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		source:   source,
	}, nil
}

// PublishSaleCreated publishes a sale created event
func (p *KafkaPublisher) PublishSaleCreated(ctx context.Context, sale *domain.Sale) error {
	event := &SaleEvent{
		EventID:   uuid.New().String(),
		EventType: EventSaleCreated,
		Timestamp: time.Now(),
		Sale:      sale,
	}
	return p.publish(ctx, event.EventID, event.EventType, sale.ID, event)
}

// PublishSaleStatusChanged publishes a sale status change event
func (p *KafkaPublisher) PublishSaleStatusChanged(ctx context.Context, sale *domain.Sale, oldStatus domain.SaleStatus) error {
	event := &SaleEvent{
		EventID:   uuid.New().String(),
		EventType: EventSaleStatusChanged,
		Timestamp: time.Now(),
		Sale:      sale,
		OldStatus: oldStatus,
	}
	return p.publish(ctx, event.EventID, event.EventType, sale.ID, event)
}

// PublishContractCreated publishes a contract created event
func (p *KafkaPublisher) PublishContractCreated(ctx context.Context, contract *domain.Contract) error {
	event := &ContractEvent{
		EventID:   uuid.New().String(),
		EventType: EventContractCreated,
		Timestamp: time.Now(),
		Contract:  contract,
	}
	return p.publish(ctx, event.EventID, event.EventType, contract.ID, event)
}

// Close closes the publisher
func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	return nil
}

func (p *KafkaPublisher) publish(ctx context.Context, eventID, eventType, key string, event interface{}) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: value,
		Headers: map[string]string{
			"event_type":   eventType,
			"event_id":     eventID,
			"source":       p.source,
			"content_type": "application/json",
		},
		Timestamp: time.Now(),
	}

	if err := p.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

// NoOpPublisher is a no-op implementation of Publisher
type NoOpPublisher struct{}

// NewNoOpPublisher creates a new no-op publisher
func NewNoOpPublisher() *NoOpPublisher {
	return &NoOpPublisher{}
}

// PublishSaleCreated is a no-op
func (p *NoOpPublisher) PublishSaleCreated(ctx context.Context, sale *domain.Sale) error {
	return nil
}

// PublishSaleStatusChanged is a no-op
func (p *NoOpPublisher) PublishSaleStatusChanged(ctx context.Context, sale *domain.Sale, oldStatus domain.SaleStatus) error {
	return nil
}

// PublishContractCreated is a no-op
func (p *NoOpPublisher) PublishContractCreated(ctx context.Context, contract *domain.Contract) error {
	return nil
}

// Close is a no-op
func (p *NoOpPublisher) Close() error {
	return nil
}
