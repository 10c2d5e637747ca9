// Package events publishes counterparty session events to Kafka and
// consumes them back for auditing.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gartstein/counterparty/internal/counterparty/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	CounterpartyInvited  EventType = "counterparty_invited"
	CounterpartiesLoaded EventType = "counterparties_loaded"
	FileReceived         EventType = "file_received"
)

// Event is the message written to the topic. Only the fields relevant to
// Type are set.
type Event struct {
	Type         EventType            `json:"type"`
	SessionID    string               `json:"session_id"`
	Counterparty *models.Counterparty `json:"counterparty,omitempty"`
	FileName     string               `json:"file_name,omitempty"`
	Count        int                  `json:"count,omitempty"`
	OccurredAt   time.Time            `json:"occurred_at"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	// Create topic if it doesn't exist
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
	}
	err = conn.CreateTopics(topicConfigs...)
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	p := newProducer(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
		Topic:    topic,
	}, logger, 1000)

	go p.eventLoop()

	return p, nil
}

func newProducer(writer KafkaWriter, logger *zap.Logger, queue int) *Producer {
	return &Producer{
		writer:    writer,
		events:    make(chan Event, queue),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}
}

// Produce queues event for delivery without blocking. Events are dropped
// with a warning when the queue is full.
func (p *Producer) Produce(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("session_id", event.SessionID),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("session_id", event.SessionID),
		)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SessionID),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("session_id", event.SessionID),
		)
		return
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}

// NopProducer discards events. It is used when no brokers are configured.
type NopProducer struct {
	logger *zap.Logger
}

func NewNopProducer(logger *zap.Logger) *NopProducer {
	return &NopProducer{logger: logger.Named("nop_producer")}
}

func (p *NopProducer) Produce(event Event) {
	p.logger.Debug("Discarding event",
		zap.String("event_type", string(event.Type)),
		zap.String("session_id", event.SessionID),
	)
}

func (p *NopProducer) Close() {}
