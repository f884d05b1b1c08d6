package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pizzapalace/internal/config"
	"pizzapalace/internal/domain"
	"pizzapalace/internal/logger"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
	"go.uber.org/zap"
)

// producer is the subset of *kgo.Client the publisher needs.
type producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
	Close()
}

// Kafka publishes order events asynchronously with franz-go.
type Kafka struct {
	client producer
	topic  string
	logger *zap.Logger
	now    func() time.Time
}

// orderPlaced is the record value consumers decode.
type orderPlaced struct {
	EventType string       `json:"event_type"`
	Order     domain.Order `json:"order"`
}

// NewKafka connects a producer to cfg.Brokers.
func NewKafka(cfg config.KafkaConfig, log *zap.Logger) (*Kafka, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.AllowAutoTopicCreation(),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ProducerLinger(10 * time.Millisecond),
	}
	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts, kgo.SASL(plain.Auth{User: cfg.Username, Pass: cfg.Password}.AsMechanism()))
	}
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return newKafka(client, cfg.Topic, log), nil
}

func newKafka(client producer, topic string, log *zap.Logger) *Kafka {
	return &Kafka{client: client, topic: topic, logger: logger.OrNop(log).Named("events"), now: time.Now}
}

// New returns a Kafka publisher when brokers are configured and Nop otherwise.
func New(cfg config.KafkaConfig, log *zap.Logger) (Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return Nop{}, nil
	}
	return NewKafka(cfg, log)
}

func (k *Kafka) record(o domain.Order) (*kgo.Record, error) {
	data, err := json.Marshal(orderPlaced{EventType: EventOrderPlaced, Order: o})
	if err != nil {
		return nil, fmt.Errorf("marshal order %s: %w", o.ID, err)
	}
	return &kgo.Record{
		Topic: k.topic,
		Key:   []byte(o.ID),
		Value: data,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
			{Key: "version", Value: []byte("1")},
		},
		Timestamp: k.now(),
	}, nil
}

// PublishOrderPlaced queues the record and returns. Delivery errors are logged.
// The record outlives the caller's request, so it is produced on a context
// that keeps ctx's values but not its cancellation.
func (k *Kafka) PublishOrderPlaced(ctx context.Context, o domain.Order) error {
	rec, err := k.record(o)
	if err != nil {
		return err
	}
	k.client.Produce(context.WithoutCancel(ctx), rec, func(r *kgo.Record, err error) {
		if err != nil {
			k.logger.Warn("order event not delivered", zap.String("order_id", o.ID), zap.Error(err))
			return
		}
		k.logger.Debug("order event delivered",
			zap.String("order_id", o.ID), zap.Int32("partition", r.Partition), zap.Int64("offset", r.Offset))
	})
	return nil
}

func (k *Kafka) Close() {
	k.client.Close()
}
