package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/pgd-harmeet/shipstation-triggers/internal/config"
	"github.com/pgd-harmeet/shipstation-triggers/pkg/logger"
)

type syncProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Ping(ctx context.Context) error
	Close()
}

// Producer publishes raw payloads with franz-go.
type Producer struct {
	client syncProducer
	logger logger.Logger
}

func NewProducer(cfg config.KafkaConfig, log logger.Logger) (*Producer, error) {
	log.Info("connecting kafka producer", logger.Any("brokers", cfg.Brokers))

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchMaxBytes(1<<20),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &Producer{client: client, logger: log}, nil
}

// Publish writes one record and waits for the brokers to ack it. A nil key
// is replaced with a random UUID.
func (p *Producer) Publish(ctx context.Context, topic string, key, payload []byte) error {
	if topic == "" {
		return fmt.Errorf("topic is empty")
	}
	if len(payload) == 0 {
		return fmt.Errorf("payload is empty")
	}
	if key == nil {
		key = []byte(uuid.NewString())
	}

	rec := &kgo.Record{
		Topic:     topic,
		Key:       key,
		Value:     payload,
		Timestamp: time.Now().UTC(),
	}

	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		p.logger.Error("kafka publish failed",
			logger.String("topic", topic),
			logger.Int("payload_bytes", len(payload)),
			logger.Error(err),
		)
		return fmt.Errorf("publish to kafka topic %s: %w", topic, err)
	}

	p.logger.Debug("kafka publish ok",
		logger.String("topic", topic),
		logger.String("key", string(key)),
	)
	return nil
}

// Ping checks that at least one seed broker answers.
func (p *Producer) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func (p *Producer) Close(ctx context.Context) error {
	p.logger.Info("Closing Kafka producer")
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
