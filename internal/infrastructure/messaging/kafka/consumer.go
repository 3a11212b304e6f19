package kafka

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/pgd-harmeet/shipstation-triggers/internal/config"
	"github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/worker"
	"github.com/pgd-harmeet/shipstation-triggers/pkg/logger"
)

// Handler processes one message value. A returned error makes the consumer
// retry the message.
type Handler func(ctx context.Context, value []byte) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer reads one topic and hands each message to a shared worker pool.
// A message is finished once the handler succeeds or the attempts run out.
// Only the highest offset below which every message of a partition has
// finished is committed, so a slow message is never skipped past.
type Consumer struct {
	reader      messageReader
	mu          sync.Mutex
	offsets     *offsetTracker
	pool        *worker.Pool
	handler     Handler
	logger      logger.Logger
	topic       string
	maxAttempts int
	backoff     time.Duration
}

func NewConsumer(cfg config.KafkaConfig, topic string, pool *worker.Pool, handler Handler, log logger.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.ConsumerGroup,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 1e6,
	})
	return newConsumer(reader, topic, pool, handler, log)
}

func newConsumer(reader messageReader, topic string, pool *worker.Pool, handler Handler, log logger.Logger) *Consumer {
	return &Consumer{
		reader:      reader,
		offsets:     newOffsetTracker(),
		pool:        pool,
		handler:     handler,
		logger:      log.WithFields(logger.String("topic", topic)),
		topic:       topic,
		maxAttempts: 3,
		backoff:     2 * time.Second,
	}
}

// Start blocks until ctx is cancelled or the reader fails.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer started")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("fetch message from %s: %w", c.topic, err)
		}

		c.mu.Lock()
		c.offsets.track(msg)
		c.mu.Unlock()

		job := &worker.Job{
			ID:  c.topic + "/" + strconv.Itoa(msg.Partition) + "/" + strconv.FormatInt(msg.Offset, 10),
			Run: func(jobCtx context.Context) error { return c.process(jobCtx, msg) },
		}
		if err := c.pool.Submit(ctx, job); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("submit message: %w", err)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafkago.Message) error {
	log := c.logger.WithFields(
		logger.Int("partition", msg.Partition),
		logger.Int64("offset", msg.Offset),
	)

	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err = c.handler(ctx, msg.Value); err == nil {
			break
		}
		log.Warn("handle message failed",
			logger.Int("attempt", attempt),
			logger.Error(err),
		)
		if attempt == c.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
	if err != nil {
		log.Error("giving up on message", logger.Error(err))
	}

	if cerr := c.commit(ctx, msg); cerr != nil {
		return cerr
	}
	return err
}

// commit marks msg finished and commits the partition's new contiguous
// offset, if it moved. Holding mu keeps commits monotonic per partition.
func (c *Consumer) commit(ctx context.Context, msg kafkago.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	upTo, ok := c.offsets.finish(msg)
	if !ok {
		return nil
	}
	if err := c.reader.CommitMessages(ctx, upTo); err != nil {
		return fmt.Errorf("commit offset %d: %w", upTo.Offset, err)
	}
	return nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
