package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pgd-harmeet/shipstation-triggers/internal/application/customernote"
	"github.com/pgd-harmeet/shipstation-triggers/internal/application/eagle"
	"github.com/pgd-harmeet/shipstation-triggers/internal/config"
	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/estu"
	"github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/encoding/avro"
	"github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/http/magestack"
	"github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/http/shipstation"
	kafkainfra "github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/messaging/kafka"
	"github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/persistence/postgres"
	"github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/worker"
	"github.com/pgd-harmeet/shipstation-triggers/pkg/logger"
)

// eagle_worker consumes the ship-notify and customer-note topics and turns
// them into stored order sheets and WSI notes.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	appLog, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer appLog.Sync()
	appLog = appLog.WithFields(logger.String("app", cfg.App.Name), logger.String("component", "eagle_worker"))

	if cfg.ShipStation.AuthHeader == "" {
		appLog.Fatal("AUTH_CREDS is empty")
	}
	if cfg.Magestack.BaseURL == "" {
		appLog.Fatal("MAGESTACK_URL is empty")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		appLog.Fatal("postgres connection failed", logger.Error(err))
	}
	defer pool.Close()

	encoder, err := estu.NewEncoder(estu.Config{
		StoreNumber: cfg.Eagle.StoreNumber,
		CustomerID:  cfg.Eagle.CustomerID,
		ClerkID:     cfg.Eagle.ClerkID,
	}, magestack.NewClient(cfg.Magestack, appLog))
	if err != nil {
		appLog.Fatal("estu encoder failed", logger.Error(err))
	}

	ss := shipstation.NewClient(cfg.ShipStation, appLog)
	sheetSvc := eagle.NewSheetService(ss, encoder, postgres.NewOrderSheetRepository(pool), appLog)
	noteSvc := customernote.NewService(ss, ss, nil, cfg.ShipStation.WSITagName, appLog)

	shipNotifyCodec, err := avro.NewShipNotifyCodec()
	if err != nil {
		appLog.Fatal("ship notify codec failed", logger.Error(err))
	}
	noteCodec, err := avro.NewCustomerNoteCodec()
	if err != nil {
		appLog.Fatal("customer note codec failed", logger.Error(err))
	}

	workers := worker.NewPool(ctx, cfg.Kafka.Workers, cfg.Kafka.Workers*2)
	workers.Start()

	var drained sync.WaitGroup
	drained.Add(1)
	go func() {
		defer drained.Done()
		for r := range workers.Results() {
			if r.Err != nil {
				appLog.Error("job failed", logger.String("job", r.JobID), logger.Error(r.Err))
				continue
			}
			appLog.Debug("job done", logger.String("job", r.JobID), logger.Int64("duration_ms", r.Duration.Milliseconds()))
		}
	}()

	consumers := []*kafkainfra.Consumer{
		kafkainfra.NewConsumer(cfg.Kafka, cfg.Kafka.ShipNotifyTopic, workers, func(ctx context.Context, value []byte) error {
			msg, err := shipNotifyCodec.Decode(value)
			if err != nil {
				return fmt.Errorf("decode ship notify: %w", err)
			}
			return sheetSvc.HandleShipNotify(logger.NewContext(ctx, logger.String("message_id", msg.MessageID)), msg.ResourceURL)
		}, appLog),
		kafkainfra.NewConsumer(cfg.Kafka, cfg.Kafka.CustomerNoteTopic, workers, func(ctx context.Context, value []byte) error {
			msg, err := noteCodec.Decode(value)
			if err != nil {
				return fmt.Errorf("decode customer note: %w", err)
			}
			return noteSvc.HandleQueuedNote(logger.NewContext(ctx, logger.String("message_id", msg.MessageID)), msg.OrderNumber)
		}, appLog),
	}

	var wg sync.WaitGroup
	for _, c := range consumers {
		wg.Add(1)
		go func(c *kafkainfra.Consumer) {
			defer wg.Done()
			if err := c.Start(ctx); err != nil {
				appLog.Error("kafka consumer stopped", logger.Error(err))
				stop()
			}
		}(c)
	}

	appLog.Info("eagle worker started", logger.Int("workers", cfg.Kafka.Workers))
	<-ctx.Done()
	wg.Wait()
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			appLog.Warn("close consumer failed", logger.Error(err))
		}
	}
	workers.Stop()
	drained.Wait()
	appLog.Info("eagle worker stopped")
}
