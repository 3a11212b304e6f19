package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/pgd-harmeet/shipstation-triggers/internal/application/customernote"
	"github.com/pgd-harmeet/shipstation-triggers/internal/application/eagle"
	"github.com/pgd-harmeet/shipstation-triggers/internal/config"
	ginserver "github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/http/gin"
	"github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/http/shipstation"
	kafkainfra "github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/messaging/kafka"
	"github.com/pgd-harmeet/shipstation-triggers/internal/interfaces/http/handler"
	"github.com/pgd-harmeet/shipstation-triggers/internal/interfaces/http/router"
	"github.com/pgd-harmeet/shipstation-triggers/pkg/logger"
)

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
	appLog = appLog.WithFields(logger.String("app", cfg.App.Name), logger.String("component", "api"))

	if cfg.ShipStation.AuthHeader == "" {
		appLog.Fatal("AUTH_CREDS is empty")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	producer, err := kafkainfra.NewProducer(cfg.Kafka, appLog)
	if err != nil {
		appLog.Fatal("kafka producer failed", logger.Error(err))
	}
	defer producer.Close(context.Background())

	shipNotifyPub, err := kafkainfra.NewShipNotifyPublisher(producer, cfg.Kafka.ShipNotifyTopic)
	if err != nil {
		appLog.Fatal("ship notify publisher failed", logger.Error(err))
	}
	notePub, err := kafkainfra.NewCustomerNotePublisher(producer, cfg.Kafka.CustomerNoteTopic)
	if err != nil {
		appLog.Fatal("customer note publisher failed", logger.Error(err))
	}

	ss := shipstation.NewClient(cfg.ShipStation, appLog)
	queueSvc := eagle.NewQueueService(ss, ss, shipNotifyPub, cfg.ShipStation.StoreNames, appLog)
	noteSvc := customernote.NewService(ss, ss, notePub, cfg.ShipStation.WSITagName, appLog)

	engine := ginserver.NewEngine(appLog)
	router.RegisterRoutes(engine,
		handler.NewWebhookHandler(queueSvc),
		handler.NewCustomerNoteHandler(noteSvc),
		handler.NewHealthHandler(map[string]handler.Pinger{"kafka": producer}),
	)

	server := ginserver.NewServer(cfg.Server, engine)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLog.Error("server shutdown failed", logger.Error(err))
		}
	}()

	appLog.Info("api listening", logger.String("addr", cfg.Server.Address()))
	if err := server.Run(); err != nil {
		appLog.Fatal("server run failed", logger.Error(err))
	}
	appLog.Info("api stopped")
}
