package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/JoeShih716/go-bank-ledger/internal/app/audit"
	"github.com/JoeShih716/go-bank-ledger/internal/app/audit/adapter/out/mongodb"
	"github.com/JoeShih716/go-bank-ledger/internal/config"
	"github.com/JoeShih716/go-bank-ledger/pkg/logger"
	"github.com/JoeShih716/go-bank-ledger/pkg/rabbitmq"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("failed to load config")
	}
	log, err := logger.New(cfg.Log, "ledger-auditworker")
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("failed to build logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. MongoDB
	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create mongodb client")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("disconnect mongodb")
		}
	}()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = mongoClient.Ping(pingCtx, nil)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb not reachable")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
	repo := mongodb.NewAuditRepository(mongoClient, cfg.Mongo.Database)

	// 2. RabbitMQ
	conn, err := rabbitmq.Dial(cfg.RabbitMQ.Config, "AuditWorker_Consumer")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open rabbitmq channel")
	}
	defer ch.Close()

	queue, err := rabbitmq.DeclareQueue(ch, cfg.RabbitMQ.Config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to declare audit queue")
	}

	// 手動 ack：寫入 Mongo 成功後才確認
	deliveries, err := ch.Consume(
		queue,          // queue
		"audit_worker", // consumer tag
		false,          // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register consumer")
	}

	// 連線中斷時結束，交給外部 (docker / k8s) 重啟
	closed := ch.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if err, ok := <-closed; ok && err != nil {
			log.Error().Err(err).Msg("rabbitmq channel closed")
			stop()
		}
	}()

	log.Info().Str("queue", queue).Msg("audit worker started")
	consumer := audit.NewConsumer(repo, log, cfg.Mongo.SaveTimeout)
	if err := consumer.Run(ctx, deliveries); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("audit worker stopped")
	}
	log.Info().Msg("audit worker exited")
}
