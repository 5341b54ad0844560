package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	grpc_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/in/health"
	rabbitmq_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/rabbitmq"
	redis_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/redis"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-bank-ledger/internal/config"
	"github.com/JoeShih716/go-bank-ledger/pkg/keylock"
	"github.com/JoeShih716/go-bank-ledger/pkg/logger"
	"github.com/JoeShih716/go-bank-ledger/pkg/rabbitmq"
	pb "github.com/JoeShih716/go-bank-ledger/proto/ledgerpb"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	// 1. 載入設定與 logger
	cfg, err := config.Load(*configPath)
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("failed to load config")
	}
	log, err := logger.New(cfg.Log, "ledger-core")
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("failed to build logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. 儲存層 (帳戶、帳本、交易單位)
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to open storage")
	}
	defer store.close()
	log.Info().Str("driver", cfg.Storage.Driver).Int("seeded_accounts", len(cfg.Accounts)).Msg("storage ready")

	checks := map[string]health.Check{"storage": store.ping}
	ledger := store.ledger

	// 3. Redis 冪等查詢快取 (選用，連不上時照常服務)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis not reachable, replay cache will fall back to the ledger")
		}
		ledger = redis_adapter.NewReplayCache(ledger, rdb, cfg.Redis.TTL, log)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	serviceOpts := []usecase.ServiceOption{
		usecase.WithLogger(log),
		usecase.WithOptions(cfg.Service.Options()),
	}

	// 4. RabbitMQ 事件發布 (選用)
	if cfg.RabbitMQ.Enabled {
		publisher, closeMQ, err := openPublisher(cfg.RabbitMQ.Config, log)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unavailable, ledger events will not be published")
		} else {
			defer closeMQ()
			serviceOpts = append(serviceOpts, usecase.WithPublisher(publisher))
		}
	}

	// 5. UseCase
	core := usecase.NewService(store.accounts, ledger, store.txm, keylock.New[int64](), serviceOpts...)

	// 6. gRPC Server
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Server.GRPCAddr).Msg("failed to listen")
	}
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_adapter.RecoveryInterceptor(log),
			grpc_adapter.CallerInterceptor(),
			grpc_adapter.LoggingInterceptor(log),
		),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	)
	pb.RegisterLedgerServiceServer(s, grpc_adapter.NewGrpcServer(core, log))
	reflection.Register(s) // 方便用 grpcurl 測試

	go func() {
		log.Info().Str("addr", cfg.Server.GRPCAddr).Msg("starting grpc server")
		if err := s.Serve(lis); err != nil {
			log.Error().Err(err).Msg("grpc server stopped")
			stop()
		}
	}()

	// 7. 健康檢查
	var httpServer *http.Server
	if cfg.Server.HTTPAddr != "" {
		httpServer = &http.Server{
			Addr:              cfg.Server.HTTPAddr,
			Handler:           health.NewRouter(checks, 2*time.Second, log),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("starting health server")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("health server stopped")
				stop()
			}
		}()
	}

	// Graceful Shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("health server shutdown")
		}
	}

	// 等進行中的交易完成，逾時則強制中斷
	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn().Msg("graceful stop timed out, forcing")
		s.Stop()
	}
	log.Info().Msg("server exited")
}

// openPublisher 建立 RabbitMQ 連線與 channel，並宣告 exchange
func openPublisher(cfg rabbitmq.Config, log zerolog.Logger) (usecase.EventPublisher, func(), error) {
	conn, err := rabbitmq.Dial(cfg, "LedgerCore_Publisher")
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	if err := rabbitmq.DeclareExchange(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}
	closeFn := func() {
		if err := ch.Close(); err != nil {
			log.Warn().Err(err).Msg("close rabbitmq channel")
		}
		if err := conn.Close(); err != nil {
			log.Warn().Err(err).Msg("close rabbitmq connection")
		}
	}
	log.Info().Str("exchange", cfg.Exchange).Msg("connected to rabbitmq")
	return rabbitmq_adapter.NewPublisher(ch, cfg.Exchange, log), closeFn, nil
}
