package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewPool 建立 pgx 連線池，啟動時資料庫尚未就緒會依設定重試
//
// 參數:
//
//	ctx: 取消時停止重試
//	cfg: 連線設定
//	log: 記錄重試過程
//
// 回傳值:
//
//	*pgxpool.Pool: 已確認可用的連線池
//	error: 設定錯誤或重試後仍無法連線
func NewPool(ctx context.Context, cfg Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	maxRetries := max(cfg.ConnectRetries, 1)
	for i := 0; i < maxRetries; i++ {
		if err = pool.Ping(ctx); err == nil {
			break
		}
		if i < maxRetries-1 {
			log.Warn().Err(err).
				Int("attempt", i+1).
				Int("max_attempts", maxRetries).
				Dur("retry_in", cfg.ConnectRetryInterval).
				Msg("failed to connect to postgres, retrying")
			select {
			case <-time.After(cfg.ConnectRetryInterval):
			case <-ctx.Done():
				pool.Close()
				return nil, ctx.Err()
			}
		}
	}
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres after %d attempts: %w", maxRetries, err)
	}

	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Str("db", cfg.DBName).Msg("connected to postgres")
	return pool, nil
}
