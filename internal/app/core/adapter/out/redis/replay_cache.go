package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

const keyPrefix = "ledger:txn:"

// ReplayCache 包在 LedgerLog 外層的讀取快取
// 已確定 (Applied/Rejected) 的紀錄不會再改變，可以安全地快取冪等查詢
// Redis 故障時直接查詢底層帳本，不影響正確性
type ReplayCache struct {
	usecase.LedgerLog
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewReplayCache 建立 ReplayCache
//
// 參數:
//
//	next: 真正的帳本
//	client: Redis 連線
//	ttl: 快取存活時間
//	log: 快取故障時的紀錄
func NewReplayCache(next usecase.LedgerLog, client *redis.Client, ttl time.Duration, log zerolog.Logger) *ReplayCache {
	return &ReplayCache{
		LedgerLog: next,
		client:    client,
		ttl:       ttl,
		log:       log,
	}
}

// Lookup 先查 Redis，未命中再查帳本並回寫
func (c *ReplayCache) Lookup(ctx context.Context, transactionID string) (*domain.LedgerEntry, error) {
	key := keyPrefix + transactionID
	val, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var entry domain.LedgerEntry
		if err := json.Unmarshal(val, &entry); err == nil {
			return &entry, nil
		}
		c.log.Warn().Str("key", key).Msg("discarding undecodable cached ledger entry")
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn().Err(err).Str("key", key).Msg("replay cache unavailable, falling back to ledger")
	}

	entry, err := c.LedgerLog.Lookup(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, entry)
	return entry, nil
}

func (c *ReplayCache) store(ctx context.Context, key string, entry *domain.LedgerEntry) {
	bytes, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, bytes, c.ttl).Err(); err != nil {
		c.log.Debug().Err(err).Str("key", key).Msg("failed to cache ledger entry")
	}
}

var _ usecase.LedgerLog = (*ReplayCache)(nil)
