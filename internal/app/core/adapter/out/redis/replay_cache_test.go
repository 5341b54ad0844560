package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// unreachableClient 指向沒有服務的位址，所有指令都會失敗
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestReplayCacheFallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedgerLog(nil)
	entry := &domain.LedgerEntry{Transaction: domain.Transaction{
		ID:          "t-1",
		Kind:        domain.TransactionKindDeposit,
		Amount:      domain.Units(10),
		Destination: 1,
		Status:      domain.TransactionStatusApplied,
	}}
	if err := ledger.Append(ctx, entry); err != nil {
		t.Fatal(err)
	}

	client := unreachableClient()
	defer client.Close()
	cache := NewReplayCache(ledger, client, time.Minute, zerolog.Nop())

	got, err := cache.Lookup(ctx, "t-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Sequence != 1 || got.Transaction.Amount != domain.Units(10) {
		t.Fatalf("got=%+v", got)
	}
	if _, err := cache.Lookup(ctx, "missing"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("err=%v want ErrEntryNotFound", err)
	}

	// 其餘方法直接交給底層帳本
	page, err := cache.ListByAccount(ctx, 1, domain.Page{})
	if err != nil || len(page.Entries) != 1 {
		t.Fatalf("page=%+v err=%v", page, err)
	}
}
