package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	pb "github.com/JoeShih716/go-bank-ledger/proto/ledgerpb"
)

// transferer 壓測需要的 RPC
type transferer interface {
	Transfer(ctx context.Context, in *pb.TransferRequest, opts ...grpc.CallOption) (*pb.TransactionReply, error)
}

type benchConfig struct {
	From        int64
	To          int64
	Amount      string
	Total       int
	Concurrency int
}

// benchReport 壓測結果，Codes 以 gRPC status code 分類
type benchReport struct {
	Total   int
	Elapsed time.Duration
	Codes   map[string]int
}

// TPS 每秒完成的請求數
func (r *benchReport) TPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Total) / r.Elapsed.Seconds()
}

// bench 以固定併發數送出 Total 筆轉帳，每筆使用新的交易 ID
func bench(ctx context.Context, client transferer, cfg benchConfig) (*benchReport, error) {
	if cfg.Total <= 0 || cfg.Concurrency <= 0 {
		return nil, errors.New("bench: -n and -c must be positive")
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = make(map[string]int)
		sem   = make(chan struct{}, cfg.Concurrency)
	)
	start := time.Now()
	for i := 0; i < cfg.Total; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := client.Transfer(ctx, &pb.TransferRequest{
				SourceAccountId:      cfg.From,
				DestinationAccountId: cfg.To,
				Amount:               cfg.Amount,
				ClientTxnId:          uuid.NewString(),
			})
			code := status.Code(err).String()
			mu.Lock()
			codes[code]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	return &benchReport{
		Total:   cfg.Total,
		Elapsed: time.Since(start),
		Codes:   codes,
	}, nil
}
