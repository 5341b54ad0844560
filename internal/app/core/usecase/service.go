package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// Options Service 的行為參數
type Options struct {
	// MaxRetries: 版本衝突時最多重試次數 (不含第一次)
	MaxRetries int
	// LockTimeout: 等待帳戶鎖的上限
	LockTimeout time.Duration
	// RetryBackoff: 每次重試前的等待，會隨次數線性增加
	RetryBackoff time.Duration
}

// DefaultOptions 預設參數
func DefaultOptions() Options {
	return Options{
		MaxRetries:   3,
		LockTimeout:  5 * time.Second,
		RetryBackoff: 5 * time.Millisecond,
	}
}

// Receipt 已套用交易的回執
type Receipt struct {
	Transaction domain.Transaction
	Sequence    uint64
	Balances    []domain.BalanceChange
	// Replayed: 冪等重送，回傳的是先前的結果
	Replayed bool
}

// Service 交易服務，對外唯一的入口
type Service struct {
	accounts  AccountStore
	ledger    LedgerLog
	processor *Processor
	locks     Controller
	publisher EventPublisher
	opts      Options
	log       zerolog.Logger
	inflight  singleflight.Group
	now       func() time.Time

	mu      sync.Mutex
	flights map[string]*flight
}

// flight 同一個交易 ID 合併後的一次執行
// ctx 不隨任何單一呼叫端取消，只在所有呼叫端都離開且尚未開始提交時取消
type flight struct {
	ctx        context.Context
	cancel     context.CancelFunc
	waiters    int
	committing bool
}

// ServiceOption 設定 Service 的選用元件
type ServiceOption func(*Service)

// WithPublisher 設定事件發布者
func WithPublisher(p EventPublisher) ServiceOption {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithLogger 設定 logger
func WithLogger(l zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = l
	}
}

// WithOptions 覆寫重試與逾時參數
func WithOptions(o Options) ServiceOption {
	return func(s *Service) {
		s.opts = o
	}
}

// NewService 建立交易服務
func NewService(accounts AccountStore, ledger LedgerLog, txm TxManager, locks Controller, opts ...ServiceOption) *Service {
	s := &Service{
		accounts:  accounts,
		ledger:    ledger,
		processor: NewProcessor(accounts, ledger, txm),
		locks:     locks,
		opts:      DefaultOptions(),
		log:       zerolog.Nop(),
		now:       time.Now,
		flights:   make(map[string]*flight),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deposit 存款
func (s *Service) Deposit(ctx context.Context, accountID int64, amount domain.Amount, clientTxnID string) (*Receipt, error) {
	return s.execute(ctx, &domain.Transaction{
		ID:          clientTxnID,
		Kind:        domain.TransactionKindDeposit,
		Amount:      amount,
		Destination: accountID,
	})
}

// Withdraw 提款
func (s *Service) Withdraw(ctx context.Context, accountID int64, amount domain.Amount, clientTxnID string) (*Receipt, error) {
	return s.execute(ctx, &domain.Transaction{
		ID:     clientTxnID,
		Kind:   domain.TransactionKindWithdraw,
		Amount: amount,
		Source: accountID,
	})
}

// Transfer 轉帳，雙方餘額一起提交或都不變
func (s *Service) Transfer(ctx context.Context, sourceID, destinationID int64, amount domain.Amount, clientTxnID string) (*Receipt, error) {
	return s.execute(ctx, &domain.Transaction{
		ID:          clientTxnID,
		Kind:        domain.TransactionKindTransfer,
		Amount:      amount,
		Source:      sourceID,
		Destination: destinationID,
	})
}

// GetBalance 讀取最新已提交的帳戶狀態 (不取鎖)
func (s *Service) GetBalance(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, s.classify(err)
	}
	return account, nil
}

// GetHistory 依新到舊列出帳戶的帳本紀錄 (不取鎖)
func (s *Service) GetHistory(ctx context.Context, accountID int64, page domain.Page) (domain.HistoryPage, error) {
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return domain.HistoryPage{}, s.classify(err)
	}
	history, err := s.ledger.ListByAccount(ctx, accountID, page.Normalize())
	if err != nil {
		return domain.HistoryPage{}, s.classify(err)
	}
	return history, nil
}

// execute 處理一筆異動
// 同一個 clientTxnID 的並行請求合併為一次執行，結果共用
// 呼叫端取消只影響自己，提交開始後則一律等到結果
func (s *Service) execute(ctx context.Context, txn *domain.Transaction) (*Receipt, error) {
	if err := domain.ValidateTransactionID(txn.ID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	txn.Status = domain.TransactionStatusPending
	txn.Initiator = domain.InitiatorFrom(ctx)
	txn.CreatedAt = s.now()

	for {
		res, leader, err := s.join(ctx, txn)
		if err != nil {
			return nil, err
		}
		if res.Err != nil {
			// 合併的執行被其他已離開的呼叫端放棄，本呼叫端仍在等待就重新執行
			if isContextError(res.Err) && ctx.Err() == nil {
				continue
			}
			return nil, res.Err
		}

		result := res.Val.(*Result)
		entry := result.Entry
		if !entry.Transaction.SameRequest(txn) {
			return nil, domain.ErrIdempotencyKeyReuse
		}
		replayed := result.Replayed || !leader

		if entry.Transaction.Status == domain.TransactionStatusRejected {
			return nil, &domain.RejectionError{Entry: *entry, Replayed: replayed}
		}
		return &Receipt{
			Transaction: entry.Transaction,
			Sequence:    entry.Sequence,
			Balances:    entry.Changes,
			Replayed:    replayed,
		}, nil
	}
}

// join 加入 (或發起) 同一個交易 ID 的執行並等待結果
//
// 回傳:
//
//	singleflight.Result: 共用的執行結果
//	bool: 本呼叫端是否為實際執行者
//	error: 本呼叫端在提交開始前被取消
func (s *Service) join(ctx context.Context, txn *domain.Transaction) (singleflight.Result, bool, error) {
	leader := false

	s.mu.Lock()
	f, ok := s.flights[txn.ID]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		s.flights[txn.ID] = f
	}
	f.waiters++
	ch := s.inflight.DoChan(txn.ID, func() (any, error) {
		leader = true
		defer s.finish(txn.ID, f)
		return s.run(withCommitGate(f.ctx, func() error { return s.beginCommit(f) }), txn)
	})
	s.mu.Unlock()

	done := ctx.Done()
	for {
		select {
		case res := <-ch:
			s.release(txn.ID, f)
			return res, leader, nil
		case <-done:
			if !s.leave(txn.ID, f) {
				// 已開始提交，結果即將確定
				done = nil
				continue
			}
			return singleflight.Result{}, false, ctx.Err()
		}
	}
}

// beginCommit 標記提交開始，之後呼叫端取消也不會放棄這次執行
func (s *Service) beginCommit(f *flight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := f.ctx.Err(); err != nil {
		return err
	}
	f.committing = true
	return nil
}

// leave 呼叫端提前離開，最後一個離開且尚未提交時放棄這次執行
// 回傳 false 表示已開始提交，呼叫端應繼續等待
func (s *Service) leave(id string, f *flight) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.committing {
		return false
	}
	f.waiters--
	if f.waiters == 0 {
		f.cancel()
		if s.flights[id] == f {
			delete(s.flights, id)
		}
		s.inflight.Forget(id)
	}
	return true
}

// release 呼叫端取得結果後離開
func (s *Service) release(id string, f *flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.waiters--
	if f.waiters == 0 {
		if s.flights[id] == f {
			delete(s.flights, id)
		}
		f.cancel()
	}
}

// finish 執行結束，之後的同 ID 請求改走帳本的冪等查詢
func (s *Service) finish(id string, f *flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flights[id] == f {
		delete(s.flights, id)
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// run 取鎖 → Processor → 釋放鎖，版本衝突時以新狀態重試
func (s *Service) run(ctx context.Context, txn *domain.Transaction) (*Result, error) {
	logger := s.log.With().Str("txn_id", txn.ID).Str("kind", txn.Kind.String()).Logger()

	for attempt := 0; ; attempt++ {
		result, err := s.attempt(ctx, txn)
		if err == nil {
			if !result.Replayed {
				s.publish(ctx, result.Entry, logger)
			}
			if result.Entry.Transaction.Status == domain.TransactionStatusRejected && !result.Replayed {
				logger.Info().Str("reason", string(result.Entry.Transaction.Reason)).Msg("transaction rejected")
			}
			return result, nil
		}

		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, s.classify(err)
		}
		if attempt >= s.opts.MaxRetries {
			logger.Warn().Int("attempts", attempt+1).Msg("version conflict retries exhausted")
			return nil, fmt.Errorf("%w: %w after %d attempts", domain.ErrTransient, err, attempt+1)
		}
		logger.Debug().Int("attempt", attempt+1).Msg("version conflict, retrying")

		if s.opts.RetryBackoff > 0 {
			timer := time.NewTimer(s.opts.RetryBackoff * time.Duration(attempt+1))
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			}
		}
	}
}

// attempt 一次完整的取鎖與處理，鎖一定會被釋放
func (s *Service) attempt(ctx context.Context, txn *domain.Transaction) (*Result, error) {
	lockCtx := ctx
	if s.opts.LockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.opts.LockTimeout)
		defer cancel()
	}

	release, err := s.locks.Lock(lockCtx, txn.AccountIDs()...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn().Str("txn_id", txn.ID).Dur("timeout", s.opts.LockTimeout).Msg("account lock timeout")
		return nil, fmt.Errorf("%w: %w", domain.ErrTransient, domain.ErrLockTimeout)
	}
	defer release()

	return s.processor.Apply(ctx, txn)
}

// publish 發布事件，失敗只記錄不影響結果
func (s *Service) publish(ctx context.Context, entry *domain.LedgerEntry, logger zerolog.Logger) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), domain.NewLedgerEvent(entry)); err != nil {
		logger.Error().Err(err).Msg("failed to publish ledger event")
	}
}

// classify 儲存層錯誤一律視為本次請求的 Fatal
func (s *Service) classify(err error) error {
	switch {
	case errors.Is(err, domain.ErrTransient),
		errors.Is(err, domain.ErrFatal),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, domain.ErrStorageUnavailable):
		s.log.Error().Err(err).Msg("storage unavailable")
		return fmt.Errorf("%w: %w", domain.ErrFatal, err)
	default:
		return err
	}
}
