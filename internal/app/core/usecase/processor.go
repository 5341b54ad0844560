package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// Result Processor 處理一筆交易的結果
type Result struct {
	// Entry: Applied 或 Rejected 的帳本紀錄
	Entry *domain.LedgerEntry
	// Replayed: 帳本中已有這筆交易，直接回傳先前結果
	Replayed bool
}

// Processor 驗證並原子性地套用單筆交易
// 呼叫端必須先取得交易涉及帳戶的鎖
type Processor struct {
	accounts AccountStore
	ledger   LedgerLog
	txm      TxManager
	now      func() time.Time
}

// NewProcessor 建立 Processor
func NewProcessor(accounts AccountStore, ledger LedgerLog, txm TxManager) *Processor {
	return &Processor{
		accounts: accounts,
		ledger:   ledger,
		txm:      txm,
		now:      time.Now,
	}
}

// Apply 處理一筆交易
//
// 參數:
//
//	ctx: 上下文，提交開始前可以取消
//	txn: 狀態為 Pending 的交易
//
// 回傳:
//
//	*Result: Applied 或 Rejected 的紀錄 (Rejected 也是正常結果)
//	error: domain.ErrVersionConflict (可重試)、domain.ErrIdempotencyKeyReuse、
//	       domain.ErrStorageUnavailable 或 ctx 錯誤
func (p *Processor) Apply(ctx context.Context, txn *domain.Transaction) (*Result, error) {
	// 1. 冪等檢查
	prior, err := p.ledger.Lookup(ctx, txn.ID)
	switch {
	case err == nil:
		if !prior.Transaction.SameRequest(txn) {
			return nil, domain.ErrIdempotencyKeyReuse
		}
		return &Result{Entry: prior, Replayed: true}, nil
	case errors.Is(err, domain.ErrEntryNotFound):
	default:
		return nil, storageError("lookup transaction", err)
	}

	// 2. 驗證規則 (第一個失敗的規則決定原因)
	if !txn.Amount.IsPositive() {
		return p.reject(ctx, txn, domain.ReasonInvalidAmount, nil)
	}
	if txn.Kind == domain.TransactionKindTransfer && txn.Source == txn.Destination {
		return p.reject(ctx, txn, domain.ReasonSameAccount, nil)
	}

	// 3. 載入帳戶
	loaded := make(map[int64]*domain.Account, 2)
	for _, id := range txn.AccountIDs() {
		account, err := p.accounts.Get(ctx, id)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return p.reject(ctx, txn, domain.ReasonAccountNotFound, loaded)
		}
		if err != nil {
			return nil, storageError("load account", err)
		}
		loaded[id] = account
	}

	// 4. 計算新餘額
	newBalances, reason := computeBalances(txn, loaded)
	if reason != "" {
		return p.reject(ctx, txn, reason, loaded)
	}

	// 提交開始後不再允許取消
	if err := beginCommit(ctx); err != nil {
		return nil, err
	}

	// 5. CAS 與帳本寫入在同一個提交單位內完成
	now := p.now()
	applied := *txn
	applied.Status = domain.TransactionStatusApplied
	applied.AppliedAt = now
	entry := &domain.LedgerEntry{Transaction: applied, RecordedAt: now}

	err = p.txm.Run(context.WithoutCancel(ctx), func(ctx context.Context) error {
		changes := make([]domain.BalanceChange, 0, len(newBalances))
		for _, id := range txn.AccountIDs() {
			before := loaded[id]
			after, err := p.accounts.CompareAndSwap(ctx, id, before.Version, newBalances[id])
			if err != nil {
				return err
			}
			changes = append(changes, domain.BalanceChange{
				AccountID: id,
				Before:    before.Balance,
				After:     after.Balance,
				Version:   after.Version,
			})
		}
		entry.Changes = changes
		return p.ledger.Append(ctx, entry)
	})
	if err != nil {
		return nil, storageError("commit transaction", err)
	}

	// 6. 回傳新餘額
	return &Result{Entry: entry}, nil
}

// computeBalances 依交易類型計算新餘額，失敗時回傳拒絕原因
func computeBalances(txn *domain.Transaction, accounts map[int64]*domain.Account) (map[int64]domain.Amount, domain.RejectReason) {
	out := make(map[int64]domain.Amount, 2)
	switch txn.Kind {
	case domain.TransactionKindDeposit:
		balance, err := accounts[txn.Destination].Credit(txn.Amount)
		if err != nil {
			return nil, reasonOf(err)
		}
		out[txn.Destination] = balance
	case domain.TransactionKindWithdraw:
		balance, err := accounts[txn.Source].Debit(txn.Amount)
		if err != nil {
			return nil, reasonOf(err)
		}
		out[txn.Source] = balance
	case domain.TransactionKindTransfer:
		from, to := accounts[txn.Source], accounts[txn.Destination]
		if from.Currency != to.Currency {
			return nil, domain.ReasonCurrencyMismatch
		}
		fromBalance, err := from.Debit(txn.Amount)
		if err != nil {
			return nil, reasonOf(err)
		}
		toBalance, err := to.Credit(txn.Amount)
		if err != nil {
			return nil, reasonOf(err)
		}
		out[txn.Source] = fromBalance
		out[txn.Destination] = toBalance
	}
	return out, ""
}

func reasonOf(err error) domain.RejectReason {
	if errors.Is(err, domain.ErrInsufficientFunds) {
		return domain.ReasonInsufficientFunds
	}
	return domain.ReasonInvalidAmount
}

// reject 記錄 Rejected 紀錄 (不變更任何餘額)
func (p *Processor) reject(ctx context.Context, txn *domain.Transaction, reason domain.RejectReason, loaded map[int64]*domain.Account) (*Result, error) {
	rejected := *txn
	rejected.Status = domain.TransactionStatusRejected
	rejected.Reason = reason

	if err := beginCommit(ctx); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{Transaction: rejected, RecordedAt: p.now()}
	for _, id := range txn.AccountIDs() {
		if account, ok := loaded[id]; ok {
			entry.Changes = append(entry.Changes, domain.BalanceChange{
				AccountID: id,
				Before:    account.Balance,
				After:     account.Balance,
				Version:   account.Version,
			})
		}
	}
	if err := p.ledger.Append(context.WithoutCancel(ctx), entry); err != nil {
		return nil, storageError("record rejection", err)
	}
	return &Result{Entry: entry}, nil
}

type commitGateKey struct{}

// withCommitGate 讓呼叫端決定提交能否開始
func withCommitGate(ctx context.Context, gate func() error) context.Context {
	return context.WithValue(ctx, commitGateKey{}, gate)
}

// beginCommit 提交前的最後檢查，未設定 gate 時只看 ctx 是否已取消
func beginCommit(ctx context.Context) error {
	if gate, ok := ctx.Value(commitGateKey{}).(func() error); ok {
		return gate()
	}
	return ctx.Err()
}

// storageError 儲存層錯誤統一包成 ErrStorageUnavailable
// 版本衝突 (含其他節點搶先寫入同一個交易 ID) 原樣回傳，交由上層重試
func storageError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, domain.ErrVersionConflict) {
		return err
	}
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}
