package memory

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/pkg/wal"
)

func seedAccounts() *AccountStore {
	return NewAccountStore(
		domain.Account{ID: 1, OwnerID: "alice", Balance: domain.Units(100), Currency: "TWD"},
		domain.Account{ID: 2, OwnerID: "bob", Balance: domain.Units(50), Currency: "TWD"},
	)
}

func appliedEntry(id string, from, to int64, amount domain.Amount, changes ...domain.BalanceChange) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		Transaction: domain.Transaction{
			ID:          id,
			Kind:        domain.TransactionKindTransfer,
			Amount:      amount,
			Source:      from,
			Destination: to,
			Status:      domain.TransactionStatusApplied,
		},
		Changes:    changes,
		RecordedAt: time.Now(),
	}
}

func TestAccountStoreCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	s := seedAccounts()

	got, err := s.CompareAndSwap(ctx, 1, 0, domain.Units(70))
	if err != nil {
		t.Fatal(err)
	}
	if got.Balance != domain.Units(70) || got.Version != 1 {
		t.Fatalf("got=%+v", got)
	}

	// 舊版本寫入必須失敗
	if _, err := s.CompareAndSwap(ctx, 1, 0, domain.Units(10)); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("err=%v want ErrVersionConflict", err)
	}
	if _, err := s.CompareAndSwap(ctx, 99, 0, domain.Units(10)); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("err=%v want ErrAccountNotFound", err)
	}
	if _, err := s.CompareAndSwap(ctx, 1, 1, -1); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("err=%v want ErrInsufficientFunds", err)
	}

	a, _ := s.Get(ctx, 1)
	if a.Balance != domain.Units(70) || a.Version != 1 {
		t.Fatalf("account=%+v", a)
	}
}

func TestAccountStoreGetReturnsCopy(t *testing.T) {
	s := seedAccounts()
	a, _ := s.Get(context.Background(), 1)
	a.Balance = 0
	b, _ := s.Get(context.Background(), 1)
	if b.Balance != domain.Units(100) {
		t.Fatalf("internal state modified through Get: %v", b.Balance)
	}
}

func TestAccountStoreOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := seedAccounts()
	if err := s.Open(ctx, domain.Account{ID: 1, Balance: 0}); err != nil {
		t.Fatal(err)
	}
	a, _ := s.Get(ctx, 1)
	if a.Balance != domain.Units(100) {
		t.Fatalf("Open overwrote existing account: %v", a.Balance)
	}
	if err := s.Open(ctx, domain.Account{ID: 3, Currency: "TWD"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, 3); err != nil {
		t.Fatal(err)
	}
}

func TestLedgerLogListByAccountPagination(t *testing.T) {
	ctx := context.Background()
	l := NewLedgerLog(nil)
	for i := 1; i <= 7; i++ {
		from, to := int64(1), int64(2)
		if i%3 == 0 {
			from, to = 3, 4 // 與帳戶 1 無關
		}
		if err := l.Append(ctx, appliedEntry(fmt.Sprintf("t%d", i), from, to, domain.Units(1))); err != nil {
			t.Fatal(err)
		}
	}

	page, err := l.ListByAccount(ctx, 1, domain.Page{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Entries) != 2 || page.Entries[0].Sequence != 7 || page.Entries[1].Sequence != 5 {
		t.Fatalf("first page=%+v", page)
	}
	if page.NextBefore != 5 {
		t.Fatalf("NextBefore=%d want 5", page.NextBefore)
	}

	var seqs []uint64
	for cursor := uint64(0); ; {
		p, err := l.ListByAccount(ctx, 1, domain.Page{Limit: 2, Before: cursor})
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range p.Entries {
			seqs = append(seqs, e.Sequence)
		}
		if p.NextBefore == 0 {
			break
		}
		cursor = p.NextBefore
	}
	want := []uint64{7, 5, 4, 2, 1}
	if fmt.Sprint(seqs) != fmt.Sprint(want) {
		t.Fatalf("seqs=%v want %v", seqs, want)
	}
}

func TestLedgerLogLookup(t *testing.T) {
	ctx := context.Background()
	l := NewLedgerLog(nil)
	if _, err := l.Lookup(ctx, "missing"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("err=%v want ErrEntryNotFound", err)
	}
	if err := l.Append(ctx, appliedEntry("t1", 1, 2, domain.Units(5))); err != nil {
		t.Fatal(err)
	}
	got, err := l.Lookup(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Sequence != 1 || got.Transaction.Amount != domain.Units(5) {
		t.Fatalf("got=%+v", got)
	}
	if err := l.Append(ctx, appliedEntry("t1", 1, 2, domain.Units(5))); !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("err=%v want ErrDuplicateEntry", err)
	}
}

func TestTxManagerCommitsTogether(t *testing.T) {
	ctx := context.Background()
	accounts := seedAccounts()
	ledger := NewLedgerLog(nil)
	txm := NewTxManager(accounts, ledger)

	err := txm.Run(ctx, func(ctx context.Context) error {
		if _, err := accounts.CompareAndSwap(ctx, 1, 0, domain.Units(70)); err != nil {
			return err
		}
		// 提交前外部看不到暫存的變更
		a, _ := accounts.Get(ctx, 1)
		if a.Balance != domain.Units(100) {
			t.Errorf("staged swap visible before commit: %v", a.Balance)
		}
		if _, err := accounts.CompareAndSwap(ctx, 2, 0, domain.Units(80)); err != nil {
			return err
		}
		return ledger.Append(ctx, appliedEntry("t1", 1, 2, domain.Units(30)))
	})
	if err != nil {
		t.Fatal(err)
	}

	a, _ := accounts.Get(ctx, 1)
	b, _ := accounts.Get(ctx, 2)
	if a.Balance != domain.Units(70) || b.Balance != domain.Units(80) || a.Version != 1 || b.Version != 1 {
		t.Fatalf("a=%+v b=%+v", a, b)
	}
	if _, err := ledger.Lookup(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
}

func TestTxManagerDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	accounts := seedAccounts()
	ledger := NewLedgerLog(nil)
	txm := NewTxManager(accounts, ledger)
	boom := errors.New("destination store fault")

	err := txm.Run(ctx, func(ctx context.Context) error {
		if _, err := accounts.CompareAndSwap(ctx, 1, 0, domain.Units(70)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
	a, _ := accounts.Get(ctx, 1)
	if a.Balance != domain.Units(100) || a.Version != 0 {
		t.Fatalf("source changed after aborted commit: %+v", a)
	}
}

func TestTxManagerDetectsConflictAtCommit(t *testing.T) {
	ctx := context.Background()
	accounts := seedAccounts()
	ledger := NewLedgerLog(nil)
	txm := NewTxManager(accounts, ledger)

	err := txm.Run(ctx, func(txCtx context.Context) error {
		if _, err := accounts.CompareAndSwap(txCtx, 1, 0, domain.Units(70)); err != nil {
			return err
		}
		// 暫存之後、提交之前被其他人改掉
		if _, err := accounts.CompareAndSwap(ctx, 1, 0, domain.Units(1)); err != nil {
			return err
		}
		return ledger.Append(txCtx, appliedEntry("t1", 1, 2, domain.Units(30)))
	})
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("err=%v want ErrVersionConflict", err)
	}
	if _, err := ledger.Lookup(ctx, "t1"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("entry recorded despite conflict: %v", err)
	}
}

func TestRecoverFromWAL(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.wal")

	w, err := wal.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	accounts := seedAccounts()
	ledger := NewLedgerLog(w)
	txm := NewTxManager(accounts, ledger)
	err = txm.Run(ctx, func(ctx context.Context) error {
		from, err := accounts.CompareAndSwap(ctx, 1, 0, domain.Units(70))
		if err != nil {
			return err
		}
		to, err := accounts.CompareAndSwap(ctx, 2, 0, domain.Units(80))
		if err != nil {
			return err
		}
		return ledger.Append(ctx, appliedEntry("t1", 1, 2, domain.Units(30),
			domain.BalanceChange{AccountID: 1, Before: domain.Units(100), After: from.Balance, Version: from.Version},
			domain.BalanceChange{AccountID: 2, Before: domain.Units(50), After: to.Balance, Version: to.Version},
		))
	})
	if err != nil {
		t.Fatal(err)
	}
	rejected := appliedEntry("t2", 1, 2, domain.Units(500),
		domain.BalanceChange{AccountID: 1, Before: domain.Units(70), After: domain.Units(70), Version: 1})
	rejected.Transaction.Status = domain.TransactionStatusRejected
	rejected.Transaction.Reason = domain.ReasonInsufficientFunds
	if err := ledger.Append(ctx, rejected); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	// 重新啟動：以開戶資料初始化後重放 WAL
	w2, err := wal.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w2.Close()
	accounts2 := seedAccounts()
	ledger2 := NewLedgerLog(w2)
	n, err := ledger2.Recover(accounts2)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("replayed=%d want 2", n)
	}
	a, _ := accounts2.Get(ctx, 1)
	b, _ := accounts2.Get(ctx, 2)
	if a.Balance != domain.Units(70) || a.Version != 1 || b.Balance != domain.Units(80) {
		t.Fatalf("a=%+v b=%+v", a, b)
	}
	got, err := ledger2.Lookup(ctx, "t2")
	if err != nil || got.Transaction.Reason != domain.ReasonInsufficientFunds {
		t.Fatalf("got=%+v err=%v", got, err)
	}

	// 重放後的序號要接續
	if err := ledger2.Append(ctx, appliedEntry("t3", 1, 2, domain.Units(1))); err != nil {
		t.Fatal(err)
	}
	t3, _ := ledger2.Lookup(ctx, "t3")
	if t3.Sequence != 3 {
		t.Fatalf("sequence=%d want 3", t3.Sequence)
	}
}
