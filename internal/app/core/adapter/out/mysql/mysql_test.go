package mysql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"deadlock", &driver.MySQLError{Number: errDeadlock, Message: "Deadlock found"}, domain.ErrVersionConflict},
		{"lock wait", &driver.MySQLError{Number: errLockWaitTimeout}, domain.ErrVersionConflict},
		{"duplicate txn id", fmt.Errorf("create: %w", &driver.MySQLError{Number: errDuplicateEntry}), domain.ErrVersionConflict},
		{"other driver error", &driver.MySQLError{Number: 1045, Message: "Access denied"}, domain.ErrStorageUnavailable},
		{"connection refused", errors.New("dial tcp: connection refused"), domain.ErrStorageUnavailable},
		{"domain error passes through", domain.ErrAccountNotFound, domain.ErrAccountNotFound},
		{"canceled", context.Canceled, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapError(tt.err); !errors.Is(got, tt.want) {
				t.Fatalf("mapError(%v)=%v want %v", tt.err, got, tt.want)
			}
		})
	}
	if mapError(nil) != nil {
		t.Fatal("mapError(nil) must be nil")
	}
}

func TestEntryRowConversion(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	entry := &domain.LedgerEntry{
		Transaction: domain.Transaction{
			ID:        "t-1",
			Kind:      domain.TransactionKindWithdraw,
			Amount:    domain.Units(30),
			Source:    1,
			Status:    domain.TransactionStatusRejected,
			Reason:    domain.ReasonInsufficientFunds,
			Initiator: "teller",
			CreatedAt: created,
		},
		RecordedAt: created,
	}
	row := newEntryRow(entry)
	if row.AppliedAt != nil {
		t.Fatal("rejected entry must store NULL applied_at")
	}
	row.Sequence = 9
	got := row.toDomain([]postingRow{{Sequence: 9, AccountID: 1, BalanceBefore: 10, BalanceAfter: 10, Version: 4}})
	if got.Sequence != 9 || !got.Transaction.SameRequest(&entry.Transaction) {
		t.Fatalf("got=%+v", got)
	}
	if got.Transaction.Reason != domain.ReasonInsufficientFunds || got.Transaction.Initiator != "teller" {
		t.Fatalf("got=%+v", got.Transaction)
	}
	if c, ok := got.Change(1); !ok || c.Version != 4 {
		t.Fatalf("changes=%+v", got.Changes)
	}
}
