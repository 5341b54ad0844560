package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

const entryColumns = `sequence, txn_id, kind, amount, source, destination, status,
	reason, initiator, created_at, applied_at, recorded_at, changes`

// LedgerLog 以 ledger_entries 表實作的帳本，餘額變化存在 JSONB 欄位
type LedgerLog struct {
	pool *pgxpool.Pool
}

// NewLedgerLog 建立 LedgerLog
func NewLedgerLog(pool *pgxpool.Pool) *LedgerLog {
	return &LedgerLog{pool: pool}
}

// Append 單一 INSERT 寫入，sequence 由 BIGSERIAL 分配
func (l *LedgerLog) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("encode changes: %w", err)
	}
	t := entry.Transaction
	var appliedAt *time.Time
	if !t.AppliedAt.IsZero() {
		appliedAt = &t.AppliedAt
	}

	var seq int64
	err = conn(ctx, l.pool).QueryRow(ctx,
		`INSERT INTO ledger_entries
		    (txn_id, kind, amount, source, destination, status, reason, initiator,
		     created_at, applied_at, recorded_at, changes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING sequence`,
		t.ID, int16(t.Kind), int64(t.Amount), t.Source, t.Destination, int16(t.Status),
		string(t.Reason), t.Initiator, t.CreatedAt, appliedAt, entry.RecordedAt, changes,
	).Scan(&seq)
	if err != nil {
		return mapError(err)
	}
	entry.Sequence = uint64(seq)
	return nil
}

// Lookup 以交易 ID 查詢
func (l *LedgerLog) Lookup(ctx context.Context, transactionID string) (*domain.LedgerEntry, error) {
	row := conn(ctx, l.pool).QueryRow(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries WHERE txn_id = $1`, transactionID)
	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &entry, nil
}

// ListByAccount 新到舊列出帳戶相關紀錄，多取一筆判斷是否有下一頁
func (l *LedgerLog) ListByAccount(ctx context.Context, accountID int64, page domain.Page) (domain.HistoryPage, error) {
	page = page.Normalize()
	rows, err := conn(ctx, l.pool).Query(ctx,
		`SELECT `+entryColumns+`
		   FROM ledger_entries
		  WHERE (source = $1 OR destination = $1)
		    AND ($2 = 0 OR sequence < $2)
		  ORDER BY sequence DESC
		  LIMIT $3`,
		accountID, int64(page.Before), page.Limit+1)
	if err != nil {
		return domain.HistoryPage{}, mapError(err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LedgerEntry, error) {
		return scanEntry(row)
	})
	if err != nil {
		return domain.HistoryPage{}, mapError(err)
	}
	return domain.NewHistoryPage(entries, page.Limit), nil
}

func scanEntry(row pgx.Row) (domain.LedgerEntry, error) {
	var (
		e            domain.LedgerEntry
		seq, amount  int64
		kind, status int16
		reason       string
		appliedAt    *time.Time
		changes      []byte
	)
	err := row.Scan(&seq, &e.Transaction.ID, &kind, &amount, &e.Transaction.Source, &e.Transaction.Destination,
		&status, &reason, &e.Transaction.Initiator, &e.Transaction.CreatedAt, &appliedAt, &e.RecordedAt, &changes)
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	e.Sequence = uint64(seq)
	e.Transaction.Kind = domain.TransactionKind(kind)
	e.Transaction.Amount = domain.Amount(amount)
	e.Transaction.Status = domain.TransactionStatus(status)
	e.Transaction.Reason = domain.RejectReason(reason)
	if appliedAt != nil {
		e.Transaction.AppliedAt = *appliedAt
	}
	if err := json.Unmarshal(changes, &e.Changes); err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("decode changes of entry %d: %w", seq, err)
	}
	return e, nil
}

var _ usecase.LedgerLog = (*LedgerLog)(nil)
