package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
)

// LedgerLog 以 ledger_entries + ledger_postings 表實作的帳本
type LedgerLog struct {
	client *mysql.Client
}

// NewLedgerLog 建立 LedgerLog
func NewLedgerLog(client *mysql.Client) *LedgerLog {
	return &LedgerLog{client: client}
}

// Append 寫入紀錄與每個帳戶的 posting
// 不在 TxManager 內呼叫時自行開 transaction，兩張表一起寫入
func (l *LedgerLog) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	err := conn(ctx, l.client).Transaction(func(tx *gorm.DB) error {
		row := newEntryRow(entry)
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		if len(entry.Changes) > 0 {
			postings := make([]postingRow, 0, len(entry.Changes))
			for _, c := range entry.Changes {
				postings = append(postings, postingRow{
					Sequence:      row.Sequence,
					AccountID:     c.AccountID,
					BalanceBefore: int64(c.Before),
					BalanceAfter:  int64(c.After),
					Version:       c.Version,
				})
			}
			if err := tx.Create(&postings).Error; err != nil {
				return err
			}
		}
		entry.Sequence = row.Sequence
		return nil
	})
	return mapError(err)
}

// Lookup 以交易 ID 查詢
func (l *LedgerLog) Lookup(ctx context.Context, transactionID string) (*domain.LedgerEntry, error) {
	db := conn(ctx, l.client)
	var row entryRow
	err := db.Where("txn_id = ?", transactionID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	postings, err := l.postings(db, row.Sequence)
	if err != nil {
		return nil, err
	}
	entry := row.toDomain(postings[row.Sequence])
	return &entry, nil
}

// ListByAccount 新到舊列出帳戶相關紀錄 (來源或目的)
func (l *LedgerLog) ListByAccount(ctx context.Context, accountID int64, page domain.Page) (domain.HistoryPage, error) {
	page = page.Normalize()
	db := conn(ctx, l.client)

	q := db.Where("(source = ? OR destination = ?)", accountID, accountID)
	if page.Before != 0 {
		q = q.Where("sequence < ?", page.Before)
	}
	var rows []entryRow
	if err := q.Order("sequence DESC").Limit(page.Limit + 1).Find(&rows).Error; err != nil {
		return domain.HistoryPage{}, mapError(err)
	}
	if len(rows) == 0 {
		return domain.HistoryPage{}, nil
	}

	seqs := make([]uint64, len(rows))
	for i := range rows {
		seqs[i] = rows[i].Sequence
	}
	postings, err := l.postings(db, seqs...)
	if err != nil {
		return domain.HistoryPage{}, err
	}
	entries := make([]domain.LedgerEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].toDomain(postings[rows[i].Sequence])
	}
	return domain.NewHistoryPage(entries, page.Limit), nil
}

// postings 依 sequence 分組讀取 posting
func (l *LedgerLog) postings(db *gorm.DB, seqs ...uint64) (map[uint64][]postingRow, error) {
	var rows []postingRow
	if err := db.Where("sequence IN ?", seqs).Order("sequence, account_id").Find(&rows).Error; err != nil {
		return nil, mapError(err)
	}
	out := make(map[uint64][]postingRow, len(seqs))
	for _, r := range rows {
		out[r.Sequence] = append(out[r.Sequence], r)
	}
	return out, nil
}

var _ usecase.LedgerLog = (*LedgerLog)(nil)
