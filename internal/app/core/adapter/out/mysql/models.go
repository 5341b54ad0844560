package mysql

import (
	"time"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// accountRow 對應資料庫的 accounts 表
type accountRow struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	OwnerID   string `gorm:"size:64;not null"`
	Balance   int64  `gorm:"not null;check:chk_accounts_balance,balance >= 0"`
	Currency  string `gorm:"size:8;not null"`
	Version   int64  `gorm:"not null;default:0"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli"` // 自動更新時間
}

func (*accountRow) TableName() string {
	return "accounts"
}

func (r *accountRow) toDomain() *domain.Account {
	return &domain.Account{
		ID:       r.ID,
		OwnerID:  r.OwnerID,
		Balance:  domain.Amount(r.Balance),
		Currency: r.Currency,
		Version:  r.Version,
	}
}

// entryRow 對應資料庫的 ledger_entries 表
// Sequence 為自動遞增主鍵，rollback 可能留下空號，但永遠遞增
type entryRow struct {
	Sequence    uint64     `gorm:"primaryKey;autoIncrement"`
	TxnID       string     `gorm:"column:txn_id;size:64;not null;uniqueIndex"`
	Kind        uint8      `gorm:"not null"`
	Amount      int64      `gorm:"not null"`
	Source      int64      `gorm:"not null;index"`
	Destination int64      `gorm:"not null;index"`
	Status      uint8      `gorm:"not null"`
	Reason      string     `gorm:"size:32"`
	Initiator   string     `gorm:"size:128"`
	CreatedAt   time.Time  `gorm:"not null"`
	AppliedAt   *time.Time // Rejected 時為 NULL
	RecordedAt  time.Time  `gorm:"not null"`
}

func (*entryRow) TableName() string {
	return "ledger_entries"
}

// postingRow 對應資料庫的 ledger_postings 表 (每筆紀錄每個帳戶一列)
type postingRow struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	Sequence      uint64 `gorm:"not null;index"`
	AccountID     int64  `gorm:"not null"`
	BalanceBefore int64  `gorm:"not null"`
	BalanceAfter  int64  `gorm:"not null"`
	Version       int64  `gorm:"not null"`
}

func (*postingRow) TableName() string {
	return "ledger_postings"
}

func newEntryRow(e *domain.LedgerEntry) *entryRow {
	t := e.Transaction
	row := &entryRow{
		TxnID:       t.ID,
		Kind:        uint8(t.Kind),
		Amount:      int64(t.Amount),
		Source:      t.Source,
		Destination: t.Destination,
		Status:      uint8(t.Status),
		Reason:      string(t.Reason),
		Initiator:   t.Initiator,
		CreatedAt:   t.CreatedAt.UTC(),
		RecordedAt:  e.RecordedAt.UTC(),
	}
	if !t.AppliedAt.IsZero() {
		applied := t.AppliedAt.UTC()
		row.AppliedAt = &applied
	}
	return row
}

func (r *entryRow) toDomain(postings []postingRow) domain.LedgerEntry {
	entry := domain.LedgerEntry{
		Sequence: r.Sequence,
		Transaction: domain.Transaction{
			ID:          r.TxnID,
			Kind:        domain.TransactionKind(r.Kind),
			Amount:      domain.Amount(r.Amount),
			Source:      r.Source,
			Destination: r.Destination,
			Status:      domain.TransactionStatus(r.Status),
			Reason:      domain.RejectReason(r.Reason),
			Initiator:   r.Initiator,
			CreatedAt:   r.CreatedAt,
		},
		RecordedAt: r.RecordedAt,
	}
	if r.AppliedAt != nil {
		entry.Transaction.AppliedAt = *r.AppliedAt
	}
	for _, p := range postings {
		entry.Changes = append(entry.Changes, domain.BalanceChange{
			AccountID: p.AccountID,
			Before:    domain.Amount(p.BalanceBefore),
			After:     domain.Amount(p.BalanceAfter),
			Version:   p.Version,
		})
	}
	return entry
}
