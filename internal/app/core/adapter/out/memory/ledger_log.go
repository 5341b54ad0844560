package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/wal"
)

// ErrDuplicateEntry 同一個交易 ID 已經寫入過帳本
var ErrDuplicateEntry = errors.New("ledger entry already exists")

// LedgerLog 記憶體帳本，可選擇以 WAL 持久化
//
// 結構:
//
//	entries: 依 Sequence 排序的紀錄 (entries[i].Sequence == i+1)
//	byTxn: 交易 ID 對應紀錄，冪等檢查用
//	byAccount: 帳戶 ID 對應紀錄索引 (舊到新)
//	wal: 為 nil 時只存在記憶體
type LedgerLog struct {
	mu        sync.RWMutex
	entries   []*domain.LedgerEntry
	byTxn     map[string]*domain.LedgerEntry
	byAccount map[int64][]int
	wal       *wal.WAL
}

// NewLedgerLog 建立帳本
func NewLedgerLog(w *wal.WAL) *LedgerLog {
	return &LedgerLog{
		byTxn:     make(map[string]*domain.LedgerEntry),
		byAccount: make(map[int64][]int),
		wal:       w,
	}
}

// Recover 從 WAL 重建帳本索引，並把 Applied 紀錄的餘額還原到 accounts
//
// 參數:
//
//	accounts: 以開戶資料初始化過的帳戶儲存
//
// 回傳:
//
//	int: 重放的紀錄筆數
//	error: 讀取或還原錯誤
func (l *LedgerLog) Recover(accounts *AccountStore) (int, error) {
	if l.wal == nil {
		return 0, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	err := l.wal.ReadAll(func(raw json.RawMessage) error {
		var entry domain.LedgerEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return err
		}
		if entry.Transaction.Status == domain.TransactionStatusApplied {
			for _, c := range entry.Changes {
				if err := accounts.restore(c.AccountID, c.After, c.Version); err != nil {
					return fmt.Errorf("restore account %d from entry %d: %w", c.AccountID, entry.Sequence, err)
				}
			}
		}
		l.indexLocked(&entry)
		count++
		return nil
	})
	return count, err
}

// Append 寫入一筆紀錄
// 在 TxManager.Run 內呼叫時先暫存，隨帳戶變更一起提交
func (l *LedgerLog) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	if j := journalFrom(ctx); j != nil && j.ledger == l {
		j.stageEntry(entry)
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.persistLocked(entry, l.nextSequenceLocked()); err != nil {
		return err
	}
	l.indexLocked(entry)
	return nil
}

// Lookup 以交易 ID 查詢紀錄
func (l *LedgerLog) Lookup(ctx context.Context, transactionID string) (*domain.LedgerEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entry, ok := l.byTxn[transactionID]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	cp := *entry
	return &cp, nil
}

// ListByAccount 新到舊列出帳戶紀錄
func (l *LedgerLog) ListByAccount(ctx context.Context, accountID int64, page domain.Page) (domain.HistoryPage, error) {
	page = page.Normalize()
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx := l.byAccount[accountID]
	out := make([]domain.LedgerEntry, 0, page.Limit+1)
	for i := len(idx) - 1; i >= 0 && len(out) <= page.Limit; i-- {
		entry := l.entries[idx[i]]
		if page.Before != 0 && entry.Sequence >= page.Before {
			continue
		}
		out = append(out, *entry)
	}
	return domain.NewHistoryPage(out, page.Limit), nil
}

func (l *LedgerLog) nextSequenceLocked() uint64 {
	return uint64(len(l.entries)) + 1
}

// persistLocked 分配 Sequence 並寫入 WAL，呼叫前必須持有 mu
func (l *LedgerLog) persistLocked(entry *domain.LedgerEntry, seq uint64) error {
	if _, ok := l.byTxn[entry.Transaction.ID]; ok {
		return ErrDuplicateEntry
	}
	entry.Sequence = seq
	if l.wal != nil {
		if err := l.wal.Write(entry); err != nil {
			entry.Sequence = 0
			return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
		}
	}
	return nil
}

// indexLocked 呼叫前必須持有 mu
func (l *LedgerLog) indexLocked(entry *domain.LedgerEntry) {
	pos := len(l.entries)
	l.entries = append(l.entries, entry)
	l.byTxn[entry.Transaction.ID] = entry
	for _, id := range entry.Transaction.AccountIDs() {
		l.byAccount[id] = append(l.byAccount[id], pos)
	}
}

var _ usecase.LedgerLog = (*LedgerLog)(nil)
