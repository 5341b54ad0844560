package memory

import (
	"context"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

type journalKey struct{}

// stagedSwap 尚未提交的 CAS
type stagedSwap struct {
	accountID       int64
	expectedVersion int64
	newBalance      domain.Amount
}

// journal 一次 Run 內暫存的變更
type journal struct {
	accounts *AccountStore
	ledger   *LedgerLog
	swaps    []stagedSwap
	entries  []*domain.LedgerEntry
}

func journalFrom(ctx context.Context) *journal {
	j, _ := ctx.Value(journalKey{}).(*journal)
	return j
}

// stageSwap 先做一次版本檢查，讓衝突盡早回報；提交時會再檢查一次
func (j *journal) stageSwap(accountID int64, expectedVersion int64, newBalance domain.Amount) (*domain.Account, error) {
	j.accounts.mu.RLock()
	account, err := j.accounts.checkVersionLocked(accountID, expectedVersion)
	var cp domain.Account
	if err == nil {
		cp = *account
	}
	j.accounts.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	j.swaps = append(j.swaps, stagedSwap{accountID: accountID, expectedVersion: expectedVersion, newBalance: newBalance})
	cp.Balance = newBalance
	cp.Version = expectedVersion + 1
	return &cp, nil
}

func (j *journal) stageEntry(entry *domain.LedgerEntry) {
	j.entries = append(j.entries, entry)
}

// TxManager 記憶體版的提交單位
// Run 內的 CAS 與帳本寫入先暫存，fn 成功後在同一個臨界區內一次生效：
// 先寫 WAL，再更新餘額與帳本索引。任一步失敗則全部不生效。
type TxManager struct {
	accounts *AccountStore
	ledger   *LedgerLog
}

// NewTxManager 建立 TxManager
func NewTxManager(accounts *AccountStore, ledger *LedgerLog) *TxManager {
	return &TxManager{accounts: accounts, ledger: ledger}
}

// Run 執行 fn 並提交其暫存的變更
func (m *TxManager) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if journalFrom(ctx) != nil {
		// 已在提交單位內，沿用外層
		return fn(ctx)
	}
	j := &journal{accounts: m.accounts, ledger: m.ledger}
	if err := fn(context.WithValue(ctx, journalKey{}, j)); err != nil {
		return err
	}
	return m.commit(j)
}

// commit 鎖定順序固定為 accounts → ledger
func (m *TxManager) commit(j *journal) error {
	m.accounts.mu.Lock()
	defer m.accounts.mu.Unlock()

	targets := make([]*domain.Account, len(j.swaps))
	for i, s := range j.swaps {
		account, err := m.accounts.checkVersionLocked(s.accountID, s.expectedVersion)
		if err != nil {
			return err
		}
		targets[i] = account
	}

	m.ledger.mu.Lock()
	defer m.ledger.mu.Unlock()

	next := m.ledger.nextSequenceLocked()
	for i, entry := range j.entries {
		if err := m.ledger.persistLocked(entry, next+uint64(i)); err != nil {
			for _, e := range j.entries[:i] {
				e.Sequence = 0
			}
			return err
		}
	}

	for i, s := range j.swaps {
		targets[i].Balance = s.newBalance
		targets[i].Version++
	}
	for _, entry := range j.entries {
		m.ledger.indexLocked(entry)
	}
	return nil
}

var _ usecase.TxManager = (*TxManager)(nil)
