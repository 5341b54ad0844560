package memory

import (
	"context"
	"sync"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

// AccountStore 記憶體帳戶儲存
//
// 結構:
//
//	mu: 保護 accounts，讀取用 RLock
//	accounts: 帳戶 ID 對應帳戶
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.Account
}

// NewAccountStore 以初始帳戶建立 AccountStore
func NewAccountStore(accounts ...domain.Account) *AccountStore {
	s := &AccountStore{accounts: make(map[int64]*domain.Account, len(accounts))}
	for i := range accounts {
		a := accounts[i]
		s.accounts[a.ID] = &a
	}
	return s
}

// Get 回傳帳戶的拷貝，避免呼叫端修改內部狀態
func (s *AccountStore) Get(ctx context.Context, accountID int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

// CompareAndSwap 版本相符才更新餘額
// 在 TxManager.Run 內呼叫時只做檢查並暫存，等提交時才一次寫入
func (s *AccountStore) CompareAndSwap(ctx context.Context, accountID int64, expectedVersion int64, newBalance domain.Amount) (*domain.Account, error) {
	if newBalance < 0 {
		return nil, domain.ErrInsufficientFunds
	}
	if j := journalFrom(ctx); j != nil && j.accounts == s {
		return j.stageSwap(accountID, expectedVersion, newBalance)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	account, err := s.checkVersionLocked(accountID, expectedVersion)
	if err != nil {
		return nil, err
	}
	account.Balance = newBalance
	account.Version++
	cp := *account
	return &cp, nil
}

// Open 開戶，帳戶已存在時不做任何事
func (s *AccountStore) Open(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.ID]; ok {
		return nil
	}
	if account.Balance < 0 {
		return domain.ErrInvalidAmount
	}
	s.accounts[account.ID] = &account
	return nil
}

// checkVersionLocked 呼叫前必須持有 mu
func (s *AccountStore) checkVersionLocked(accountID int64, expectedVersion int64) (*domain.Account, error) {
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if account.Version != expectedVersion {
		return nil, domain.ErrVersionConflict
	}
	return account, nil
}

// restore WAL 重放時直接覆寫餘額與版本 (單執行緒，啟動階段)
func (s *AccountStore) restore(accountID int64, balance domain.Amount, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if version > account.Version {
		account.Balance = balance
		account.Version = version
	}
	return nil
}

var _ usecase.AccountStore = (*AccountStore)(nil)
