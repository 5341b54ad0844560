package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
)

// AccountStore 以 accounts 表實作的帳戶儲存
type AccountStore struct {
	client *mysql.Client
}

// NewAccountStore 建立 AccountStore
func NewAccountStore(client *mysql.Client) *AccountStore {
	return &AccountStore{client: client}
}

// Get 取得帳戶
func (s *AccountStore) Get(ctx context.Context, accountID int64) (*domain.Account, error) {
	var row accountRow
	err := conn(ctx, s.client).Where("id = ?", accountID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	return row.toDomain(), nil
}

// CompareAndSwap 以 version 作為條件更新餘額
// UPDATE ... WHERE id = ? AND version = ?，影響 0 筆代表版本已變或帳戶不存在
func (s *AccountStore) CompareAndSwap(ctx context.Context, accountID int64, expectedVersion int64, newBalance domain.Amount) (*domain.Account, error) {
	if newBalance < 0 {
		return nil, domain.ErrInsufficientFunds
	}
	db := conn(ctx, s.client)
	res := db.Model(&accountRow{}).
		Where("id = ? AND version = ?", accountID, expectedVersion).
		Updates(map[string]any{
			"balance": int64(newBalance),
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return nil, mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.Get(ctx, accountID); err != nil {
			return nil, err
		}
		return nil, domain.ErrVersionConflict
	}
	return s.Get(ctx, accountID)
}

// Open 開戶，帳戶已存在時不做任何事
func (s *AccountStore) Open(ctx context.Context, account domain.Account) error {
	row := accountRow{
		ID:       account.ID,
		OwnerID:  account.OwnerID,
		Balance:  int64(account.Balance),
		Currency: account.Currency,
	}
	err := conn(ctx, s.client).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	return mapError(err)
}

var _ usecase.AccountStore = (*AccountStore)(nil)
