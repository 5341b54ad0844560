package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

const accountColumns = `id, owner_id, balance, currency, version`

// AccountStore 以 accounts 表實作的帳戶儲存
type AccountStore struct {
	pool *pgxpool.Pool
}

// NewAccountStore 建立 AccountStore
func NewAccountStore(pool *pgxpool.Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

// Get 取得帳戶
func (s *AccountStore) Get(ctx context.Context, accountID int64) (*domain.Account, error) {
	row := conn(ctx, s.pool).QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, accountID)
	return scanAccount(row)
}

// CompareAndSwap 版本相符才更新，RETURNING 直接取回新狀態
func (s *AccountStore) CompareAndSwap(ctx context.Context, accountID int64, expectedVersion int64, newBalance domain.Amount) (*domain.Account, error) {
	if newBalance < 0 {
		return nil, domain.ErrInsufficientFunds
	}
	row := conn(ctx, s.pool).QueryRow(ctx,
		`UPDATE accounts
		    SET balance = $1, version = version + 1, updated_at = now()
		  WHERE id = $2 AND version = $3
		RETURNING `+accountColumns,
		int64(newBalance), accountID, expectedVersion)
	account, err := scanAccount(row)
	if errors.Is(err, domain.ErrAccountNotFound) {
		// 0 筆：帳戶不存在或版本已變
		if _, err := s.Get(ctx, accountID); err != nil {
			return nil, err
		}
		return nil, domain.ErrVersionConflict
	}
	return account, err
}

// Open 開戶，帳戶已存在時不做任何事
func (s *AccountStore) Open(ctx context.Context, account domain.Account) error {
	_, err := conn(ctx, s.pool).Exec(ctx,
		`INSERT INTO accounts (id, owner_id, balance, currency)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		account.ID, account.OwnerID, int64(account.Balance), account.Currency)
	return mapError(err)
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a       domain.Account
		balance int64
	)
	err := row.Scan(&a.ID, &a.OwnerID, &balance, &a.Currency, &a.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	a.Balance = domain.Amount(balance)
	return &a, nil
}

var _ usecase.AccountStore = (*AccountStore)(nil)
