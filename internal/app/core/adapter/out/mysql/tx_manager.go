package mysql

import (
	"context"
	"errors"
	"fmt"

	driver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
)

// MySQL 錯誤碼
const (
	errDuplicateEntry  = 1062
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

type txKey struct{}

// conn 取得目前 ctx 的連線：在 TxManager.Run 內為同一個 transaction
func conn(ctx context.Context, client *mysql.Client) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return client.DB().WithContext(ctx)
}

// TxManager 以資料庫 transaction 作為提交單位
type TxManager struct {
	client *mysql.Client
}

// NewTxManager 建立 TxManager
func NewTxManager(client *mysql.Client) *TxManager {
	return &TxManager{client: client}
}

// Run 在同一個 transaction 內執行 fn，fn 回傳錯誤則 rollback
func (m *TxManager) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	err := m.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	return mapError(err)
}

// mapError 將驅動錯誤轉為 domain 錯誤
// 死鎖、鎖等待逾時與重複的交易 ID 都視為版本衝突，重試時會重新讀取狀態
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	for _, sentinel := range []error{
		domain.ErrVersionConflict,
		domain.ErrAccountNotFound,
		domain.ErrInsufficientFunds,
		domain.ErrEntryNotFound,
		domain.ErrStorageUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	var myErr *driver.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errDuplicateEntry, errLockWaitTimeout, errDeadlock:
			return fmt.Errorf("%w: %w", domain.ErrVersionConflict, err)
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
}

// Migrate 建立或更新資料表
func Migrate(ctx context.Context, client *mysql.Client) error {
	return client.DB().WithContext(ctx).AutoMigrate(&accountRow{}, &entryRow{}, &postingRow{})
}

var _ usecase.TxManager = (*TxManager)(nil)
