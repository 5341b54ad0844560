package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

// PostgreSQL SQLSTATE
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

type txKey struct{}

// querier pgxpool.Pool 與 pgx.Tx 共同的查詢介面
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// conn 在 Uow.Run 內回傳同一個 pgx.Tx，否則回傳連線池
func conn(ctx context.Context, pool *pgxpool.Pool) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// Uow 以資料庫 transaction 作為提交單位
type Uow struct {
	pool *pgxpool.Pool
}

// NewUow 建立 Uow
func NewUow(pool *pgxpool.Pool) *Uow {
	return &Uow{pool: pool}
}

// Run 在 transaction 內執行 fn，fn 回傳錯誤則 rollback，成功則 commit
func (u *Uow) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return mapError(fmt.Errorf("begin transaction: %w", err))
	}
	// commit 成功後 Rollback 不做任何事
	defer func() {
		_ = tx.Rollback(context.WithoutCancel(ctx))
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// mapError 將 pgx 錯誤轉為 domain 錯誤
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
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation, codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%w: %w", domain.ErrVersionConflict, err)
		case codeCheckViolation:
			return fmt.Errorf("%w: %w", domain.ErrInsufficientFunds, err)
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
}

var _ usecase.TxManager = (*Uow)(nil)
