package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	memory_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/mysql"
	postgres_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/postgres"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-bank-ledger/internal/config"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
	"github.com/JoeShih716/go-bank-ledger/pkg/postgres"
	"github.com/JoeShih716/go-bank-ledger/pkg/wal"
)

// storage 一組互相搭配的儲存實作
type storage struct {
	accounts usecase.AccountStore
	ledger   usecase.LedgerLog
	txm      usecase.TxManager
	ping     func(ctx context.Context) error
	close    func()
}

// openStorage 依 storage.driver 建立儲存層並開立設定檔中的帳戶
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return openMemory(ctx, cfg, log)
	case config.DriverMySQL:
		return openMySQL(ctx, cfg, log)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// openMemory 記憶體儲存，先開戶再重放 WAL 還原餘額
func openMemory(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	var w *wal.WAL
	if cfg.Storage.WALPath != "" {
		var err error
		if w, err = wal.Open(cfg.Storage.WALPath); err != nil {
			return nil, err
		}
	}
	closeWAL := func() {
		if w == nil {
			return
		}
		if err := w.Close(); err != nil {
			log.Warn().Err(err).Msg("close wal")
		}
	}

	accounts := memory_adapter.NewAccountStore()
	if err := seedAccounts(ctx, accounts, cfg.Accounts); err != nil {
		closeWAL()
		return nil, err
	}
	ledger := memory_adapter.NewLedgerLog(w)
	n, err := ledger.Recover(accounts)
	if err != nil {
		closeWAL()
		return nil, fmt.Errorf("recover from wal: %w", err)
	}
	log.Info().Str("wal", cfg.Storage.WALPath).Int("entries", n).Msg("ledger recovered")

	return &storage{
		accounts: accounts,
		ledger:   ledger,
		txm:      memory_adapter.NewTxManager(accounts, ledger),
		ping:     func(context.Context) error { return nil },
		close:    closeWAL,
	}, nil
}

func openMySQL(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	client, err := mysql.NewClient(ctx, cfg.MySQL, log)
	if err != nil {
		return nil, err
	}
	if err := mysql_adapter.Migrate(ctx, client); err != nil {
		client.Close()
		return nil, fmt.Errorf("migrate mysql: %w", err)
	}
	accounts := mysql_adapter.NewAccountStore(client)
	if err := seedAccounts(ctx, accounts, cfg.Accounts); err != nil {
		client.Close()
		return nil, err
	}
	return &storage{
		accounts: accounts,
		ledger:   mysql_adapter.NewLedgerLog(client),
		txm:      mysql_adapter.NewTxManager(client),
		ping: func(ctx context.Context) error {
			sqlDB, err := client.DB().DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("close mysql")
			}
		},
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	pool, err := postgres.NewPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, err
	}
	if err := postgres_adapter.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	accounts := postgres_adapter.NewAccountStore(pool)
	if err := seedAccounts(ctx, accounts, cfg.Accounts); err != nil {
		pool.Close()
		return nil, err
	}
	return &storage{
		accounts: accounts,
		ledger:   postgres_adapter.NewLedgerLog(pool),
		txm:      postgres_adapter.NewUow(pool),
		ping:     pool.Ping,
		close:    pool.Close,
	}, nil
}

// seedAccounts 開立設定檔中的帳戶，已存在的帳戶維持原狀
func seedAccounts(ctx context.Context, store usecase.AccountStore, seeds []config.AccountSeed) error {
	var errs []error
	for _, seed := range seeds {
		account, err := seed.Account()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := store.Open(ctx, account); err != nil {
			errs = append(errs, fmt.Errorf("open account %d: %w", seed.ID, err))
		}
	}
	return errors.Join(errs...)
}
