package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Driver != DriverMemory || cfg.Server.GRPCAddr != ":50051" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Service.MaxRetries != 3 || cfg.Service.LockTimeout != 5*time.Second {
		t.Fatalf("service=%+v", cfg.Service)
	}
	if cfg.RabbitMQ.Exchange != "ledger_events" || cfg.MySQL.Port != 3306 {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeFile(t, `
server:
  grpc_addr: ":6000"
storage:
  driver: mysql
mysql:
  host: db
  password: secret
rabbitmq:
  enabled: true
  url: amqp://ledger:ledger@mq:5672/
service:
  max_retries: 5
  lock_timeout: 250ms
accounts:
  - id: 1
    owner_id: alice
    balance: "100.50"
    currency: USD
  - id: 2
    owner_id: bob
    currency: USD
`)
	t.Setenv("LEDGER_MYSQL_HOST", "db.internal")
	t.Setenv("LEDGER_MYSQL_PORT", "3307")
	t.Setenv("LEDGER_REDIS_ENABLED", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.GRPCAddr != ":6000" || cfg.Storage.Driver != DriverMySQL {
		t.Fatalf("cfg=%+v", cfg)
	}
	// 檔案沒寫到的欄位保留預設值
	if cfg.MySQL.User != "root" || cfg.MySQL.Password != "secret" {
		t.Fatalf("mysql=%+v", cfg.MySQL)
	}
	if cfg.MySQL.Host != "db.internal" || cfg.MySQL.Port != 3307 {
		t.Fatalf("env not applied: %+v", cfg.MySQL)
	}
	if !cfg.Redis.Enabled || !cfg.RabbitMQ.Enabled || cfg.RabbitMQ.Exchange != "ledger_events" {
		t.Fatalf("redis=%+v rabbit=%+v", cfg.Redis, cfg.RabbitMQ)
	}
	if cfg.RabbitMQ.URL != "amqp://ledger:ledger@mq:5672/" {
		t.Fatalf("rabbit url=%s", cfg.RabbitMQ.URL)
	}

	opts := cfg.Service.Options()
	if opts.MaxRetries != 5 || opts.LockTimeout != 250*time.Millisecond {
		t.Fatalf("opts=%+v", opts)
	}

	if len(cfg.Accounts) != 2 {
		t.Fatalf("accounts=%+v", cfg.Accounts)
	}
	acc, err := cfg.Accounts[0].Account()
	if err != nil {
		t.Fatal(err)
	}
	if acc.Balance != domain.MustParseAmount("100.50") || acc.OwnerID != "alice" {
		t.Fatalf("account=%+v", acc)
	}
	if acc, _ := cfg.Accounts[1].Account(); acc.Balance != 0 {
		t.Fatalf("empty balance should be zero, got %v", acc.Balance)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{"unknown driver", "storage:\n  driver: sqlite\n", nil},
		{"negative retries", "service:\n  max_retries: -1\n", nil},
		{"bad seed balance", "accounts:\n  - id: 1\n    currency: USD\n    balance: \"1.23456\"\n", nil},
		{"duplicate seed", "accounts:\n  - {id: 1, currency: USD}\n  - {id: 1, currency: USD}\n", nil},
		{"negative seed balance", "accounts:\n  - {id: 1, currency: USD, balance: \"-5\"}\n", nil},
		{"seed without currency", "accounts:\n  - id: 1\n", nil},
		{"bad env int", "", map[string]string{"LEDGER_MYSQL_PORT": "abc"}},
		{"bad env duration", "", map[string]string{"LEDGER_SERVICE_LOCK_TIMEOUT": "soon"}},
		{"malformed yaml", "server: [", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(writeFile(t, tt.content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v", err)
	}
}
