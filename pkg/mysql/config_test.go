package mysql

import (
	"testing"

	"gorm.io/gorm/logger"
)

func TestDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Password = "secret"
	want := "root:secret@tcp(127.0.0.1:3306)/ledger?charset=utf8mb4&parseTime=True&loc=UTC"
	if got := cfg.DSN(); got != want {
		t.Fatalf("DSN()=%s want %s", got, want)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	// 未知的等級退回只記錄錯誤
	for _, level := range []string{"info", "warn", "error", "silent", "verbose"} {
		if l := newLogger(level); l == nil {
			t.Fatalf("newLogger(%q) returned nil", level)
		}
	}
	var _ logger.Interface = newLogger("")
}
