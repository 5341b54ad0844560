package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config 日誌設定
type Config struct {
	Level  string `yaml:"level"`  // debug / info / warn / error
	Format string `yaml:"format"` // console / json
}

// DefaultConfig 預設為 info 等級、console 輸出
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console"}
}

// New 依設定建立 zerolog.Logger，輸出到 stderr
func New(cfg Config, service string) (zerolog.Logger, error) {
	return NewWithWriter(os.Stderr, cfg, service)
}

// NewWithWriter 同 New，可指定輸出目標 (測試用)
func NewWithWriter(w io.Writer, cfg Config, service string) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", cfg.Level)
	}

	switch strings.ToLower(cfg.Format) {
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", cfg.Format)
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger(), nil
}
