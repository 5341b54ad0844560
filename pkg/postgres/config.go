package postgres

import (
	"fmt"
	"net/url"
	"time"
)

// Config PostgreSQL 連線與連線池設定
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"db_name"`
	SSLMode  string `yaml:"ssl_mode"` // disable / require / verify-full

	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`

	ConnectRetries       int           `yaml:"connect_retries"`
	ConnectRetryInterval time.Duration `yaml:"connect_retry_interval"`
}

// DefaultConfig 本機開發用的預設值
func DefaultConfig() Config {
	return Config{
		Host:                 "127.0.0.1",
		Port:                 5432,
		User:                 "postgres",
		DBName:               "ledger",
		SSLMode:              "disable",
		MaxConns:             20,
		MinConns:             2,
		MaxConnLifetime:      time.Hour,
		ConnectRetries:       10,
		ConnectRetryInterval: 2 * time.Second,
	}
}

// DSN 產生 postgres:// 格式的連線字串
func (c *Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.DBName,
	}
	if c.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(c.SSLMode)
	}
	return u.String()
}
