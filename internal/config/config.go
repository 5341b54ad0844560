package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/logger"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
	"github.com/JoeShih716/go-bank-ledger/pkg/postgres"
	"github.com/JoeShih716/go-bank-ledger/pkg/rabbitmq"
)

// 儲存層種類
const (
	DriverMemory   = "memory"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// envPrefix 環境變數前綴，例: LEDGER_STORAGE_DRIVER
const envPrefix = "LEDGER_"

// Config 服務設定
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Log      logger.Config   `yaml:"log"`
	Storage  StorageConfig   `yaml:"storage"`
	MySQL    mysql.Config    `yaml:"mysql"`
	Postgres postgres.Config `yaml:"postgres"`
	Redis    RedisConfig     `yaml:"redis"`
	RabbitMQ RabbitMQConfig  `yaml:"rabbitmq"`
	Mongo    MongoConfig     `yaml:"mongo"`
	Service  ServiceConfig   `yaml:"service"`
	Accounts []AccountSeed   `yaml:"accounts"`
}

// ServerConfig 對外監聽設定
type ServerConfig struct {
	GRPCAddr        string        `yaml:"grpc_addr"`
	HTTPAddr        string        `yaml:"http_addr"` // 健康檢查，空字串代表不啟動
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig 選擇帳戶與帳本的儲存實作
type StorageConfig struct {
	Driver  string `yaml:"driver"`   // memory / mysql / postgres
	WALPath string `yaml:"wal_path"` // memory 專用，空字串代表不落地
}

// RedisConfig 冪等查詢快取
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// RabbitMQConfig 事件發布
type RabbitMQConfig struct {
	Enabled         bool `yaml:"enabled"`
	rabbitmq.Config `yaml:",inline"`
}

// MongoConfig 稽核紀錄
type MongoConfig struct {
	URI         string        `yaml:"uri"`
	Database    string        `yaml:"database"`
	SaveTimeout time.Duration `yaml:"save_timeout"`
}

// ServiceConfig 交易服務的重試與逾時
type ServiceConfig struct {
	MaxRetries   int           `yaml:"max_retries"`
	LockTimeout  time.Duration `yaml:"lock_timeout"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// Options 轉為 usecase.Options
func (c ServiceConfig) Options() usecase.Options {
	return usecase.Options{
		MaxRetries:   c.MaxRetries,
		LockTimeout:  c.LockTimeout,
		RetryBackoff: c.RetryBackoff,
	}
}

// AccountSeed 啟動時開立的帳戶 (已存在則略過)
type AccountSeed struct {
	ID       int64  `yaml:"id"`
	OwnerID  string `yaml:"owner_id"`
	Balance  string `yaml:"balance"` // 十進位字串，例: "100.50"
	Currency string `yaml:"currency"`
}

// Account 轉為 domain.Account
func (s AccountSeed) Account() (domain.Account, error) {
	balance := domain.Amount(0)
	if s.Balance != "" {
		var err error
		balance, err = domain.ParseAmount(s.Balance)
		if err != nil {
			return domain.Account{}, fmt.Errorf("account %d balance: %w", s.ID, err)
		}
	}
	return domain.Account{
		ID:       s.ID,
		OwnerID:  s.OwnerID,
		Balance:  balance,
		Currency: s.Currency,
	}, nil
}

// Default 預設設定：記憶體儲存，不啟用外部元件
func Default() Config {
	opts := usecase.DefaultOptions()
	return Config{
		Server: ServerConfig{
			GRPCAddr:        ":50051",
			HTTPAddr:        ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Log:      logger.DefaultConfig(),
		Storage:  StorageConfig{Driver: DriverMemory, WALPath: "wal.log"},
		MySQL:    mysql.DefaultConfig(),
		Postgres: postgres.DefaultConfig(),
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  24 * time.Hour,
		},
		RabbitMQ: RabbitMQConfig{Config: rabbitmq.DefaultConfig()},
		Mongo: MongoConfig{
			URI:         "mongodb://localhost:27017",
			Database:    "ledger_audit",
			SaveTimeout: 5 * time.Second,
		},
		Service: ServiceConfig{
			MaxRetries:   opts.MaxRetries,
			LockTimeout:  opts.LockTimeout,
			RetryBackoff: opts.RetryBackoff,
		},
	}
}

// Load 讀取設定
//
// 順序: 預設值 -> YAML 檔 -> .env / 環境變數 (LEDGER_*)
//
// 參數:
//
//	path: YAML 路徑，空字串代表只使用預設值與環境變數
//
// 回傳:
//
//	*Config: 驗證過的設定
//	error: 讀檔、解析或驗證錯誤
func Load(path string) (*Config, error) {
	// 正式環境通常沒有 .env，直接使用系統環境變數
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv 以環境變數覆寫設定
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"GRPC_ADDR":         &c.Server.GRPCAddr,
		"HTTP_ADDR":         &c.Server.HTTPAddr,
		"LOG_LEVEL":         &c.Log.Level,
		"LOG_FORMAT":        &c.Log.Format,
		"STORAGE_DRIVER":    &c.Storage.Driver,
		"WAL_PATH":          &c.Storage.WALPath,
		"MYSQL_HOST":        &c.MySQL.Host,
		"MYSQL_USER":        &c.MySQL.User,
		"MYSQL_PASSWORD":    &c.MySQL.Password,
		"MYSQL_DB_NAME":     &c.MySQL.DBName,
		"POSTGRES_HOST":     &c.Postgres.Host,
		"POSTGRES_USER":     &c.Postgres.User,
		"POSTGRES_PASSWORD": &c.Postgres.Password,
		"POSTGRES_DB_NAME":  &c.Postgres.DBName,
		"REDIS_ADDR":        &c.Redis.Addr,
		"REDIS_PASSWORD":    &c.Redis.Password,
		"RABBITMQ_URL":      &c.RabbitMQ.URL,
		"MONGO_URI":         &c.Mongo.URI,
		"MONGO_DATABASE":    &c.Mongo.Database,
	}
	for key, dst := range strs {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MYSQL_PORT":          &c.MySQL.Port,
		"POSTGRES_PORT":       &c.Postgres.Port,
		"SERVICE_MAX_RETRIES": &c.Service.MaxRetries,
	}
	for key, dst := range ints {
		if v, ok := lookup(envPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("env %s%s: %w", envPrefix, key, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"REDIS_ENABLED":    &c.Redis.Enabled,
		"RABBITMQ_ENABLED": &c.RabbitMQ.Enabled,
	}
	for key, dst := range bools {
		if v, ok := lookup(envPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("env %s%s: %w", envPrefix, key, err)
			}
			*dst = b
		}
	}

	durations := map[string]*time.Duration{
		"SERVICE_LOCK_TIMEOUT": &c.Service.LockTimeout,
		"REDIS_TTL":            &c.Redis.TTL,
	}
	for key, dst := range durations {
		if v, ok := lookup(envPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("env %s%s: %w", envPrefix, key, err)
			}
			*dst = d
		}
	}
	return nil
}

// Validate 檢查設定是否可用
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case DriverMemory, DriverMySQL, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver))
	}
	if c.Server.GRPCAddr == "" {
		errs = append(errs, errors.New("server.grpc_addr: required"))
	}
	if c.Service.MaxRetries < 0 {
		errs = append(errs, errors.New("service.max_retries: must not be negative"))
	}
	if c.Service.LockTimeout <= 0 {
		errs = append(errs, errors.New("service.lock_timeout: must be positive"))
	}
	if c.Redis.Enabled && c.Redis.TTL <= 0 {
		errs = append(errs, errors.New("redis.ttl: must be positive"))
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.Exchange == "" {
		errs = append(errs, errors.New("rabbitmq.exchange: required"))
	}

	seen := make(map[int64]bool, len(c.Accounts))
	for _, seed := range c.Accounts {
		if seen[seed.ID] {
			errs = append(errs, fmt.Errorf("accounts: duplicate id %d", seed.ID))
		}
		seen[seed.ID] = true
		if seed.Currency == "" {
			errs = append(errs, fmt.Errorf("accounts: account %d has no currency", seed.ID))
		}
		acc, err := seed.Account()
		if err != nil {
			errs = append(errs, fmt.Errorf("accounts: %w", err))
		} else if acc.Balance < 0 {
			errs = append(errs, fmt.Errorf("accounts: account %d has a negative balance", seed.ID))
		}
	}
	return errors.Join(errs...)
}
