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

	"github.com/JoeShih716/account-ledger/pkg/logger"
	"github.com/JoeShih716/account-ledger/pkg/mysql"
)

// Config 服務設定
type Config struct {
	GRPC   ServerConfig  `yaml:"grpc"`
	HTTP   ServerConfig  `yaml:"http"`
	Ledger LedgerConfig  `yaml:"ledger"`
	Log    logger.Config `yaml:"log"`
	MySQL  mysql.Config  `yaml:"mysql"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LedgerConfig struct {
	// LockTimeout 轉帳等待帳戶鎖的上限
	LockTimeout time.Duration `yaml:"lock_timeout"`
	// JournalPath 補償意圖 WAL 路徑
	JournalPath string `yaml:"journal_path"`
}

// Load 讀取 YAML 設定檔，套用環境變數覆寫後補全預設值
//
// 工作目錄下若有 .env 會先載入 (不覆蓋已存在的環境變數)，
// 之後 LEDGER_* 環境變數優先於 YAML 內容。
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Parse 解析 YAML 並補全預設值
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyEnv 以環境變數覆寫設定
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LEDGER_GRPC_ADDR":      &c.GRPC.Addr,
		"LEDGER_HTTP_ADDR":      &c.HTTP.Addr,
		"LEDGER_JOURNAL_PATH":   &c.Ledger.JournalPath,
		"LEDGER_LOG_LEVEL":      &c.Log.Level,
		"LEDGER_MYSQL_HOST":     &c.MySQL.Host,
		"LEDGER_MYSQL_USER":     &c.MySQL.User,
		"LEDGER_MYSQL_PASSWORD": &c.MySQL.Password,
		"LEDGER_MYSQL_DB_NAME":  &c.MySQL.DBName,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("LEDGER_LOG_ENVIRONMENT"); ok {
		c.Log.Environment = logger.Environment(v)
	}
	if v, ok := lookup("LEDGER_LOCK_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid LEDGER_LOCK_TIMEOUT %q: %w", v, err)
		}
		c.Ledger.LockTimeout = d
	}
	if v, ok := lookup("LEDGER_MYSQL_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LEDGER_MYSQL_ENABLED %q: %w", v, err)
		}
		c.MySQL.Enabled = enabled
	}
	if v, ok := lookup("LEDGER_MYSQL_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LEDGER_MYSQL_PORT %q: %w", v, err)
		}
		c.MySQL.Port = port
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.GRPC.Addr == "" {
		c.GRPC.Addr = ":50051"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Ledger.LockTimeout == 0 {
		c.Ledger.LockTimeout = 2 * time.Second
	}
	if c.Ledger.JournalPath == "" {
		c.Ledger.JournalPath = "compensation.wal"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Environment == "" {
		c.Log.Environment = logger.EnvironmentProduction
	}
	c.MySQL.ApplyDefaults()
}
