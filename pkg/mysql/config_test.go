package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_ApplyDefaultsAndDSN(t *testing.T) {
	t.Parallel()

	cfg := Config{Host: "db", User: "ledger", Password: "secret", DBName: "accounts", MaxOpenConns: 5}
	cfg.ApplyDefaults()

	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, 5, cfg.MaxOpenConns)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
	assert.Equal(t, 10, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryInterval)
	assert.Equal(t, "ledger:secret@tcp(db:3306)/accounts?charset=utf8mb4&parseTime=True&loc=UTC", cfg.DSN())
}
