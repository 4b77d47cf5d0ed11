package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "smartbill-api", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiryHours)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshExpiryHours)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 0.18, cfg.Billing.DefaultTaxRate)
	assert.Equal(t, 5, cfg.Billing.LowStockThreshold)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("BILLING_LOW_STOCK_THRESHOLD", "10")

	cfg := Load()
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 10, cfg.Billing.LowStockThreshold)
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		Name:     "smartbill",
		User:     "app",
		Password: "secret",
		SSLMode:  "require",
		Timezone: "UTC",
	}

	dsn := db.DSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "sslmode=require")
	assert.Contains(t, dsn, "TimeZone=UTC")
}
