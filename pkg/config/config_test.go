package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "inventario:", cfg.Redis.Prefix)
	assert.Equal(t, 60, cfg.JWT.Expiration)
	assert.Equal(t, "cascade", cfg.Console.CategoryDeletePolicy)
	assert.Equal(t, 200, cfg.Console.ActivityLogCapacity)
	assert.Equal(t, 5, cfg.Console.StockLowMax)
	assert.False(t, cfg.Console.SeedSampleData)
	require.NoError(t, cfg.Validate())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "Redis")
	v.Set("REDIS_DB", "2")
	v.Set("HTTP_PORT", "9090")
	v.Set("SEED_SAMPLE_DATA", "true")
	v.Set("STOCK_LOW_MAX", "abc")

	cfg := fromViper(v)
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.True(t, cfg.Console.SeedSampleData)
	assert.Equal(t, 5, cfg.Console.StockLowMax, "valor no numérico conserva el defecto")
}

func TestConfig_Validate(t *testing.T) {
	cfg := fromViper(viper.New())
	cfg.Store.Driver = "mongo"
	assert.Error(t, cfg.Validate())

	cfg = fromViper(viper.New())
	cfg.Console.ActivityLogCapacity = 0
	assert.Error(t, cfg.Validate())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/inv?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
