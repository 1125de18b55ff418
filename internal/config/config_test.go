package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(EnvPrefix+k, v)
	}
}

func TestLoadConfig_SQLite(t *testing.T) {
	setEnv(t, map[string]string{
		"PRIMARY.ENV":     "test",
		"DATABASE.DRIVER": "sqlite",
		"DATABASE.PATH":   ":memory:",
	})

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Primary.Env)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.Path)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "peopledb", cfg.Observability.ServiceName)
	assert.Equal(t, "test", cfg.Observability.Environment)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.Equal(t, 100*time.Millisecond, cfg.Observability.Logging.SlowQueryThreshold)
}

func TestLoadConfig_PostgresRequiresConnectionFields(t *testing.T) {
	setEnv(t, map[string]string{
		"PRIMARY.ENV":     "test",
		"DATABASE.DRIVER": "postgres",
		"DATABASE.HOST":   "localhost",
	})

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadConfig_PostgresComplete(t *testing.T) {
	setEnv(t, map[string]string{
		"PRIMARY.ENV":   "local",
		"DATABASE.HOST": "localhost",
		"DATABASE.PORT": "5432",
		"DATABASE.USER": "people",
		"DATABASE.NAME": "people",
	})

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver, "driver defaults to postgres")
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	setEnv(t, map[string]string{
		"PRIMARY.ENV":     "test",
		"DATABASE.DRIVER": "mysql",
	})

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_PartialObservability(t *testing.T) {
	setEnv(t, map[string]string{
		"PRIMARY.ENV":                 "test",
		"DATABASE.DRIVER":             "sqlite",
		"DATABASE.PATH":               ":memory:",
		"OBSERVABILITY.LOGGING.LEVEL": "debug",
	})

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format, "missing format is filled from defaults")
	assert.Equal(t, []string{"database"}, cfg.Observability.HealthChecks.Checks)
}

func TestValidateServer(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.ValidateServer())

	cfg.Server = ServerConfig{Port: "8080", ReadTimeout: 30, WriteTimeout: 30, IdleTimeout: 60}
	assert.NoError(t, cfg.ValidateServer())
}

func TestObservabilityConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ObservabilityConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *ObservabilityConfig) {}},
		{name: "empty service name", mutate: func(c *ObservabilityConfig) { c.ServiceName = "" }, wantErr: true},
		{name: "unknown level", mutate: func(c *ObservabilityConfig) { c.Logging.Level = "inf" }, wantErr: true},
		{name: "negative threshold", mutate: func(c *ObservabilityConfig) { c.Logging.SlowQueryThreshold = -time.Second }, wantErr: true},
		{name: "unknown health check", mutate: func(c *ObservabilityConfig) { c.HealthChecks.Checks = []string{"redis"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultObservabilityConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	c := &ObservabilityConfig{Environment: "development"}
	assert.Equal(t, "debug", c.GetLogLevel())

	c.Environment = "production"
	assert.Equal(t, "info", c.GetLogLevel())
	assert.True(t, c.IsProduction())

	c.Logging.Level = "warn"
	assert.Equal(t, "warn", c.GetLogLevel())
}
