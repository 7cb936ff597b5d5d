package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvReaderDefaults(t *testing.T) {
	t.Setenv("ENV", EnvDev)

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, EnvDev, cfg.Env)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, "8090", cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "taskmanager", cfg.Mongo.Database)
	assert.Equal(t, "users", cfg.Mongo.UsersCollection)
	assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(t, 10*time.Second, cfg.Mongo.PingTimeout)
	assert.False(t, cfg.Mongo.OptimisticLocking)
}

func TestEnvReaderOverrides(t *testing.T) {
	t.Setenv("ENV", EnvProd)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("HTTP_CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("STORAGE_DRIVER", DriverMemory)
	t.Setenv("MONGO_OPTIMISTIC_LOCKING", "true")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "3s")

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Mongo.OptimisticLocking)
	assert.Equal(t, 3*time.Second, cfg.Mongo.ConnectTimeout)
}

func TestEnvReaderErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "unknown env",
			env:  map[string]string{"ENV": "staging"},
		},
		{
			name: "unknown driver",
			env:  map[string]string{"ENV": EnvDev, "STORAGE_DRIVER": "postgres"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := NewEnvReader().Read()
			assert.Error(t, err)
		})
	}
}
