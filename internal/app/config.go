package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-todo-tasks/internal/config"
)

// MustReadEnv loads .env when present, then reads the config from the
// process environment.
func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("storage_driver", cfg.Storage.Driver).
		Str("http_port", cfg.HTTP.Port).
		Strs("cors_allow_origins", cfg.HTTP.CORSAllowOrigins).
		Msg("read env")

	config.SetGlobal(cfg)
}
