package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env     string `env:"ENV" env-required:"true"`
	HTTP    HTTPConfig
	Storage StorageConfig
	Mongo   MongoConfig
}

type HTTPConfig struct {
	Host             string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port             string        `env:"HTTP_PORT" env-default:"8090"`
	ShutdownTimeout  time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	CORSAllowOrigins []string      `env:"HTTP_CORS_ALLOW_ORIGINS" env-default:"*" env-separator:","`
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" env-default:"mongo"`
}

type MongoConfig struct {
	URI               string        `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database          string        `env:"MONGO_DATABASE" env-default:"taskmanager"`
	UsersCollection   string        `env:"MONGO_USERS_COLLECTION" env-default:"users"`
	ConnectTimeout    time.Duration `env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout       time.Duration `env:"MONGO_PING_TIMEOUT" env-default:"10s"`
	OptimisticLocking bool          `env:"MONGO_OPTIMISTIC_LOCKING" env-default:"false"`
}
