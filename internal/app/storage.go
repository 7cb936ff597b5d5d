package app

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/adanyl0v/go-todo-tasks/internal/config"
	"github.com/adanyl0v/go-todo-tasks/internal/storage"
	"github.com/adanyl0v/go-todo-tasks/internal/storage/memory"
	"github.com/adanyl0v/go-todo-tasks/internal/storage/mongodb"
)

var (
	globalMongoClient *mongo.Client
	globalUsers       storage.UserRepository
)

func MustConnectStorage() {
	cfg := config.Global()
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		mustConnectMongo(cfg.Mongo)
	case config.DriverMemory:
		globalUsers = memory.NewUserRepository(cfg.Mongo.OptimisticLocking)
		globalLogger.Warn().Msg("using in-memory storage")
	default:
		globalLogger.Error().
			Str("driver", cfg.Storage.Driver).
			Msg("unknown storage driver")
		panic(fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver))
	}
}

func mustConnectMongo(cfg config.MongoConfig) {
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout)

	connectCtx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to mongo")
		panic(err)
	}
	globalMongoClient = client

	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = client.Ping(pingCtx, readpref.Primary())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping mongo")
		panic(err)
	}

	users := mongodb.NewUserRepository(
		client.Database(cfg.Database),
		cfg.UsersCollection,
		cfg.OptimisticLocking,
	)
	err = users.EnsureIndexes(pingCtx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create mongo indexes")
		panic(err)
	}
	globalUsers = users

	globalLogger.Info().
		Str("database", cfg.Database).
		Str("collection", cfg.UsersCollection).
		Bool("optimistic_locking", cfg.OptimisticLocking).
		Msg("connected to mongo")
}

func DisconnectStorage() {
	if globalMongoClient == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Global().Mongo.ConnectTimeout)
	defer cancel()

	err := globalMongoClient.Disconnect(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to disconnect from mongo")
		return
	}
	globalLogger.Info().Msg("disconnected from mongo")
}
