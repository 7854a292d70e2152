package app

import (
	"fmt"

	"github.com/adanyl0v/go-taskboard/internal/config"
	"github.com/adanyl0v/go-taskboard/internal/storage"
	"github.com/adanyl0v/go-taskboard/internal/storage/cache"
	"github.com/adanyl0v/go-taskboard/internal/storage/memory"
	"github.com/adanyl0v/go-taskboard/internal/storage/mongodb"
	"github.com/adanyl0v/go-taskboard/internal/storage/postgres"
)

var (
	globalTaskRepository storage.TaskRepository
	globalUserRepository storage.UserRepository
)

// MustConnectStorage connects the configured driver and, when redis is
// enabled, puts the read-through cache in front of the task repository.
func MustConnectStorage() {
	cfg := config.Global()

	switch cfg.StorageDriver {
	case config.StorageMongo:
		MustConnectMongo()
		globalTaskRepository = mongodb.NewTaskRepository(globalMongoDatabase)
		globalUserRepository = mongodb.NewUserRepository(globalMongoDatabase)
	case config.StoragePostgres:
		MustConnectPostgres()
		globalTaskRepository = postgres.NewTaskRepository(globalPostgresPool)
		globalUserRepository = postgres.NewUserRepository(globalPostgresPool)
	case config.StorageMemory:
		store := memory.New()
		globalTaskRepository = store.Tasks()
		globalUserRepository = store.Users()
		globalLogger.Warn().Msg("using in-memory storage, data is lost on restart")
	default:
		globalLogger.Error().
			Str("driver", cfg.StorageDriver).
			Msg("unknown storage driver")
		panic(fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver))
	}

	MustConnectRedis()
	if globalRedisClient != nil {
		globalTaskRepository = cache.NewTaskRepository(globalTaskRepository, globalRedisClient, cfg.Redis.TTL)
	}
	globalLogger.Info().
		Str("driver", cfg.StorageDriver).
		Bool("cache", globalRedisClient != nil).
		Msg("storage ready")
}

func DisconnectStorage() {
	DisconnectRedis()
	switch config.Global().StorageDriver {
	case config.StorageMongo:
		DisconnectMongo()
	case config.StoragePostgres:
		DisconnectPostgres()
	}
}
