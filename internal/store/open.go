package store

import (
	"context"
	"fmt"
)

// Supported drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config selects and configures the persistence medium.
type Config struct {
	Driver        string
	DataDir       string
	RedisURL      string
	RedisPrefix   string
	DatabaseDSN   string
	MongoURI      string
	MongoDatabase string
}

// ValidDriver reports whether Open knows driver.
func ValidDriver(driver string) bool {
	switch driver {
	case DriverFile, DriverMemory, DriverRedis, DriverSQLite, DriverPostgres, DriverMongo:
		return true
	}
	return false
}

// Open builds the Store selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverFile, "":
		return NewFileStore(cfg.DataDir)
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverRedis:
		return OpenRedisStore(ctx, cfg.RedisURL, cfg.RedisPrefix)
	case DriverSQLite, DriverPostgres:
		db, err := OpenGORM(cfg.Driver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return NewGORMStore(db)
	case DriverMongo:
		return OpenMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
