// Package repository selects the persistence backend for users, chat
// history and trips.
package repository

import (
	"context"
	"fmt"

	"github.com/Rrens/mika-travel/internal/config"
	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/Rrens/mika-travel/internal/repository/mongo"
	"github.com/Rrens/mika-travel/internal/repository/postgres"
	"github.com/Rrens/mika-travel/internal/repository/sqlstore"
	"github.com/rs/zerolog/log"
)

// Backend bundles the repositories of one storage engine
type Backend struct {
	Driver   string
	Users    domain.UserRepository
	Messages domain.MessageRepository
	Trips    domain.TripRepository

	ping  func(ctx context.Context) error
	close func() error
}

// Ping verifies storage connectivity
func (b *Backend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}

// Close releases the underlying connections
func (b *Backend) Close() error {
	return b.close()
}

// Open connects to the storage engine named by cfg.Storage.Driver
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	driver := cfg.Storage.Driver
	log.Info().Str("driver", driver).Msg("Opening storage backend")

	switch driver {
	case config.StoragePostgres:
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:   driver,
			Users:    postgres.NewUserRepository(db.Pool),
			Messages: postgres.NewMessageRepository(db.Pool),
			Trips:    postgres.NewTripRepository(db.Pool),
			ping:     db.Ping,
			close:    db.Close,
		}, nil

	case config.StorageMongo:
		db, err := mongo.Connect(ctx, cfg.Storage.Mongo)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:   driver,
			Users:    mongo.NewUserRepository(db),
			Messages: mongo.NewMessageRepository(db),
			Trips:    mongo.NewTripRepository(db),
			ping:     db.Ping,
			close:    db.Close,
		}, nil

	case config.StorageSQLite, config.StorageMySQL:
		dsn := cfg.Storage.SQLite.DSN
		if driver == config.StorageMySQL {
			dsn = cfg.Storage.MySQL.DSN
		}
		db, err := sqlstore.Open(ctx, driver, dsn)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:   driver,
			Users:    sqlstore.NewUserRepository(db),
			Messages: sqlstore.NewMessageRepository(db),
			Trips:    sqlstore.NewTripRepository(db),
			ping:     db.Ping,
			close:    db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}
}
