package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/pocketbase/dbx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Supported drivers
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// DB wraps a dbx handle for SQLite or MySQL
type DB struct {
	dbx    *dbx.DB
	driver string
}

// Open connects, verifies connectivity and creates missing tables
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	if driver != DriverSQLite && driver != DriverMySQL {
		return nil, fmt.Errorf("unsupported sql driver: %s", driver)
	}

	handle, err := dbx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		// one connection keeps :memory: databases shared and writes serialized
		handle.DB().SetMaxOpenConns(1)
	}

	if err := handle.DB().PingContext(ctx); err != nil {
		_ = handle.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{dbx: handle, driver: driver}
	if err := db.ensureSchema(ctx); err != nil {
		_ = handle.Close()
		return nil, err
	}

	log.Info().Str("driver", driver).Msg("SQL store ready")
	return db, nil
}

// Close closes the database
func (db *DB) Close() error {
	return db.dbx.Close()
}

// Ping verifies database connectivity
func (db *DB) Ping(ctx context.Context) error {
	return db.dbx.DB().PingContext(ctx)
}

func (db *DB) ensureSchema(ctx context.Context) error {
	stmts := sqliteSchema
	if db.driver == DriverMySQL {
		stmts = mysqlSchema
	}
	for _, stmt := range stmts {
		if _, err := db.dbx.NewQuery(stmt).WithContext(ctx).Execute(); err != nil {
			if isDuplicateIndex(err) {
				continue
			}
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// isUniqueViolation reports a duplicate key error from either driver
func isUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// MySQL has no CREATE INDEX IF NOT EXISTS
func isDuplicateIndex(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1061
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE COLLATE NOCASE,
		password_hash TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_user_created ON chat_messages (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		interests TEXT NOT NULL,
		pace TEXT NOT NULL,
		itinerary TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_user_created ON trips (user_id, created_at)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	) CHARACTER SET utf8mb4`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id VARCHAR(128) NOT NULL,
		role VARCHAR(16) NOT NULL,
		content MEDIUMTEXT NOT NULL,
		created_at BIGINT NOT NULL
	) CHARACTER SET utf8mb4`,
	`CREATE INDEX idx_chat_messages_user_created ON chat_messages (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS trips (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(128) NOT NULL,
		origin VARCHAR(255) NOT NULL,
		destination VARCHAR(255) NOT NULL,
		start_date CHAR(10) NOT NULL,
		end_date CHAR(10) NOT NULL,
		interests TEXT NOT NULL,
		pace VARCHAR(16) NOT NULL,
		itinerary MEDIUMTEXT NOT NULL,
		created_at BIGINT NOT NULL
	) CHARACTER SET utf8mb4`,
	`CREATE INDEX idx_trips_user_created ON trips (user_id, created_at)`,
}
