package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/dernek/internal/common"
)

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// DB manages the PostgreSQL connection backing the settings table
type DB struct {
	db     *sql.DB
	table  string
	logger arbor.ILogger
}

// NewDB opens and pings a PostgreSQL connection
func NewDB(logger arbor.ILogger, config *common.PostgresConfig) (*DB, error) {
	table, err := tableName(config.Table)
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host,
		config.Port,
		config.User,
		config.Password,
		config.DBName,
		config.SSLMode,
	)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime != "" {
		lifetime, err := time.ParseDuration(config.ConnMaxLifetime)
		if err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("invalid conn_max_lifetime %q: %w", config.ConnMaxLifetime, err)
		}
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info().
		Str("host", config.Host).
		Int("port", config.Port).
		Str("dbname", config.DBName).
		Str("table", table).
		Msg("Database connection established")

	return &DB{db: sqlDB, table: table, logger: logger}, nil
}

// WrapDB adopts an already-open *sql.DB
func WrapDB(sqlDB *sql.DB, table string, logger arbor.ILogger) (*DB, error) {
	name, err := tableName(table)
	if err != nil {
		return nil, err
	}
	return &DB{db: sqlDB, table: name, logger: logger}, nil
}

func tableName(table string) (string, error) {
	if table == "" {
		return "settings", nil
	}
	if !tableNamePattern.MatchString(table) {
		return "", fmt.Errorf("invalid settings table name %q", table)
	}
	return table, nil
}

// SQL returns the underlying connection pool
func (d *DB) SQL() *sql.DB {
	return d.db
}

// Table returns the settings table name
func (d *DB) Table() string {
	return d.table
}

// Close closes the connection pool
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
