package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// Config holds database configuration
type Config struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// LoadConfigFromEnv loads database configuration from environment variables
func LoadConfigFromEnv() *Config {
	return &Config{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnv("DB_PORT", "5432"),
		User:            getEnv("DB_USER", "keeper"),
		Password:        getEnv("DB_PASSWORD", "keeper_password"),
		DBName:          getEnv("DB_NAME", "keeper_realm"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
	}
}

// NewConnection creates a new database connection with the provided configuration
func NewConnection(config *Config) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("[Database] Connected to %s:%s/%s", config.Host, config.Port, config.DBName)
	log.Printf("[Database] Pool config: MaxOpen=%d, MaxIdle=%d", config.MaxOpenConns, config.MaxIdleConns)

	return &DB{db}, nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("[Database] Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("[Database] Invalid duration value for %s: %s, using default: %s", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// InitSchema creates database tables if they don't exist
func (db *DB) InitSchema() error {
	schema := `
	-- Players table. The guild roster is three nullable slot columns so the
	-- exactly-3 invariant holds structurally.
	CREATE TABLE IF NOT EXISTS players (
		id SERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		player_name VARCHAR(50) NOT NULL,
		level INTEGER NOT NULL DEFAULT 1,
		experience INTEGER NOT NULL DEFAULT 0,
		coins INTEGER NOT NULL DEFAULT 0,
		gems INTEGER NOT NULL DEFAULT 0,
		player_order INTEGER NOT NULL,
		total_summons INTEGER NOT NULL DEFAULT 0,
		guild_slot_1 INTEGER,
		guild_slot_2 INTEGER,
		guild_slot_3 INTEGER,
		is_banned BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_login TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- Keepers table. owner_id may be NULL for orphaned keepers until the
	-- ownership reconciliation pass resolves them.
	CREATE TABLE IF NOT EXISTS keepers (
		id SERIAL PRIMARY KEY,
		keeper_order INTEGER NOT NULL,
		owner_id INTEGER REFERENCES players(id),
		class INTEGER NOT NULL,
		level INTEGER NOT NULL DEFAULT 1,
		tier INTEGER NOT NULL,
		rarity INTEGER NOT NULL,
		san INTEGER NOT NULL DEFAULT 0,
		hp INTEGER NOT NULL DEFAULT 100,
		hp_max INTEGER NOT NULL DEFAULT 100,
		mp INTEGER NOT NULL DEFAULT 100,
		mp_max INTEGER NOT NULL DEFAULT 100,
		str INTEGER NOT NULL,
		intellect INTEGER NOT NULL,
		will INTEGER NOT NULL,
		dex INTEGER NOT NULL,
		luck INTEGER NOT NULL,
		potential INTEGER NOT NULL,
		is_banned BOOLEAN NOT NULL DEFAULT FALSE,
		summoned_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- Insertion-ordered owned set. Kept separately from keepers.owner_id so
	-- the two books can drift and be reconciled, mirroring live data.
	CREATE TABLE IF NOT EXISTS player_keepers (
		position SERIAL PRIMARY KEY,
		player_id INTEGER NOT NULL REFERENCES players(id),
		keeper_id INTEGER NOT NULL REFERENCES keepers(id),
		UNIQUE (player_id, keeper_id)
	);

	-- Append-only summon provenance
	CREATE TABLE IF NOT EXISTS summon_records (
		id SERIAL PRIMARY KEY,
		player_id INTEGER NOT NULL REFERENCES players(id),
		keeper_id INTEGER NOT NULL REFERENCES keepers(id),
		keeper_order INTEGER NOT NULL,
		summon_method VARCHAR(20) NOT NULL,
		batch_id UUID NOT NULL,
		summoned_at TIMESTAMPTZ NOT NULL
	);

	-- Bosses table
	CREATE TABLE IF NOT EXISTS bosses (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		image_large VARCHAR(255) NOT NULL,
		image_small VARCHAR(255) NOT NULL,
		require_str INTEGER NOT NULL,
		require_int INTEGER NOT NULL,
		require_dex INTEGER NOT NULL,
		require_will INTEGER NOT NULL,
		coin_drop INTEGER NOT NULL,
		gem_drop INTEGER NOT NULL,
		last_defeat_time TIMESTAMPTZ NOT NULL,
		respawn_seconds INTEGER NOT NULL
	);

	-- Keeper class reference data, seeded from the static metadata table
	CREATE TABLE IF NOT EXISTS keeper_classes (
		id INTEGER PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		description TEXT NOT NULL,
		str_required INTEGER NOT NULL,
		int_required INTEGER NOT NULL,
		dex_required INTEGER NOT NULL,
		luck_required INTEGER NOT NULL,
		will_required INTEGER NOT NULL,
		level_required INTEGER NOT NULL,
		image_l VARCHAR(255) NOT NULL,
		image_s VARCHAR(255) NOT NULL
	);

	-- Admin allow-list
	CREATE TABLE IF NOT EXISTS admin_allowlist (
		email VARCHAR(255) PRIMARY KEY
	);

	-- Shared ordinal counters (keeper_order, player_order)
	CREATE TABLE IF NOT EXISTS counters (
		name VARCHAR(50) PRIMARY KEY,
		value INTEGER NOT NULL DEFAULT 0
	);

	-- Create indexes for performance
	CREATE INDEX IF NOT EXISTS idx_players_email ON players(email);
	CREATE INDEX IF NOT EXISTS idx_players_order ON players(player_order);
	CREATE INDEX IF NOT EXISTS idx_keepers_owner_id ON keepers(owner_id);
	CREATE INDEX IF NOT EXISTS idx_keepers_order ON keepers(keeper_order);
	CREATE INDEX IF NOT EXISTS idx_player_keepers_player_id ON player_keepers(player_id);
	CREATE INDEX IF NOT EXISTS idx_player_keepers_keeper_id ON player_keepers(keeper_id);
	CREATE INDEX IF NOT EXISTS idx_summon_records_player_id ON summon_records(player_id);
	CREATE INDEX IF NOT EXISTS idx_summon_records_summoned_at ON summon_records(summoned_at DESC);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Println("[Database] Schema initialized with indexes")
	return nil
}

// Counter names
const (
	CounterKeeperOrder = "keeper_order"
	CounterPlayerOrder = "player_order"
)

// NextCounter atomically bumps a named counter and returns the new value.
// Must run inside the transaction that consumes the value so the ordinal
// sequence stays gapless under concurrent requests.
func NextCounter(tx *sql.Tx, name string) (int, error) {
	var value int
	err := tx.QueryRow(
		`UPDATE counters SET value = value + 1 WHERE name = $1 RETURNING value`,
		name,
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to bump counter %s: %w", name, err)
	}
	return value, nil
}
