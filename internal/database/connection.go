package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the relational mirror. PostgreSQL is
// used when DATABASE_URL is set; otherwise an SQLite file inside dataDir.
func Connect(dataDir string) error {
	var db *sqlx.DB
	var err error

	if url := os.Getenv("DATABASE_URL"); url != "" {
		db, err = sqlx.Connect("postgres", url)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
	} else {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}
		dbPath := filepath.Join(dataDir, "vocab.db")
		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	for _, stmt := range schemaStatements(DB.DriverName()) {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}
	return nil
}

// schemaStatements returns the mirror-table DDL for a driver. The
// auto-increment id column is the one piece that differs between the SQLite
// and PostgreSQL dialects.
func schemaStatements(driver string) []string {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == "postgres" {
		id = "SERIAL PRIMARY KEY"
	}
	return []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS words (
			id %s,
			word TEXT NOT NULL,
			meaning TEXT NOT NULL,
			phrase TEXT DEFAULT '',
			expressions TEXT DEFAULT '[]',
			media TEXT DEFAULT '',
			category TEXT NOT NULL,
			level INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(word, category, level)
		)
	`, id),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS learned_words (
			id %s,
			word TEXT NOT NULL UNIQUE,
			meaning TEXT NOT NULL,
			phrase TEXT DEFAULT '',
			expressions TEXT DEFAULT '[]',
			media TEXT DEFAULT '',
			category TEXT NOT NULL,
			learned_date TEXT NOT NULL
		)
	`, id),
	}
}
