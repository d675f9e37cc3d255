package database

import (
	"database/sql"
	"embed"
	"path"
	"sort"
	"time"

	"github.com/alimgiray/familytree/pkg/logger"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens the SQLite database at dbPath, applies pragmas and runs migrations
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	// Configure connection pool. Every connection to :memory: is its own
	// database, so an in-memory store must stay on a single connection.
	if dbPath == MemoryPath {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(time.Hour)
	}

	// Test the connection
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}

	if err = optimizeDatabase(db, dbPath == MemoryPath); err != nil {
		db.Close()
		return nil, err
	}

	if err = RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.WithField("path", dbPath).Info("Database connected successfully")
	return db, nil
}

// optimizeDatabase configures SQLite for optimal performance
func optimizeDatabase(db *sql.DB, inMemory bool) error {
	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=30000",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA cache_size=10000",
	}
	if !inMemory {
		pragmas = append(pragmas,
			"PRAGMA journal_mode=WAL",
			"PRAGMA synchronous=NORMAL",
			"PRAGMA mmap_size=268435456", // 256MB
		)
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errors.Wrapf(err, "exec %q", pragma)
		}
	}
	return nil
}

// RunMigrations executes the embedded SQL scripts in file name order
func RunMigrations(db *sql.DB) error {
	files, err := migrations.ReadDir("migrations")
	if err != nil {
		return errors.Wrap(err, "read migrations")
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		if path.Ext(file.Name()) == ".sql" {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		sqlContent, err := migrations.ReadFile(path.Join("migrations", name))
		if err != nil {
			return errors.Wrapf(err, "read migration %s", name)
		}

		if _, err = db.Exec(string(sqlContent)); err != nil {
			return errors.Wrapf(err, "execute migration %s", name)
		}

		logger.Debugf("Executed SQL script: %s", name)
	}

	return nil
}
