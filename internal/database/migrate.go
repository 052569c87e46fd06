package database

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ensureDir creates the parent directory of a file DSN so sqlite can create the file.
func ensureDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create storage dir %q: %w", dir, err)
	}
	return nil
}

// Open opens the local sqlite storage.
func Open(dsn string) (*gorm.DB, error) {
	if err := ensureDir(dsn); err != nil {
		return nil, err
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open storage %q: %w", dsn, err)
	}
	return db, nil
}

// MigrateUp applies the embedded migrations to db and reports the schema
// version before and after.
func MigrateUp(db *gorm.DB) (before, after int64, err error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, 0, fmt.Errorf("storage handle: %w", err)
	}
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, 0, fmt.Errorf("goose dialect: %w", err)
	}
	if before, err = goose.GetDBVersion(sqlDB); err != nil {
		return 0, 0, fmt.Errorf("storage version: %w", err)
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
		return before, before, fmt.Errorf("migrate up: %w", err)
	}
	if after, err = goose.GetDBVersion(sqlDB); err != nil {
		return before, 0, fmt.Errorf("storage version: %w", err)
	}
	return before, after, nil
}
