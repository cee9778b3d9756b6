package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenSQLite opens an embedded database. It backs the test suites and
// single-machine demos; sqlite allows one writer so the pool holds one connection.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := open(sqlite.Open(dsn))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB -> %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}
