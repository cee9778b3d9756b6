// Package dbtest opens throwaway databases for package tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vietanh2810/festival-api/internal/db"
	"github.com/vietanh2810/festival-api/internal/repository/dao"
)

// NewSQLite returns a migrated in-memory database private to t.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	gormDB, err := db.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(gormDB))

	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return gormDB
}
