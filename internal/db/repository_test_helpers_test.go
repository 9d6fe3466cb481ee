package db

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

func openRepositoryTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	return openSQLiteForMigrationBootstrapTest(t, filepath.Join(t.TempDir(), "micronutri-repositories.db"))
}
