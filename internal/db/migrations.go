package db

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	embeddedmigrations "github.com/terraincognita07/micronutri/migrations"
	"gorm.io/gorm"
)

var (
	migrationNamePattern = regexp.MustCompile(`^(\d+)_[a-z0-9_]+\.sql$`)
	addColumnPattern     = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+COLUMN\s+(\S+)`)
	dropColumnPattern    = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+DROP\s+COLUMN\s+(\S+)`)
)

var errMigrationChecksumMismatch = errors.New("applied migration was modified")

// schemaMigration is one forward-only SQL file shipped inside the binary.
type schemaMigration struct {
	Version  string
	Order    int
	Name     string
	SQL      string
	Checksum string
}

type appliedMigration struct {
	Version  string `gorm:"column:version"`
	Checksum string `gorm:"column:checksum"`
}

func applyEmbeddedMigrations(database *gorm.DB) error {
	if err := ensureMigrationLedger(database); err != nil {
		return err
	}

	pending, err := loadEmbeddedMigrations()
	if err != nil {
		return err
	}
	applied, err := loadAppliedMigrations(database)
	if err != nil {
		return err
	}

	for _, migration := range pending {
		if checksum, done := applied[migration.Version]; done {
			// Rows recorded before checksums existed carry an empty value.
			if checksum != "" && checksum != migration.Checksum {
				return fmt.Errorf("%w: %s", errMigrationChecksumMismatch, migration.Name)
			}
			continue
		}
		if err := runMigration(database, migration); err != nil {
			return err
		}
	}
	return nil
}

func ensureMigrationLedger(database *gorm.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`ALTER TABLE schema_migrations ADD COLUMN checksum TEXT NOT NULL DEFAULT ''`,
	}
	for _, statement := range statements {
		if err := execColumnChange(database, statement); err != nil {
			return fmt.Errorf("prepare schema_migrations: %w", err)
		}
	}
	return nil
}

func loadEmbeddedMigrations() ([]schemaMigration, error) {
	entries, err := fs.ReadDir(embeddedmigrations.Files, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	migrations := make([]schemaMigration, 0, len(entries))
	byVersion := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		match := migrationNamePattern.FindStringSubmatch(name)
		if match == nil {
			continue
		}

		version := match[1]
		if previous, duplicate := byVersion[version]; duplicate {
			return nil, fmt.Errorf("migration version %s used by both %s and %s", version, previous, name)
		}
		byVersion[version] = name

		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", name, err)
		}
		body, err := fs.ReadFile(embeddedmigrations.Files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}

		sum := sha256.Sum256(body)
		migrations = append(migrations, schemaMigration{
			Version:  version,
			Order:    order,
			Name:     name,
			SQL:      string(body),
			Checksum: hex.EncodeToString(sum[:]),
		})
	}

	sort.SliceStable(migrations, func(i, j int) bool {
		return migrations[i].Order < migrations[j].Order
	})
	return migrations, nil
}

func loadAppliedMigrations(database *gorm.DB) (map[string]string, error) {
	var rows []appliedMigration
	if err := database.Raw(`SELECT version, checksum FROM schema_migrations`).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}

	applied := make(map[string]string, len(rows))
	for _, row := range rows {
		applied[row.Version] = row.Checksum
	}
	return applied, nil
}

func runMigration(database *gorm.DB, migration schemaMigration) error {
	statements := splitSQLStatements(migration.SQL)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s is empty", migration.Name)
	}

	return database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range statements {
			if err := execColumnChange(tx, statement); err != nil {
				return fmt.Errorf("migration %s: %w", migration.Name, err)
			}
		}
		return tx.Exec(
			`INSERT INTO schema_migrations(version, name, checksum) VALUES (?, ?, ?)`,
			migration.Version, migration.Name, migration.Checksum,
		).Error
	})
}

// execColumnChange runs statement, skipping ADD COLUMN statements whose
// column is already present and DROP COLUMN statements whose column is gone.
// SQLite has no IF [NOT] EXISTS form for either.
func execColumnChange(database *gorm.DB, statement string) error {
	for _, change := range []struct {
		pattern    *regexp.Regexp
		skipIfHave bool
	}{
		{pattern: addColumnPattern, skipIfHave: true},
		{pattern: dropColumnPattern, skipIfHave: false},
	} {
		match := change.pattern.FindStringSubmatch(statement)
		if match == nil {
			continue
		}
		exists, err := columnExists(database, unquoteIdentifier(match[1]), unquoteIdentifier(match[2]))
		if err != nil {
			return err
		}
		if exists == change.skipIfHave {
			return nil
		}
	}
	if err := database.Exec(statement).Error; err != nil {
		return fmt.Errorf("execute %q: %w", statement, err)
	}
	return nil
}

func splitSQLStatements(script string) []string {
	var statements []string
	for _, part := range strings.Split(script, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

func columnExists(database *gorm.DB, table string, column string) (bool, error) {
	var columns []struct {
		Name string `gorm:"column:name"`
	}
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, strings.ReplaceAll(table, `"`, `""`))
	if err := database.Raw(query).Scan(&columns).Error; err != nil {
		return false, fmt.Errorf("inspect table %s: %w", table, err)
	}
	for _, existing := range columns {
		if strings.EqualFold(existing.Name, column) {
			return true, nil
		}
	}
	return false, nil
}

func unquoteIdentifier(identifier string) string {
	return strings.Trim(strings.TrimSpace(identifier), "\"`[]")
}
