package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/terraincognita07/micronutri/internal/db"
	"github.com/terraincognita07/micronutri/internal/services"
)

func RunPurgeSessionsCommand(dbPath string, out io.Writer) error {
	database, err := db.OpenSQLite(dbPath, false)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer db.Close(database)

	repositories := db.NewRepositories(database)
	purged, err := services.NewSessionService(repositories.Sessions, 0).PurgeExpired()
	if err != nil {
		return fmt.Errorf("purge expired sessions: %w", err)
	}
	tokens, err := db.NewCSRFTokenStorage(database).DeleteExpired(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("purge expired csrf tokens: %w", err)
	}

	fmt.Fprintf(out, "Purged %d expired wizard session(s) and %d expired CSRF token(s)\n", purged, tokens)
	return nil
}
