package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/terraincognita07/micronutri/internal/db"
	"github.com/terraincognita07/micronutri/internal/services"
)

const DefaultLeadReportLimit = 100

// RunLeadsReportCommand prints the most recently updated leads. Output is
// tab separated, aligned into columns when out is a terminal.
func RunLeadsReportCommand(dbPath string, limit int, out io.Writer) error {
	database, err := db.OpenSQLite(dbPath, false)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer db.Close(database)

	if limit <= 0 {
		limit = DefaultLeadReportLimit
	}

	repositories := db.NewRepositories(database)
	rows, err := services.NewLeadService(repositories.Leads).Report(limit)
	if err != nil {
		return err
	}
	users, err := repositories.Users.CountUsers()
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}

	file, isFile := out.(*os.File)
	return writeLeadReport(out, rows, users, isFile && isTerminal(file))
}

// writeLeadReport prints one row per lead. Aligned output is for people and
// ends with a summary line; tab separated output stays rows only.
func writeLeadReport(out io.Writer, rows []services.LeadReportRow, users int64, aligned bool) error {
	writer := out
	var table *tabwriter.Writer
	if aligned {
		table = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		writer = table
	}

	if _, err := fmt.Fprintln(writer, "email\tlast_step\tcompleted_steps\tcompleted\tupdated_at"); err != nil {
		return err
	}
	for _, row := range rows {
		_, err := fmt.Fprintf(
			writer,
			"%s\t%s\t%d\t%s\t%s\n",
			row.Email,
			row.LastStep,
			row.CompletedSteps,
			strconv.FormatBool(row.Completed),
			row.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return err
		}
	}

	if table == nil {
		return nil
	}
	if err := table.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\n%d lead(s) shown, %d confirmed user document(s)\n", len(rows), users)
	return err
}
