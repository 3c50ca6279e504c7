package main

import (
	"github.com/spf13/cobra"

	"github.com/ochairo/cppgrade/internal/domain/entities"
	"github.com/ochairo/cppgrade/internal/domain/interfaces"
	"github.com/ochairo/cppgrade/internal/external-adapters/console"
	"github.com/ochairo/cppgrade/internal/external-adapters/sqlite"
)

func newHistoryCmd(setup func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "history <db> <project>",
		Short: "Show earlier report results of one project",
		Long: `Reads a database filled by "cppgrade report --db" and prints every
recorded run of the project, oldest first. The project is named as in the
report's Project column.

Examples:
  cppgrade history history.db section1/alice`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			return runHistory(a, args[0], args[1])
		},
	}
}

func runHistory(a *app, dbPath, project string) error {
	store, err := sqlite.OpenExisting(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.logger.Warn("failed to close database", interfaces.F("error", err))
		}
	}()

	rows, err := store.History(project)
	if err != nil {
		return err
	}
	entries := make([]entities.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.Entry())
	}
	return console.NewReportTable(nil).PrintHistory(a.stdout, project, entries)
}
