package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openswoop/syllabank/pkg/database"
	"github.com/openswoop/syllabank/pkg/report"
)

var (
	outFile string
	noDb    bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Build the term's instructor roster as a CSV file",
	Long: `Builds the instructor roster for a term and writes it to a CSV file
with the columns Last_Name, First_Name, Term, Course and Email. The
results will also be inserted into a local SQLite database.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		term, err := resolveTerm(cmd)
		if err != nil {
			return err
		}

		rows, err := buildRoster(term)
		if err != nil {
			return err
		}
		logger.Info("Found instructors", zap.Int("rows", len(rows)))

		// Write to CSV
		if outFile == "" {
			outFile = cfg.Output
		}
		if err := report.WriteRoster(outFile, rows); err != nil {
			return err
		}
		logger.Info("Wrote to file", zap.String("file", outFile))

		if noDb {
			return nil
		}

		// Save all the data to the database
		sqlite, err := database.NewSqlite(cfg.Database)
		if err != nil {
			return err
		}
		defer sqlite.Close()
		if err := sqlite.SaveRoster(term, rows); err != nil {
			return err
		}
		saved, err := sqlite.Rosters(term)
		if err != nil {
			return err
		}
		logger.Info("Saved to database", zap.String("file", cfg.Database), zap.Int("rows", len(saved)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&outFile, "out", "o", "", "CSV file to write (default: the configured output)")
	fetchCmd.Flags().BoolVar(&noDb, "no-db", false, "Skip saving the roster to the local database (default: false)")
}
