package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openswoop/syllabank/pkg/database"
	"github.com/openswoop/syllabank/pkg/report"
)

var dryRun bool
var debug bool

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Build the term's instructor roster and send it to BigQuery",
	Long: `This command takes a year and term (such as 2023 Spring), builds the
instructor roster and merges it into BigQuery. Subscribers are notified
through PubSub once the roster is refreshed.`,
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

		// If the debug flag is set, output the CSV and exit early
		if debug {
			name := fmt.Sprintf("roster_%s.csv", term.Key())
			if err := report.WriteRoster(name, rows); err != nil {
				return err
			}
			logger.Info("Wrote to file", zap.String("file", name))
			return nil
		}

		ctx := context.Background()

		// Insert (merge) the roster
		if !dryRun {
			bq, err := database.NewBigQuery(ctx, cfg.BigQuery.Project, cfg.BigQuery.Dataset)
			if err != nil {
				return fmt.Errorf("failed to connect to bigquery: %w", err)
			}
			defer bq.Close()
			if err := bq.SaveRoster(term, rows); err != nil {
				return fmt.Errorf("failed to insert roster: %w", err)
			}
			logger.Info("Merged roster into BigQuery", zap.Int("rows", len(rows)))
		} else {
			logger.Info("Dry run: data will not be inserted")
		}

		// Connect to PubSub
		client, err := pubsub.NewClient(ctx, cfg.BigQuery.Project)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		defer client.Close()

		msg, err := json.Marshal(struct {
			Term string `json:"term"`
		}{term.Key()})
		if err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}

		// Publish an event
		topic := client.Topic(cfg.PubSub.Topic)
		defer topic.Stop()
		res := topic.Publish(ctx, &pubsub.Message{Data: msg})
		if _, err := res.Get(ctx); err != nil {
			return fmt.Errorf("failed to publish message: %w", err)
		}

		logger.Info("Done.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run without modifying the database (default: false)")
	syncCmd.Flags().BoolVar(&debug, "debug", false, "Dump the roster as a CSV instead of syncing (default: false)")
}
