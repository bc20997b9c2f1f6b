package cmd

import (
	"fmt"
	"os"

	"github.com/gocolly/colly/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/openswoop/syllabank/pkg/catalog"
	"github.com/openswoop/syllabank/pkg/config"
	"github.com/openswoop/syllabank/pkg/directory"
	"github.com/openswoop/syllabank/pkg/roster"
)

var (
	c      *colly.Collector
	cfg    *config.Config
	logger *zap.Logger

	cfgFile string
	verbose bool
	year    string
	season  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "syllabank",
	Short: "A tool for collecting a term's instructor roster for syllabus surveys",
	Long: `Pulls every section of the configured subjects for a term from the
course catalog, keeps one row per instructor with all of their courses,
and looks up each instructor's full name and email address. The roster
can be written to a CSV file for the survey tool or sent to BigQuery.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("Run failed", zap.Error(err))
			_ = logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./syllabank.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging (default: false)")
	rootCmd.PersistentFlags().StringVar(&year, "year", "", "Four digit year of the term, prompted for if empty")
	rootCmd.PersistentFlags().StringVar(&season, "term", "", "Term name such as Spring, prompted for if empty")
}

func setup(cmd *cobra.Command, args []string) error {
	// Initialize logger
	zapConfig := zap.NewProductionConfig()
	zapConfig.Encoding = "console"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	var err error
	logger, err = zapConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	c = colly.NewCollector()
	c.SetRequestTimeout(cfg.Catalog.Timeout)
	return nil
}

// resolveTerm takes the term from the flags, prompting for whatever is missing
func resolveTerm(cmd *cobra.Command) (roster.Term, error) {
	p := prompter{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
	return p.term(year, season, cfg.TermTable())
}

func buildRoster(term roster.Term) ([]roster.Row, error) {
	creds, err := config.LoadCredentials(cfg.Credentials)
	if err != nil {
		return nil, err
	}

	cat := catalog.New(c, cfg.Catalog.SearchUrl, cfg.Catalog.DetailsUrl, logger)
	p := roster.Pipeline{
		Sections:  cat,
		Names:     cat,
		Directory: directory.New(cfg.DirectoryConfig(), creds, logger),
		Subjects:  cfg.Subjects,
		Logger:    logger,
	}
	return p.Run(term)
}
