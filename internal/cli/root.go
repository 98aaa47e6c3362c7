// Package cli provides the command-line interface for the diary application.
package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"finguide/internal/calendar"
	"finguide/internal/coach"
	"finguide/internal/config"
	"finguide/internal/logging"
	"finguide/internal/quotes"
	"finguide/internal/store"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.DataStore
	Keyer   calendar.Keyer
	Cache   *quotes.Cache
	Fetcher quotes.Fetcher
	LLM     coach.LLMClient
	Coach   *coach.Generator
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	loc, err := cfg.Location()
	if err != nil {
		// Validate already rejected bad zones; nil falls back to UTC.
		logger.Warn().Err(err).Msg("Reference timezone unavailable, using UTC")
	}
	app.Keyer = calendar.NewKeyer(loc)

	dbPath := config.DefaultConfigDir() + "/finguide.db"
	dataStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = dataStore
		app.Cache = quotes.NewCache(dataStore, cfg.Quotes.SnapshotKey, logger)
		logger.Debug().Msg("SQLite store initialized")
	}

	app.Fetcher = quotes.NewClient(cfg.Quotes.APIURL, logger)

	if cfg.Credentials.OpenAI.APIKey != "" {
		app.LLM = coach.NewOpenAIClient(cfg.Credentials.OpenAI.APIKey, cfg.Coach.Model)
		app.Coach = coach.NewGenerator(app.LLM,
			time.Duration(cfg.Coach.CooldownFallback)*time.Second, logger)
		logger.Debug().Str("model", cfg.Coach.Model).Msg("OpenAI LLM client initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "finguide",
		Short: "FinGuide - paper-trading diary with AI coaching",
		Long: `FinGuide is a paper-trading education tool: simulate stock trades,
journal the emotional state and reasoning around each trade, and get
AI-generated coaching feedback and weekly reports.

Use 'finguide help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/finguide)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addDiaryCommands(rootCmd, app)
	addCoverageCommands(rootCmd, app)
	addReportCommands(rootCmd, app)
	addQuoteCommands(rootCmd, app)
	addVersionCommand(rootCmd)

	return rootCmd
}

func addVersionCommand(rootCmd *cobra.Command) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			NewOutput(cmd).Printf("finguide %s\n", Version)
		},
	})
}
