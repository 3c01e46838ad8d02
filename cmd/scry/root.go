package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/phrazzld/scry-deck/internal/config"
	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/spf13/cobra"
)

// dotEnvFile is read from the working directory when present. Variables
// already set in the environment win.
const dotEnvFile = ".env"

// rootOptions carries the persistent flags and the state loaded from them
// before any subcommand runs.
type rootOptions struct {
	configPath string
	logLevel   string
	dataDir    string
	driver     string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "scry",
		Short: "Study flashcards with weighted spaced repetition",
		Long: `scry presents flashcards one at a time, favouring cards you struggle with
and cards that are due, and reschedules each card from your rating.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ./config.yaml or ~/.scry/config.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory holding the deck and its backups")
	flags.StringVar(&opts.driver, "driver", "", "storage driver: file, badger or postgres")

	cmd.AddCommand(
		newStudyCmd(opts),
		newStatsCmd(opts),
		newCardsCmd(opts),
		newImportCmd(opts),
		newExportCmd(opts),
		newDeckCmd(opts),
		newBackupCmd(opts),
		newMigrateCmd(opts),
	)
	return cmd
}

// load reads .env, the config file and the environment, applies flag
// overrides and installs the logger.
func (o *rootOptions) load(cmd *cobra.Command) error {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return err
	}

	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("data-dir") {
		cfg.Storage.DataDir = o.dataDir
	}
	if flags.Changed("driver") {
		cfg.Storage.Driver = o.driver
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	log, err := logger.SetupWithWriter(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	log.Debug("configuration loaded",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("data_dir", cfg.Storage.DataDir))

	o.cfg = cfg
	o.logger = log
	cmd.SetContext(logger.WithLogger(cmd.Context(), log))
	return nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
