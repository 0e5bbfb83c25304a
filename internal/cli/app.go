// Package cli provides the command-line interface of the advisor.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"MarketAdvisor/internal/advisor"
	"MarketAdvisor/internal/config"
	"MarketAdvisor/internal/logging"
	"MarketAdvisor/internal/store"
)

const defaultConfigPath = "configs/config.yaml"

// App holds what every subcommand shares. It is populated by the root
// command's pre-run hook.
type App struct {
	ConfigPath string
	Config     *config.Config
	Store      store.Store
	Engine     *advisor.Engine

	closers []func()
}

// Close releases the store and flushes the logger, newest first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) init() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: load .env: %v\n", err)
	}

	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	a.Config = cfg

	syncLog, err := logging.Setup(logging.Options{
		Level:      cfg.Log.Level,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxAge:     cfg.Log.MaxAge,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	a.closers = append(a.closers, syncLog)

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	a.Store = st
	a.closers = append(a.closers, closeStore)

	a.Engine = advisor.New(st,
		advisor.WithPeriod(cfg.Analysis.PeriodDays),
		advisor.WithCache(cfg.Analysis.CacheTTL),
	)
	zap.L().Debug("app initialised",
		zap.String("config", a.ConfigPath),
		zap.String("backend", cfg.Store.Backend))
	return nil
}

func openStore(cfg *config.Config) (store.Store, func(), error) {
	if cfg.Store.Backend == config.BackendSQLite {
		db, err := store.NewSQLiteStore(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return db, func() {
			if err := db.Close(); err != nil {
				zap.L().Warn("close sqlite store", zap.Error(err))
			}
		}, nil
	}
	return store.NewCSVStore(cfg.Store.DataDir), func() {}, nil
}

// NewRootCmd builds the command tree. The caller closes the returned App
// once the command has run.
func NewRootCmd(out io.Writer) (*cobra.Command, *App) {
	app := &App{}
	root := &cobra.Command{
		Use:           "advisor",
		Short:         "Technical analysis advisor for daily equity and crypto series",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
	}
	root.SetOut(out)

	configPath := defaultConfigPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}
	root.PersistentFlags().StringVar(&app.ConfigPath, "config", configPath, "path to config file")

	addAnalysisCommands(root, app)
	addDataCommands(root, app)
	root.AddCommand(newServeCmd(app))
	return root, app
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root, app := NewRootCmd(os.Stdout)
	defer app.Close()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
