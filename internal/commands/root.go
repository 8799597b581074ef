package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gastozen-dev/gastozen/internal/assistant"
	"github.com/gastozen-dev/gastozen/internal/buildinfo"
	"github.com/gastozen-dev/gastozen/internal/config"
	"github.com/gastozen-dev/gastozen/internal/ledger"
	"github.com/gastozen-dev/gastozen/internal/store"
)

// DrafterFactory builds the drafting assistant for a configuration.
type DrafterFactory func(ctx context.Context, cfg config.AssistantConfig) (assistant.Drafter, error)

// Option customizes the root command.
type Option func(*app)

// WithDrafterFactory replaces the Gemini drafter.
func WithDrafterFactory(f DrafterFactory) Option {
	return func(a *app) { a.newDrafter = f }
}

// WithClock sets the source of "today" for default dates and summaries.
func WithClock(now func() time.Time) Option {
	return func(a *app) { a.now = now }
}

// app holds per-invocation state shared by all subcommands.
type app struct {
	v          *viper.Viper
	cfgPath    string
	cfg        *config.Config
	log        *slog.Logger
	newDrafter DrafterFactory
	now        func() time.Time
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{
		v:   viper.New(),
		log: slog.Default(),
		newDrafter: func(ctx context.Context, cfg config.AssistantConfig) (assistant.Drafter, error) {
			return assistant.NewGemini(ctx, cfg)
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	rootCmd := &cobra.Command{
		Use:     "gastozen",
		Short:   "Personal income and expense tracker",
		Version: buildinfo.Summary(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgPath, "config", config.FileName, "config file; its directory holds the data")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = a.v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	a.v.SetEnvPrefix(config.EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(newTxCommand(a))
	rootCmd.AddCommand(newAccountCommand(a))
	rootCmd.AddCommand(newCategoryCommand(a))
	rootCmd.AddCommand(newSummaryCommand(a))
	rootCmd.AddCommand(newExportCommand(a))
	rootCmd.AddCommand(newImportCommand(a))
	rootCmd.AddCommand(newDraftCommand(a))
	rootCmd.AddCommand(newThemeCommand(a))
	rootCmd.AddCommand(newResetCommand(a))

	return rootCmd
}

// setup loads .env, configures logging and reads the config file. A missing
// config file is fine: defaults plus environment overrides apply.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	abs, err := filepath.Abs(a.cfgPath)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}
	a.cfgPath = abs
	_ = godotenv.Load(filepath.Join(a.dataDir(), ".env"))

	logger, err := newLogger(cmd.ErrOrStderr(), a.v.GetString("logging.level"), a.v.GetString("logging.format"))
	if err != nil {
		return err
	}
	a.log = logger
	slog.SetDefault(logger)

	cfg, err := config.Load(a.cfgPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg, err = config.FromEnv()
		if err != nil {
			return err
		}
		a.log.Debug("no config file, using defaults", "path", a.cfgPath)
	case err != nil:
		return err
	}
	a.cfg = cfg
	return nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{Level: slogLevel}
	switch format {
	case "text", "console":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
}

// dataDir is the directory holding the config file. Relative store paths
// resolve against it.
func (a *app) dataDir() string {
	return filepath.Dir(a.cfgPath)
}

// withEngine opens the configured store and an engine over it for the
// duration of fn.
func (a *app) withEngine(ctx context.Context, fn func(*ledger.Engine) error) error {
	st, err := store.Open(a.cfg.Store, a.dataDir())
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			a.log.Warn("closing store", "error", err)
		}
	}()

	e, err := ledger.Open(ctx, st, ledger.WithLogger(a.log))
	if err != nil {
		return err
	}
	return fn(e)
}
