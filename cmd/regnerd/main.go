package main

import (
	"fmt"
	"os"
	"time"

	"regnerd/internal/cache"
	"regnerd/internal/config"
	"regnerd/internal/logging"
	"regnerd/internal/openfda"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose   bool
	apiKey    string
	workspace string
	timeout   time.Duration
	noCache   bool

	// Resolved config for the invocation
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:     "regnerd",
	Version: "1.0.0",
	Short:   "regNERD - 510(k) review toolkit for the terminal",
	Long: `regNERD is a CLI companion for 510(k) premarket review work.

It carries an embedded skill corpus (review structure, decision sequence,
deficiency-letter boilerplate), a typed openFDA client for predicate and
classification searches, product-code and consult-trigger lookups, and a
deficiency letter drafter.

The skill corpus installs into Claude, Codex, or generic agent homes with
'regnerd skill install'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			workspace, _ = os.Getwd()
		}
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("category logging unavailable", zap.Error(err))
		}
		logging.Boot("regnerd starting (workspace=%s)", workspace)

		cfg, err = config.Load(config.DefaultPath(workspace))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return cfg.Validate()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// newAPIClient builds an openFDA client from flags and config. The
// returned cache store is nil when caching is off; callers must Close it.
func newAPIClient() (*openfda.Client, *cache.Store, error) {
	key := cfg.ResolveAPIKey(apiKey)

	opts := []openfda.Option{
		openfda.WithAPIKey(key),
		openfda.WithMaxRetries(cfg.API.MaxRetries),
	}
	if cfg.API.BaseURL != "" {
		opts = append(opts, openfda.WithBaseURL(cfg.API.BaseURL))
	}
	if timeout > 0 {
		opts = append(opts, openfda.WithTimeout(timeout))
	} else {
		opts = append(opts, openfda.WithTimeout(cfg.GetAPITimeout()))
	}

	var store *cache.Store
	if cfg.Cache.Enabled && !noCache {
		var err error
		store, err = cache.Open(cachePath(), cfg.GetCacheTTL())
		if err != nil {
			// A broken cache should not block queries.
			logger.Warn("response cache unavailable", zap.Error(err))
			store = nil
		}
	}
	if store != nil {
		opts = append(opts, openfda.WithCache(store))
	}

	return openfda.NewClient(opts...), store, nil
}

func cachePath() string {
	if cfg.Cache.Path != "" {
		return cfg.Cache.Path
	}
	return workspace + "/.regnerd/cache.db"
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "openFDA API key (overrides env and key file)")
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", "", "Workspace directory (default: current directory)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (default: from config)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Bypass the response cache")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(decisionCmd)
	rootCmd.AddCommand(triggersCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(letterCmd)
	rootCmd.AddCommand(complianceCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(browseCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
