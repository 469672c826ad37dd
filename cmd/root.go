package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainmaxx/internal/config"
	"github.com/abhisek/brainmaxx/internal/corpus"
	"github.com/abhisek/brainmaxx/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "brainmaxx",
	Short: "Quiz practice with AI-generated questions",
	Long: `Brainmaxx serves multiple-choice quizzes from a bundled question bank and
tops it up with AI-generated questions when a pool runs dry.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSubjects(cmd)
	},
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: ./brainmaxx.yaml or $XDG_CONFIG_HOME/brainmaxx/brainmaxx.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides BRAINMAXX_DB env var)")
	rootCmd.PersistentFlags().String("cache", "", "Path to the question cache file")

	rootCmd.AddCommand(subjectsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(reloadCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then storage.db_path from config, then BRAINMAXX_DB env var, then the
// default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Storage.DBPath != "" {
		return cfg.Storage.DBPath, store.EnsureDir(cfg.Storage.DBPath)
	}
	return store.DefaultDBPath()
}

// resolveCachePath applies the same precedence to the question cache.
func resolveCachePath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("cache"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Storage.CachePath != "" {
		return cfg.Storage.CachePath, store.EnsureDir(cfg.Storage.CachePath)
	}
	return corpus.DefaultCachePath()
}
