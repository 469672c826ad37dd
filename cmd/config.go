package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainmaxx/internal/config"
	"github.com/abhisek/brainmaxx/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		path := config.DefaultPath()
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		if err := store.EnsureDir(path); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(config.Example), 0o600); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Wrote %s\n", path)
		fmt.Println("Replace YOUR_API_KEY_HERE with your API key to enable question generation.")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		file := cfg.File
		if file == "" {
			file = "(none, using defaults)"
		}
		key := "not set"
		if cfg.LLM.APIKey() != "" {
			key = "set"
		}

		fmt.Printf("Config file:   %s\n", file)
		fmt.Printf("Provider:      %s\n", cfg.LLM.Provider)
		fmt.Printf("API key:       %s\n", key)
		fmt.Printf("Timeout:       %s\n", cfg.LLM.Timeout)
		fmt.Printf("Target:        %d questions\n", cfg.Selection.Target)
		fmt.Printf("Eligible:      %v (AI subjects: %v)\n", cfg.Selection.Eligible, cfg.Selection.GeneratedEligible)
		fmt.Printf("Log:           %s/%s\n", cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
