package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the question cache",
	Long: `Re-read the question cache from disk. With --rebuild the cache is
discarded first and rebuilt from the bundled subjects plus the stored
AI subjects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rebuild, _ := cmd.Flags().GetBool("rebuild")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if rebuild {
			if err := os.Remove(a.cachePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove cache: %w", err)
			}
		}
		a.svc.Reload(cmd.Context())

		fmt.Printf("Loaded %d subjects from %s\n", len(a.svc.Subjects()), a.cachePath)
		return nil
	},
}

func init() {
	reloadCmd.Flags().Bool("rebuild", false, "Discard the cache and rebuild it")
}
