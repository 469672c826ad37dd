package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainmaxx/internal/quiz"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [subject-id]",
	Short: "Delete AI-generated subjects",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if all == (len(args) == 1) {
			return fmt.Errorf("pass either a subject id or --all")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if all {
			n := a.svc.DeleteAllGeneratedSubjects(ctx)
			fmt.Printf("Deleted %d AI subject(s).\n", n)
			return nil
		}

		id := args[0]
		if !quiz.IsGeneratedID(id) {
			return fmt.Errorf("%q is a built-in subject; only AI subjects (%s...) can be deleted", id, quiz.GeneratedPrefix)
		}
		if !a.svc.DeleteGeneratedSubject(ctx, id) {
			return fmt.Errorf("no AI subject %q", id)
		}
		fmt.Printf("Deleted %s.\n", id)
		return nil
	},
}

func init() {
	deleteCmd.Flags().Bool("all", false, "Delete every AI subject")
}
