package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainmaxx/internal/provision"
)

var generateCmd = &cobra.Command{
	Use:   "generate <subject name>",
	Short: "Generate an AI curriculum for a new subject",
	Long: `Generate a batch of multiple-choice questions for a subject and store it
as an AI subject (id "ai-<slug>"). Generating a name that already exists
replaces that subject.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		description, _ := cmd.Flags().GetString("description")
		icon, _ := cmd.Flags().GetString("icon")
		count, _ := cmd.Flags().GetInt("count")
		diffVal, _ := cmd.Flags().GetString("difficulty")

		d, err := parseDifficultyFlag(diffVal)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("Generating %s questions for %s...\n", d, accentStyle.Render(name))
		subject, err := a.svc.GenerateCurriculum(cmd.Context(), provision.CurriculumRequest{
			Name:        name,
			Description: description,
			IconName:    icon,
			Difficulty:  d,
			Count:       count,
			Progress: func(done, total int) {
				fmt.Printf("  [%d/%d]\n", done, total)
			},
		})
		if err != nil {
			return fmt.Errorf("generate %q: %s", name, describeGenerationError(err))
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Created %s with %d questions.", subject.ID, subject.TotalQuestions())))
		fmt.Printf("Start it with: brainmaxx play %s -d %s\n", subject.ID, d)
		return nil
	},
}

func init() {
	generateCmd.Flags().String("description", "", "Subject description")
	generateCmd.Flags().String("icon", "sparkles", "Icon name")
	generateCmd.Flags().IntP("count", "c", provision.CurriculumSize, "Number of questions")
	generateCmd.Flags().StringP("difficulty", "d", "medium", "Difficulty: easy, medium or hard")
}
