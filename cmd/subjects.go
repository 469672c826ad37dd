package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainmaxx/internal/quiz"
)

var subjectsCmd = &cobra.Command{
	Use:     "subjects",
	Aliases: []string{"ls"},
	Short:   "List subjects and their question counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSubjects(cmd)
	},
}

func runSubjects(cmd *cobra.Command) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	subjects := a.svc.Subjects()
	if len(subjects) == 0 {
		fmt.Println("No subjects available.")
		return nil
	}

	fmt.Println(titleStyle.Render("Subjects"))
	fmt.Printf("%-24s  %-28s  %5s  %5s  %5s  %6s\n", "ID", "Name", "Easy", "Med", "Hard", "Total")
	fmt.Println(rule(86))
	for _, s := range subjects {
		counts := s.CountsByDifficulty()
		line := fmt.Sprintf("%-24s  %-28s  %5d  %5d  %5d  %6d",
			truncate(s.ID, 24), truncate(s.Name, 28),
			counts[quiz.Easy], counts[quiz.Medium], counts[quiz.Hard],
			s.TotalQuestions())
		if s.IsGenerated() {
			line += "  " + accentStyle.Render("AI")
		}
		fmt.Println(line)
	}
	return nil
}
