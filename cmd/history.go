package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		results, err := s.QuizResultRepo().RecentResults(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No quizzes taken yet.")
			return nil
		}

		fmt.Printf("%-16s  %-24s  %-6s  %7s  %6s  %6s  %s\n",
			"Completed", "Subject", "Level", "Score", "Points", "Pct", "Grade")
		fmt.Println(rule(84))
		for _, r := range results {
			fmt.Printf("%-16s  %-24s  %-6s  %7s  %6d  %5.0f%%  %s\n",
				r.CompletedAt.Local().Format("2006-01-02 15:04"),
				truncate(r.SubjectName, 24),
				r.Difficulty,
				fmt.Sprintf("%d/%d", r.Score, r.TotalQuestions),
				r.TotalPoints,
				r.Percentage,
				r.Grade,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "Number of results to show")
}
