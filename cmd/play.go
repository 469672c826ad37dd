package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainmaxx/internal/provision"
	"github.com/abhisek/brainmaxx/internal/quiz"
	"github.com/abhisek/brainmaxx/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play <subject-id>",
	Short: "Take a quiz",
	Long: `Take a multiple-choice quiz for a subject at the chosen difficulty.

Answer with the option letter (A, B, ...) or its number. An empty answer
skips the question; "q" ends the quiz early.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringP("difficulty", "d", "medium", "Difficulty: easy, medium or hard")
}

func runPlay(cmd *cobra.Command, args []string) error {
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

	ctx := cmd.Context()
	if err := a.svc.SelectSubject(args[0]); err != nil {
		return err
	}
	a.svc.SetDifficulty(d)
	subject, _ := a.svc.Subject(args[0])

	events, unsubscribe := a.svc.Subscribe()
	pending := a.svc.GetQuestionsForSelection(ctx)

	var out provision.Outcome
wait:
	for {
		select {
		case e := <-events:
			if e.Kind == provision.GenerationStarted {
				fmt.Println(dimStyle.Render("Generating a new question..."))
			}
		case out = <-pending:
			break wait
		}
	}
	unsubscribe()

	if out.Err != nil {
		return out.Err
	}
	if out.GenerationErr != nil {
		fmt.Println(errorStyle.Render("Could not generate a new question: ") + describeGenerationError(out.GenerationErr))
		fmt.Println()
	}
	if len(out.Questions) == 0 {
		fmt.Printf("No %s questions available for %s yet.\n", d, subject.Name)
		return nil
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s · %s", subject.Name, d.DisplayName())))
	fmt.Printf("%d questions\n\n", len(out.Questions))

	result := quiz.QuizResult{
		SubjectID:      subject.ID,
		SubjectName:    subject.Name,
		Difficulty:     d,
		TotalQuestions: len(out.Questions),
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	quit := false
	for i, q := range out.Questions {
		fmt.Println(headingStyle.Render(fmt.Sprintf("── Question %d/%d ──", i+1, len(out.Questions))))
		fmt.Println(q.Content.DisplayText())
		for j, opt := range q.Content.Options {
			fmt.Printf("  %c) %s\n", 'A'+j, opt)
		}

		selected := -1
		for {
			fmt.Print("\nYour answer: ")
			if !scanner.Scan() {
				fmt.Println("\n(input closed)")
				quit = true
				break
			}
			input := strings.TrimSpace(scanner.Text())
			if strings.EqualFold(input, "q") {
				quit = true
				break
			}
			if input == "" {
				break
			}
			idx, ok := parseChoice(input, len(q.Content.Options))
			if !ok {
				fmt.Println(dimStyle.Render("Pick one of the listed options."))
				continue
			}
			selected = idx
			break
		}
		if quit {
			break
		}

		answered := quiz.AnsweredQuestion{Question: q, Selected: selected}
		result.Answers = append(result.Answers, answered)

		switch {
		case selected < 0:
			fmt.Printf("(skipped) Answer: %s\n", q.Content.ScoredAnswer())
		case answered.Correct():
			fmt.Println(successStyle.Render("✓ Correct!"))
		default:
			fmt.Printf("%s Answer: %s\n", errorStyle.Render("✗ Wrong."), q.Content.ScoredAnswer())
		}
		fmt.Println(dimStyle.Render("Explanation: ") + q.Explanation.DisplayText())
		fmt.Println()
	}

	if quit {
		result.TotalQuestions = len(result.Answers)
	}
	if result.TotalQuestions == 0 {
		return nil
	}

	fmt.Println(headingStyle.Render(fmt.Sprintf("── Summary: %d/%d correct ──", result.Score(), result.TotalQuestions)))
	fmt.Printf("Points: %d   Score: %.0f%%   Grade: %s\n",
		result.TotalPoints(), result.Percentage(), accentStyle.Render(result.Grade()))

	if err := a.db.QuizResultRepo().SaveResult(ctx, resultRecord(result)); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// parseChoice maps an answer typed as a letter ("b", "B)") or a 1-based
// number to an option index.
func parseChoice(input string, n int) (int, bool) {
	input = strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(input)), ")")
	if len(input) == 1 && input[0] >= 'A' && input[0] <= 'Z' {
		idx := int(input[0] - 'A')
		return idx, idx < n
	}
	num, err := strconv.Atoi(input)
	if err != nil || num < 1 || num > n {
		return 0, false
	}
	return num - 1, true
}

// parseDifficultyFlag is stricter than quiz.ParseDifficulty: a typo on the
// command line is an error, not Medium.
func parseDifficultyFlag(s string) (quiz.Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "e", "easy":
		return quiz.Easy, nil
	case "m", "medium":
		return quiz.Medium, nil
	case "h", "hard":
		return quiz.Hard, nil
	default:
		return 0, fmt.Errorf("invalid difficulty %q: must be easy, medium or hard", s)
	}
}

func resultRecord(r quiz.QuizResult) store.ResultRecord {
	return store.ResultRecord{
		SubjectID:      r.SubjectID,
		SubjectName:    r.SubjectName,
		Difficulty:     r.Difficulty.String(),
		Score:          r.Score(),
		TotalQuestions: r.TotalQuestions,
		TotalPoints:    r.TotalPoints(),
		Percentage:     r.Percentage(),
		Grade:          r.Grade(),
	}
}
