package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/brainmaxx/internal/llm"
	"github.com/abhisek/brainmaxx/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect question generation requests and usage",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generation requests",
	RunE:  runLLMList,
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the captured request and reply of one generation request",
	Args:  cobra.ExactArgs(1),
	RunE:  runLLMView,
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE:  runLLMStats,
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (question or curriculum)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}

func runLLMList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	purpose, _ := cmd.Flags().GetString("purpose")

	db, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	events, err := db.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}
	if len(events) == 0 {
		fmt.Println(dimStyle.Render("No generation requests recorded."))
		return nil
	}

	fmt.Println(renderTable([]string{"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK"}, eventRows(events)))
	return nil
}

func runLLMView(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid event id %q", args[0])
	}

	db, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	e, err := db.EventRepo().GetLLMEvent(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if e == nil {
		return fmt.Errorf("event %d not found", id)
	}

	fields := [][2]string{
		{"ID", strconv.Itoa(e.ID)},
		{"Time", e.Timestamp.Local().Format(timeLayout)},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Purpose", e.Purpose},
		{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
		{"Success", strconv.FormatBool(e.Success)},
	}
	if e.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", errorStyle.Render(e.ErrorMessage)})
	}
	for _, f := range fields {
		fmt.Printf("%s %s\n", dimStyle.Render(fmt.Sprintf("%-9s", f[0]+":")), f[1])
	}

	printCaptured("REQUEST", e.RequestBody)
	printCaptured("RESPONSE", e.ResponseBody)
	return nil
}

func printCaptured(label, body string) {
	fmt.Println()
	fmt.Println(headingStyle.Render(label))
	fmt.Println(rule(60))
	if body == "" {
		fmt.Println(dimStyle.Render("(not captured)"))
		return
	}
	fmt.Println(body)
}

func runLLMStats(cmd *cobra.Command, args []string) error {
	db, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	byPurpose, err := db.EventRepo().LLMUsageByPurpose(ctx)
	if err != nil {
		return fmt.Errorf("query usage: %w", err)
	}
	if len(byPurpose) == 0 {
		fmt.Println(dimStyle.Render("No generation usage recorded yet."))
		return nil
	}

	fmt.Println(titleStyle.Render("Usage by purpose"))
	fmt.Println(renderTable([]string{"Purpose", "Calls", "Input", "Output", "Total", "Avg ms"}, usageRows(byPurpose)))

	byModel, err := db.EventRepo().LLMUsageByModel(ctx)
	if err != nil {
		return fmt.Errorf("query model usage: %w", err)
	}
	if len(byModel) == 0 {
		return nil
	}

	rows, unpriced := costRows(byModel)
	fmt.Println()
	fmt.Println(titleStyle.Render("Estimated cost (USD)"))
	fmt.Println(renderTable([]string{"Model", "Calls", "Input", "Output", "Cost"}, rows))
	if len(unpriced) > 0 {
		fmt.Println(dimStyle.Render("Pricing unavailable for: " + strings.Join(unpriced, ", ")))
	}
	return nil
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			cell := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return cell.Inherit(headingStyle)
			}
			return cell
		}).
		String()
}

func eventRows(events []store.LLMEvent) [][]string {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		ok := successStyle.Render("✓")
		if !e.Success {
			ok = errorStyle.Render("✗")
		}
		rows = append(rows, []string{
			strconv.Itoa(e.ID),
			e.Timestamp.Local().Format(timeLayout),
			e.Purpose,
			truncate(e.Model, 28),
			strconv.Itoa(e.InputTokens),
			strconv.Itoa(e.OutputTokens),
			strconv.FormatInt(e.LatencyMs, 10),
			ok,
		})
	}
	return rows
}

// usageRows renders per-purpose usage followed by a TOTAL row.
func usageRows(usage []store.LLMUsage) [][]string {
	rows := make([][]string, 0, len(usage)+1)
	var calls, in, out int
	for _, u := range usage {
		rows = append(rows, []string{
			u.Purpose,
			strconv.Itoa(u.Calls),
			strconv.Itoa(u.InputTokens),
			strconv.Itoa(u.OutputTokens),
			strconv.Itoa(u.InputTokens + u.OutputTokens),
			strconv.FormatInt(u.AvgLatencyMs, 10),
		})
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	return append(rows, []string{"TOTAL", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(out), strconv.Itoa(in + out), ""})
}

// costRows prices each model's usage. Models without a known price show "?"
// and mark the total as partial.
func costRows(usage []store.LLMModelUsage) (rows [][]string, unpriced []string) {
	var total float64
	for _, u := range usage {
		price := "?"
		if cost := llm.LookupCost(u.Model); cost != nil {
			c := cost.Cost(u.InputTokens, u.OutputTokens)
			total += c
			price = formatCost(c)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		rows = append(rows, []string{
			truncate(u.Model, 32),
			strconv.Itoa(u.Calls),
			strconv.Itoa(u.InputTokens),
			strconv.Itoa(u.OutputTokens),
			price,
		})
	}

	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	rows = append(rows, []string{label, "", "", "", formatCost(total)})
	return rows, unpriced
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
