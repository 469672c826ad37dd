package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/brainmaxx/internal/store"
)

func TestUsageRows_AppendsTotal(t *testing.T) {
	rows := usageRows([]store.LLMUsage{
		{Purpose: "question", Calls: 3, InputTokens: 300, OutputTokens: 120, AvgLatencyMs: 900},
		{Purpose: "curriculum", Calls: 1, InputTokens: 100, OutputTokens: 40, AvgLatencyMs: 1200},
	})

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"question", "3", "300", "120", "420", "900"}, rows[0])
	assert.Equal(t, []string{"TOTAL", "4", "400", "160", "560", ""}, rows[2])
}

func TestCostRows(t *testing.T) {
	rows, unpriced := costRows([]store.LLMModelUsage{
		{Model: "gpt-4o-mini", Calls: 2, InputTokens: 1_000_000, OutputTokens: 1_000_000},
		{Model: "openai/gpt-4o", Calls: 1, InputTokens: 1_000_000},
		{Model: "mock", Calls: 5, InputTokens: 10, OutputTokens: 10},
	})

	require.Len(t, rows, 4)
	assert.Equal(t, "$0.75", rows[0][4])
	assert.Equal(t, "$2.50", rows[1][4])
	assert.Equal(t, "?", rows[2][4])
	assert.Equal(t, []string{"mock"}, unpriced)
	assert.Equal(t, []string{"TOTAL (partial)", "", "", "", "$3.25"}, rows[3])
}

func TestCostRows_AllPriced(t *testing.T) {
	rows, unpriced := costRows([]store.LLMModelUsage{{Model: "gemini-2.0-flash", Calls: 1, InputTokens: 1000}})
	assert.Empty(t, unpriced)
	assert.Equal(t, "TOTAL", rows[len(rows)-1][0])
	assert.Equal(t, "$0.0001", rows[len(rows)-1][4])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "gpt", truncate("gpt-4o", 3))
	assert.Equal(t, "gpt-4o", truncate("gpt-4o", 28))
}
