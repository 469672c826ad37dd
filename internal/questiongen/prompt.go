package questiongen

import (
	"fmt"
	"strings"
)

const replyContract = `Return the response in this exact JSON format:
{
    "question": "The question text here",
    "options": [
        "First option text",
        "Second option text",
        "Third option text",
        "Fourth option text"
    ],
    "correct_answer": "A",
    "explanations": {
        "A": "Explanation for first option",
        "B": "Explanation for second option",
        "C": "Explanation for third option",
        "D": "Explanation for fourth option"
    }
}

Important formatting rules:
1. Options must be a simple array of strings without letter prefixes
2. Correct answer must be a single uppercase letter (A, B, C, or D)
3. Explanations must use uppercase letters as keys
4. All text fields must be plain strings without formatting`

const userPrompt = "Generate a question and return it in the specified JSON format only, with no additional text or formatting."

// buildSystemPrompt returns the system instruction. A custom prompt
// replaces the default preamble; the reply contract is always appended so
// the parser's expectations hold either way.
func buildSystemPrompt(input GenerateInput) string {
	var b strings.Builder

	if custom := strings.TrimSpace(input.CustomPrompt); custom != "" {
		b.WriteString(custom)
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "Subject: %s\nDifficulty: %s\n\n", input.Subject, input.Difficulty.DisplayName())
	} else {
		b.WriteString("You are an AI that generates SAT practice questions.\n")
		b.WriteString("Generate one SAT-style multiple choice question that matches these criteria:\n")
		fmt.Fprintf(&b, "- Subject: %s\n", input.Subject)
		fmt.Fprintf(&b, "- Difficulty: %s\n", input.Difficulty.DisplayName())
		b.WriteString("- Format: Multiple choice with 4 options\n")
		b.WriteString("- Include detailed explanations for correct and incorrect answers\n\n")
	}

	b.WriteString(replyContract)
	return b.String()
}
