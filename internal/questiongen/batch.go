package questiongen

import (
	"context"
	"fmt"

	"github.com/abhisek/brainmaxx/internal/quiz"
)

// GenerateBatch calls gen n times in sequence. progress, if non-nil, is
// called after each question with the number done so far. It stops at the
// first failure and returns the questions produced before it together with
// the error.
func GenerateBatch(ctx context.Context, gen Generator, input GenerateInput, n int, progress func(done, total int)) ([]quiz.Question, error) {
	out := make([]quiz.Question, 0, max(n, 0))
	for i := range n {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		q, err := gen.Generate(ctx, input)
		if err != nil {
			return out, fmt.Errorf("question %d of %d: %w", i+1, n, err)
		}
		out = append(out, *q)

		if progress != nil {
			progress(len(out), n)
		}
	}
	return out, nil
}
