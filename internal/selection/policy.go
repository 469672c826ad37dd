// Package selection picks the questions served for a subject and difficulty.
package selection

import (
	"math/rand/v2"
	"sync"

	"github.com/abhisek/brainmaxx/internal/quiz"
)

// DefaultTarget is the number of questions in a quiz.
const DefaultTarget = 10

// Policy selects up to Target questions, backfilling from adjacent
// difficulties when the exact pool is short.
type Policy struct {
	target int

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Policy.
type Option func(*Policy)

// WithTarget sets the quiz size. Non-positive values are ignored.
func WithTarget(n int) Option {
	return func(p *Policy) {
		if n > 0 {
			p.target = n
		}
	}
}

// WithRand sets the random source used for shuffling.
func WithRand(r *rand.Rand) Option {
	return func(p *Policy) {
		p.rng = r
	}
}

// New creates a Policy.
func New(opts ...Option) *Policy {
	p := &Policy{target: DefaultTarget}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return p
}

// Target returns the quiz size.
func (p *Policy) Target() int {
	return p.target
}

// Primary returns the selectable questions at exactly d.
func Primary(s quiz.Subject, d quiz.Difficulty) []quiz.Question {
	all := s.QuestionsFor(d)
	out := all[:0]
	for _, q := range all {
		if q.Selectable() {
			out = append(out, q)
		}
	}
	return out
}

// Select returns at most Target questions for d.
func (p *Policy) Select(s quiz.Subject, d quiz.Difficulty) []quiz.Question {
	return p.Backfill(s, d, Primary(s, d))
}

// Plan reports how Select would assemble a quiz for d.
func (p *Policy) Plan(s quiz.Subject, d quiz.Difficulty) Plan {
	return p.plan(d, len(Primary(s, d)))
}

func (p *Policy) plan(d quiz.Difficulty, primary int) Plan {
	deficit := max(p.target-primary, 0)
	return Plan{
		Difficulty: d,
		Target:     p.target,
		Primary:    primary,
		Deficit:    deficit,
		Draws:      backfillDraws(d, deficit),
	}
}

// Backfill completes primary to Target. A full primary pool is shuffled and
// cut. Otherwise each planned draw takes an independent shuffled sample from
// its pool, and the combined list is shuffled again and truncated. The
// result may be shorter than Target.
func (p *Policy) Backfill(s quiz.Subject, d quiz.Difficulty, primary []quiz.Question) []quiz.Question {
	out := make([]quiz.Question, len(primary), max(len(primary), p.target))
	copy(out, primary)

	if len(out) >= p.target {
		p.shuffle(out)
		return out[:p.target]
	}

	for _, draw := range p.plan(d, len(out)).Draws {
		pool := Primary(s, draw.From)
		p.shuffle(pool)
		out = append(out, pool[:min(draw.Count, len(pool))]...)
	}

	p.shuffle(out)
	if len(out) > p.target {
		out = out[:p.target]
	}
	return out
}

// NeedsGeneration reports whether a request should trigger on-demand
// generation: hard difficulty, an empty hard pool and an eligible subject.
func NeedsGeneration(primary []quiz.Question, d quiz.Difficulty, eligible bool) bool {
	return eligible && d == quiz.Hard && len(primary) == 0
}

func (p *Policy) shuffle(qs []quiz.Question) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rng.Shuffle(len(qs), func(i, j int) {
		qs[i], qs[j] = qs[j], qs[i]
	})
}
