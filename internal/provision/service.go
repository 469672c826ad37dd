// Package provision serves quiz questions for the selected subject and
// difficulty, generating a question on demand when an eligible pool is empty.
package provision

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/brainmaxx/internal/corpus"
	"github.com/abhisek/brainmaxx/internal/questiongen"
	"github.com/abhisek/brainmaxx/internal/quiz"
	"github.com/abhisek/brainmaxx/internal/selection"
)

var (
	// ErrUnknownSubject is returned for an id that is not in the corpus.
	ErrUnknownSubject = errors.New("unknown subject")

	// ErrNoSubject is returned when questions are requested with no
	// subject selected.
	ErrNoSubject = errors.New("no subject selected")

	// ErrGenerationDisabled is returned by GenerateCurriculum when the
	// service has no generator.
	ErrGenerationDisabled = errors.New("question generation is not available")
)

// Options wires a Service.
type Options struct {
	Corpus    *corpus.Store
	Policy    *selection.Policy
	Generator questiongen.Generator // nil disables generation

	// Eligible lists subject ids whose empty hard pool triggers generation.
	Eligible []string

	// GeneratedEligible makes every generated subject eligible as well.
	GeneratedEligible bool

	// Prompt optionally replaces the default generation instruction.
	Prompt string

	Logger *zap.Logger
}

// Result is the outcome of a question request. A failed on-demand
// generation is reported in GenerationErr; Questions still holds whatever
// the corpus could supply and may be shorter than the quiz size.
type Result struct {
	SubjectID  string
	Difficulty quiz.Difficulty
	Questions  []quiz.Question

	// Generated is the question produced on demand, if any.
	Generated *quiz.Question

	GenerationErr error
}

// Outcome carries a Result or the error that prevented it.
type Outcome struct {
	Result
	Err error
}

// Service is the entry point for the presentation layer.
type Service struct {
	corpus            *corpus.Store
	policy            *selection.Policy
	gen               questiongen.Generator
	eligible          map[string]bool
	generatedEligible bool
	prompt            string
	log               *zap.Logger

	mu         sync.RWMutex
	subjectID  string
	difficulty quiz.Difficulty

	flight singleflight.Group
	events broker
}

// New creates a Service. The corpus must already be loaded.
func New(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	policy := opts.Policy
	if policy == nil {
		policy = selection.New()
	}
	eligible := make(map[string]bool, len(opts.Eligible))
	for _, id := range opts.Eligible {
		eligible[id] = true
	}
	return &Service{
		corpus:            opts.Corpus,
		policy:            policy,
		gen:               opts.Generator,
		eligible:          eligible,
		generatedEligible: opts.GeneratedEligible,
		prompt:            opts.Prompt,
		log:               log.Named("provision"),
		difficulty:        quiz.Medium,
	}
}

// Subscribe registers for events. The returned function unsubscribes and
// closes the channel.
func (s *Service) Subscribe() (<-chan Event, func()) {
	return s.events.subscribe()
}

// Subjects returns the current corpus.
func (s *Service) Subjects() []quiz.Subject {
	return s.corpus.Subjects()
}

// Subject looks up a subject by id.
func (s *Service) Subject(id string) (quiz.Subject, bool) {
	return s.corpus.Subject(id)
}

// SelectSubject sets the current subject. An empty id clears the selection.
func (s *Service) SelectSubject(id string) error {
	if id != "" {
		if _, ok := s.corpus.Subject(id); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSubject, id)
		}
	}

	s.mu.Lock()
	s.subjectID = id
	d := s.difficulty
	s.mu.Unlock()

	s.events.publish(Event{Kind: SelectionChanged, SubjectID: id, Difficulty: d})
	return nil
}

// SetDifficulty sets the current difficulty.
func (s *Service) SetDifficulty(d quiz.Difficulty) {
	s.mu.Lock()
	s.difficulty = d
	id := s.subjectID
	s.mu.Unlock()

	s.events.publish(Event{Kind: SelectionChanged, SubjectID: id, Difficulty: d})
}

// Selection returns the current subject id and difficulty.
func (s *Service) Selection() (string, quiz.Difficulty) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subjectID, s.difficulty
}

// Questions selects questions for the current selection.
func (s *Service) Questions(ctx context.Context) (Result, error) {
	id, d := s.Selection()
	if id == "" {
		return Result{Difficulty: d}, ErrNoSubject
	}
	return s.QuestionsFor(ctx, id, d)
}

// GetQuestionsForSelection runs Questions in the background. The channel
// receives exactly one Outcome and is then closed.
func (s *Service) GetQuestionsForSelection(ctx context.Context) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		res, err := s.Questions(ctx)
		out <- Outcome{Result: res, Err: err}
	}()
	return out
}

// QuestionsFor selects questions for an explicit subject and difficulty.
func (s *Service) QuestionsFor(ctx context.Context, subjectID string, d quiz.Difficulty) (Result, error) {
	subj, ok := s.corpus.Subject(subjectID)
	if !ok {
		return Result{SubjectID: subjectID, Difficulty: d}, fmt.Errorf("%w: %q", ErrUnknownSubject, subjectID)
	}

	res := Result{SubjectID: subjectID, Difficulty: d}
	primary := selection.Primary(subj, d)

	if s.gen != nil && selection.NeedsGeneration(primary, d, s.isEligible(subj)) {
		q, err := s.generateOne(ctx, subj, d)
		if err != nil {
			res.GenerationErr = err
			s.log.Warn("on-demand generation failed",
				zap.String("subject", subjectID),
				zap.Stringer("difficulty", d),
				zap.Error(err))
		} else {
			res.Generated = q
			primary = append(primary, *q)
		}
	}

	res.Questions = s.policy.Backfill(subj, d, primary)
	s.log.Debug("selected questions",
		zap.String("subject", subjectID),
		zap.Stringer("difficulty", d),
		zap.Int("count", len(res.Questions)))
	return res, nil
}

func (s *Service) isEligible(subj quiz.Subject) bool {
	return s.eligible[subj.ID] || (s.generatedEligible && subj.IsGenerated())
}

// AddOrUpdateGeneratedSubject stores subject, replacing any with its id.
func (s *Service) AddOrUpdateGeneratedSubject(ctx context.Context, subject quiz.Subject) {
	s.corpus.AddOrUpdate(ctx, subject)
	s.events.publish(Event{Kind: CorpusChanged, SubjectID: subject.ID})
}

// DeleteGeneratedSubject removes a generated subject. It reports whether
// one was removed; seed subjects are never removed.
func (s *Service) DeleteGeneratedSubject(ctx context.Context, id string) bool {
	removed := s.corpus.Delete(ctx, id)
	if removed {
		s.clearSelectionIf(id)
		s.events.publish(Event{Kind: CorpusChanged, SubjectID: id})
	}
	return removed
}

// DeleteAllGeneratedSubjects removes every generated subject and returns
// how many were removed.
func (s *Service) DeleteAllGeneratedSubjects(ctx context.Context) int {
	n := s.corpus.DeleteAll(ctx, nil)
	if n > 0 {
		id, _ := s.Selection()
		if quiz.IsGeneratedID(id) {
			s.clearSelectionIf(id)
		}
		s.events.publish(Event{Kind: CorpusChanged})
	}
	return n
}

// Reload re-reads the corpus from disk. A selected subject that no longer
// exists is cleared.
func (s *Service) Reload(ctx context.Context) {
	s.corpus.Reload(ctx)
	id, _ := s.Selection()
	if _, ok := s.corpus.Subject(id); id != "" && !ok {
		s.clearSelectionIf(id)
	}
	s.events.publish(Event{Kind: CorpusChanged})
}

func (s *Service) clearSelectionIf(id string) {
	s.mu.Lock()
	cleared := s.subjectID == id
	if cleared {
		s.subjectID = ""
	}
	d := s.difficulty
	s.mu.Unlock()

	if cleared {
		s.events.publish(Event{Kind: SelectionChanged, Difficulty: d})
	}
}
