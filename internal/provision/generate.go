package provision

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/brainmaxx/internal/llm"
	"github.com/abhisek/brainmaxx/internal/questiongen"
	"github.com/abhisek/brainmaxx/internal/quiz"
)

// CurriculumSize is the number of questions generated for a new subject.
const CurriculumSize = 10

func flightKey(subjectID string, d quiz.Difficulty) string {
	return subjectID + "|" + d.Code()
}

// generateOne produces one question for subj and appends it to the
// subject's Generated topic. Concurrent calls for the same subject and
// difficulty share a single generation. The generation runs detached from
// ctx: a caller that gives up gets ctx.Err() while the question is still
// stored when it arrives.
func (s *Service) generateOne(ctx context.Context, subj quiz.Subject, d quiz.Difficulty) (*quiz.Question, error) {
	detached := llm.WithPurpose(context.WithoutCancel(ctx), llm.PurposeQuestion)

	ch := s.flight.DoChan(flightKey(subj.ID, d), func() (any, error) {
		s.events.publish(Event{Kind: GenerationStarted, SubjectID: subj.ID, Difficulty: d})

		q, err := s.gen.Generate(detached, questiongen.GenerateInput{
			Subject:      subj.Name,
			Difficulty:   d,
			CustomPrompt: s.prompt,
		})
		if err != nil {
			s.events.publish(Event{Kind: GenerationFinished, SubjectID: subj.ID, Difficulty: d, Err: err})
			return nil, err
		}

		s.appendGenerated(detached, subj.ID, *q)
		s.events.publish(Event{Kind: GenerationFinished, SubjectID: subj.ID, Difficulty: d})
		return q, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		q := *res.Val.(*quiz.Question)
		return &q, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// appendGenerated adds q to the latest version of the subject, replacing
// its whole topic map, and persists it.
func (s *Service) appendGenerated(ctx context.Context, subjectID string, q quiz.Question) {
	current, ok := s.corpus.Subject(subjectID)
	if !ok {
		s.log.Warn("subject vanished during generation, discarding question",
			zap.String("subject", subjectID),
			zap.String("question", q.ID))
		return
	}
	s.corpus.AddOrUpdate(ctx, current.WithQuestion(quiz.GeneratedTopic, q))
	s.log.Info("stored generated question",
		zap.String("subject", subjectID),
		zap.String("question", q.ID),
		zap.Stringer("difficulty", q.Difficulty))
	s.events.publish(Event{Kind: CorpusChanged, SubjectID: subjectID})
}

// CurriculumRequest describes a new generated subject.
type CurriculumRequest struct {
	Name        string
	Description string
	IconName    string
	Difficulty  quiz.Difficulty

	// Count defaults to CurriculumSize.
	Count int

	// Progress, if set, is called after each generated question.
	Progress func(done, total int)
}

// GenerateCurriculum generates a batch of questions for a new subject and
// stores it under the generated namespace, replacing any subject with the
// same id. Nothing is stored if any generation fails.
func (s *Service) GenerateCurriculum(ctx context.Context, req CurriculumRequest) (quiz.Subject, error) {
	if s.gen == nil {
		return quiz.Subject{}, ErrGenerationDisabled
	}

	subject := quiz.NewGeneratedSubject(req.Name, req.Description, req.IconName)
	if subject.ID == quiz.GeneratedPrefix {
		return quiz.Subject{}, fmt.Errorf("subject name must not be empty")
	}
	count := req.Count
	if count <= 0 {
		count = CurriculumSize
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeCurriculum)
	s.events.publish(Event{Kind: GenerationStarted, SubjectID: subject.ID, Difficulty: req.Difficulty})

	questions, err := questiongen.GenerateBatch(ctx, s.gen, questiongen.GenerateInput{
		Subject:      subject.Name,
		Difficulty:   req.Difficulty,
		CustomPrompt: s.prompt,
	}, count, req.Progress)
	s.events.publish(Event{Kind: GenerationFinished, SubjectID: subject.ID, Difficulty: req.Difficulty, Err: err})
	if err != nil {
		s.log.Warn("curriculum generation failed",
			zap.String("subject", subject.ID),
			zap.Int("generated", len(questions)),
			zap.Error(err))
		return quiz.Subject{}, err
	}

	subject.ReplaceTopics(quiz.Topics{quiz.GeneratedTopic: questions})
	s.AddOrUpdateGeneratedSubject(ctx, subject)
	return subject, nil
}
