package quiz

// PointsPerQuestion is the score awarded per correct answer.
const PointsPerQuestion = 20

// AnsweredQuestion pairs a served question with the option index the
// learner picked. Selected is -1 when the question was skipped.
type AnsweredQuestion struct {
	Question Question
	Selected int
}

// Correct reports whether the selected option is the scored answer.
func (a AnsweredQuestion) Correct() bool {
	return a.Question.IsCorrect(a.Selected)
}

// QuizResult is a completed session.
type QuizResult struct {
	SubjectID      string
	SubjectName    string
	Difficulty     Difficulty
	Answers        []AnsweredQuestion
	TotalQuestions int
}

// Score counts correct answers.
func (r QuizResult) Score() int {
	n := 0
	for _, a := range r.Answers {
		if a.Correct() {
			n++
		}
	}
	return n
}

func (r QuizResult) TotalPoints() int {
	return r.Score() * PointsPerQuestion
}

// Percentage is the share of available points earned, 0 for an empty quiz.
func (r QuizResult) Percentage() float64 {
	if r.TotalQuestions <= 0 {
		return 0
	}
	return float64(r.TotalPoints()*100) / float64(r.TotalQuestions*PointsPerQuestion)
}

// Grade maps the percentage to a letter.
func (r QuizResult) Grade() string {
	return GradeFor(r.Percentage())
}

// GradeFor maps a percentage to A, B, C, D or F.
func GradeFor(pct float64) string {
	switch {
	case pct >= 90:
		return "A"
	case pct >= 80:
		return "B"
	case pct >= 70:
		return "C"
	case pct >= 60:
		return "D"
	default:
		return "F"
	}
}
