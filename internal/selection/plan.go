package selection

import "github.com/abhisek/brainmaxx/internal/quiz"

// Draw asks for up to Count questions from an adjacent difficulty.
type Draw struct {
	From  quiz.Difficulty
	Count int
}

// Plan describes how a selection will be assembled.
type Plan struct {
	Difficulty quiz.Difficulty
	Target     int

	// Primary is the number of selectable questions at Difficulty.
	Primary int

	// Deficit is how many questions the primary pool is short of Target.
	Deficit int

	// Draws is empty when the primary pool covers the target.
	Draws []Draw
}

// backfillDraws splits a deficit across the neighbours of d. Easy and hard
// both borrow from medium; medium gives easy the odd remainder.
func backfillDraws(d quiz.Difficulty, deficit int) []Draw {
	if deficit <= 0 {
		return nil
	}
	switch d {
	case quiz.Easy, quiz.Hard:
		return []Draw{{From: quiz.Medium, Count: deficit}}
	case quiz.Medium:
		half, extra := deficit/2, deficit%2
		return []Draw{
			{From: quiz.Easy, Count: half + extra},
			{From: quiz.Hard, Count: half},
		}
	default:
		return nil
	}
}
