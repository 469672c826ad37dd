package quiz

import (
	"maps"
	"slices"
)

// Topics maps a topic name to its questions.
type Topics map[string][]Question

// Clone returns a deep copy of the topic map. Question values are copied;
// their option and answer slices are shared since questions are immutable
// once built.
func (t Topics) Clone() Topics {
	if t == nil {
		return Topics{}
	}
	out := make(Topics, len(t))
	for name, qs := range t {
		out[name] = slices.Clone(qs)
	}
	return out
}

// Index partitions a subject's questions by difficulty.
type Index struct {
	byDifficulty map[Difficulty][]Question
}

// BuildIndex walks every topic in sorted name order and buckets each
// question under its difficulty. The result is deterministic for a given
// topic map.
func BuildIndex(topics Topics) Index {
	idx := Index{byDifficulty: make(map[Difficulty][]Question, len(Difficulties))}
	for _, name := range slices.Sorted(maps.Keys(topics)) {
		for _, q := range topics[name] {
			idx.byDifficulty[q.Difficulty] = append(idx.byDifficulty[q.Difficulty], q)
		}
	}
	return idx
}

// QuestionsFor returns a copy of the questions at difficulty d.
func (i Index) QuestionsFor(d Difficulty) []Question {
	return slices.Clone(i.byDifficulty[d])
}

// Count returns the number of indexed questions at difficulty d.
func (i Index) Count(d Difficulty) int {
	return len(i.byDifficulty[d])
}

// Total returns the number of indexed questions.
func (i Index) Total() int {
	n := 0
	for _, qs := range i.byDifficulty {
		n += len(qs)
	}
	return n
}
