package provision

import (
	"sync"

	"github.com/abhisek/brainmaxx/internal/quiz"
)

// EventKind identifies a state change.
type EventKind int

const (
	SelectionChanged EventKind = iota
	CorpusChanged
	GenerationStarted
	GenerationFinished
)

func (k EventKind) String() string {
	switch k {
	case SelectionChanged:
		return "selection-changed"
	case CorpusChanged:
		return "corpus-changed"
	case GenerationStarted:
		return "generation-started"
	case GenerationFinished:
		return "generation-finished"
	default:
		return "unknown"
	}
}

// Event is published to subscribers after a state change.
type Event struct {
	Kind       EventKind
	SubjectID  string
	Difficulty quiz.Difficulty

	// Err is the generation failure for GenerationFinished, nil on success.
	Err error
}

// subscriberBuffer bounds each subscriber's queue. A subscriber that falls
// this far behind misses events rather than blocking the service.
const subscriberBuffer = 16

type broker struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func (b *broker) subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[int]chan Event)
	}
	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

func (b *broker) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
