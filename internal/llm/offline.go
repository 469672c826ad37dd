package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// offlineReplies are well-formed question replies served by the offline
// provider, in rotation.
var offlineReplies = []string{
	`{"question":"Which word is closest in meaning to 'rapid'?","options":["Slow","Quick","Quiet","Heavy"],"correct_answer":"B","explanations":{"A":"Slow is the opposite of rapid.","B":"Rapid means moving with great speed.","C":"Quiet describes sound, not speed.","D":"Heavy describes weight."}}`,
	`{"question":"Which sentence uses a comma correctly?","options":["A) After lunch, we walked home.","B) After lunch we, walked home.","C) After, lunch we walked home.","D) After lunch we walked, home."],"correct_answer":"A","explanations":{"A":"The comma follows the introductory phrase."}}`,
	`{"question":"What does a language model predict?","options":{"A":"The next token","B":"The weather","C":"Stock prices","D":"Image pixels only"},"correct_answer":"A","explanations":{"A":"Language models are trained to predict the next token in a sequence."}}`,
}

// OfflineProvider answers every request with a canned question reply. It
// backs the "mock" provider so the app runs without network access.
type OfflineProvider struct {
	mu   sync.Mutex
	next int
}

// NewOfflineProvider creates an OfflineProvider.
func NewOfflineProvider() *OfflineProvider {
	return &OfflineProvider{}
}

func (p *OfflineProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	reply := offlineReplies[p.next%len(offlineReplies)]
	p.next++
	p.mu.Unlock()

	return &Response{
		Content:    json.RawMessage(reply),
		Model:      p.ModelID(),
		StopReason: "end",
	}, nil
}

func (p *OfflineProvider) ModelID() string {
	return "mock"
}
