package infrastructure

import (
	"context"
	"math/rand"
	"sync"
)

var cannedReplies = []string{
	"I understand your question. Let me help you with that.",
	"That's a great question! Here's what I can tell you:",
	"I'd be happy to assist you with that.",
	"Thanks for reaching out. Here's how I can help:",
	"Let me provide you with some information about that.",
}

// CannedResponder picks a pseudo-random canned sentence. It stands in
// for a real model until one is wired behind the same port.
type CannedResponder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewCannedResponder(seed int64) *CannedResponder {
	return &CannedResponder{rng: rand.New(rand.NewSource(seed))}
}

func (r *CannedResponder) GenerateResponse(_ context.Context, _ string, _ map[string]any) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cannedReplies[r.rng.Intn(len(cannedReplies))], nil
}
