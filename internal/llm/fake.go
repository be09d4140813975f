package llm

import (
	"context"
	"sync"
)

// FakeReply is one scripted outcome: either text or an error.
type FakeReply struct {
	Text  string
	Err   error
	Usage *Completion
}

// FakeBackend replays scripted replies in order for offline runs and tests.
// Once the script is exhausted the last reply repeats.
type FakeBackend struct {
	name string
	tier Tier

	mu      sync.Mutex
	replies []FakeReply
	calls   []Request
}

func NewFakeBackend(name string, tier Tier, replies ...FakeReply) *FakeBackend {
	if name == "" {
		name = "fake"
	}
	if tier == "" {
		tier = TierFree
	}
	return &FakeBackend{name: name, tier: tier, replies: replies}
}

func (f *FakeBackend) Name() string { return f.name }
func (f *FakeBackend) Tier() Tier   { return f.tier }
func (f *FakeBackend) Close() error { return nil }

func (f *FakeBackend) Complete(ctx context.Context, req Request) (Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if err := ctx.Err(); err != nil {
		return Completion{}, err
	}
	if len(f.replies) == 0 {
		return Completion{}, &BackendError{Backend: f.name, Err: ErrEmptyCompletion}
	}
	r := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	if r.Err != nil {
		return Completion{}, r.Err
	}
	if r.Text == "" {
		return Completion{}, &BackendError{Backend: f.name, Err: ErrEmptyCompletion}
	}
	if r.Usage != nil {
		c := *r.Usage
		c.Text = r.Text
		return c, nil
	}
	return Completion{Text: r.Text}, nil
}

// Calls returns a copy of every request received.
func (f *FakeBackend) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.calls...)
}
