package design

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"qrmenu/internal/briefing"
	"qrmenu/internal/llm"
)

// DefaultChangeDelay paces change events so clients can show progress.
const DefaultChangeDelay = 150 * time.Millisecond

type State int

const (
	StateIdle State = iota
	StateAnalyzing
	StateDesigning
	StateClarifying
	StatePlanning
	StateApplying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnalyzing:
		return "analyzing"
	case StateDesigning:
		return "designing"
	case StateClarifying:
		return "clarifying"
	case StatePlanning:
		return "planning"
	case StateApplying:
		return "applying"
	}
	return "unknown"
}

// Generator is the model gateway as seen by a session.
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, system string, history []llm.Message, user string) (llm.Result, error)
}

// Briefer compiles the per-turn restaurant briefing.
type Briefer interface {
	Compile(ctx context.Context, restaurantID string, supplied *briefing.Briefing) (briefing.Briefing, error)
}

// TurnRequest is one instruction plus the caller's current state.
type TurnRequest struct {
	Instruction  string
	Document     Document
	RestaurantID string
	Briefing     *briefing.Briefing
	History      []Turn
}

// Agent holds what every session shares: the gateway, the briefing compiler
// and pacing.
type Agent struct {
	gen     Generator
	briefer Briefer
	delay   time.Duration
}

type AgentOption func(*Agent)

// WithChangeDelay sets the pause between change events. Zero disables it.
func WithChangeDelay(d time.Duration) AgentOption {
	return func(a *Agent) {
		if d >= 0 {
			a.delay = d
		}
	}
}

func NewAgent(gen Generator, briefer Briefer, opts ...AgentOption) *Agent {
	a := &Agent{gen: gen, briefer: briefer, delay: DefaultChangeDelay}
	for _, o := range opts {
		o(a)
	}
	return a
}

// NewSession returns an idle session bound to a.
func (a *Agent) NewSession() *Session { return &Session{agent: a} }

// Session runs at most one turn at a time.
type Session struct {
	agent *Agent

	mu    sync.Mutex
	state State
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Session) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return false
	}
	s.state = StateAnalyzing
	return true
}

// Run executes one turn and emits its events: status, then change events for
// execute turns, then exactly one complete or error. A busy session returns
// ErrTurnInProgress without emitting anything. The returned error is the
// turn's failure (already reported as an error event) or the emitter's.
func (s *Session) Run(ctx context.Context, req TurnRequest, em Emitter) error {
	if !s.begin() {
		return ErrTurnInProgress
	}
	defer s.setState(StateIdle)

	resp, err := s.design(ctx, req, em)
	if err != nil {
		var ee *emitError
		if errors.As(err, &ee) || ctx.Err() != nil {
			return err
		}
		log.Printf("design turn failed: %v", err)
		if eerr := em.Emit(ctx, Event{Name: EventError, Data: ErrorData{Message: UserMessage(err)}}); eerr != nil {
			return eerr
		}
		return err
	}
	return s.deliver(ctx, resp, em)
}

// emitError marks failures that came from the emitter rather than the turn.
type emitError struct{ err error }

func (e *emitError) Error() string { return e.err.Error() }
func (e *emitError) Unwrap() error { return e.err }

func emitStatus(ctx context.Context, em Emitter, stage, msg string) error {
	if err := em.Emit(ctx, Event{Name: EventStatus, Data: StatusData{Stage: stage, Message: msg}}); err != nil {
		return &emitError{err}
	}
	return nil
}

func (s *Session) design(ctx context.Context, req TurnRequest, em Emitter) (Response, error) {
	if err := emitStatus(ctx, em, "analyzing", "Reading your menu and request"); err != nil {
		return nil, err
	}
	b := s.compile(ctx, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := s.agent
	if a.gen == nil || !a.gen.Configured() {
		if err := emitStatus(ctx, em, "designing", "Applying quick design rules"); err != nil {
			return nil, err
		}
		doc, changes := ApplyLocalRules(req.Instruction, req.Document, &b)
		return Execute{Document: doc, Changes: changes, Summary: summarize(changes)}, nil
	}

	s.setState(StateDesigning)
	if err := emitStatus(ctx, em, "designing", "Designing your changes"); err != nil {
		return nil, err
	}
	user := UserPrompt(briefing.Render(b), req.Document, req.Instruction)
	res, err := a.gen.Generate(ctx, SystemPrompt(), HistoryMessages(req.History), user)
	if err != nil {
		return nil, err
	}
	obj, truncated, err := Parse(res.Text)
	if err != nil {
		return nil, err
	}
	if truncated {
		log.Printf("design: repaired truncated response from %s", res.Backend)
	}
	return Normalize(obj, req.Document), nil
}

func (s *Session) compile(ctx context.Context, req TurnRequest) briefing.Briefing {
	if s.agent.briefer == nil {
		if req.Briefing != nil {
			return *req.Briefing
		}
		return briefing.Briefing{}
	}
	b, err := s.agent.briefer.Compile(ctx, req.RestaurantID, req.Briefing)
	if err != nil {
		log.Printf("design: briefing: %v", err)
		if req.Briefing != nil {
			return *req.Briefing
		}
	}
	return b
}

// deliver is the single place a response turns into events.
func (s *Session) deliver(ctx context.Context, resp Response, em Emitter) error {
	var complete CompleteData
	switch r := resp.(type) {
	case Clarify:
		s.setState(StateClarifying)
		if err := em.Emit(ctx, Event{Name: EventClarify, Data: ClarifyData{Questions: r.Questions, Context: r.Context}}); err != nil {
			return err
		}
		complete = CompleteData{
			Success: true, Mode: ModeClarify, Summary: Render(r),
			UpdatedMarkup: r.Document.Markup, UpdatedStylesheet: r.Document.Stylesheet,
		}
	case Plan:
		s.setState(StatePlanning)
		plan := PlanBody{Summary: r.Summary, Changes: r.Changes, Reasoning: r.Reasoning}
		if err := em.Emit(ctx, Event{Name: EventPlan, Data: PlanData{Plan: plan}}); err != nil {
			return err
		}
		complete = CompleteData{
			Success: true, Mode: ModePlan, Summary: Render(r),
			UpdatedMarkup: r.Document.Markup, UpdatedStylesheet: r.Document.Stylesheet,
		}
	case Execute:
		s.setState(StateApplying)
		for i, c := range r.Changes {
			if i > 0 {
				if err := s.pause(ctx); err != nil {
					return err
				}
			}
			if err := em.Emit(ctx, Event{Name: EventChange, Data: c}); err != nil {
				return err
			}
		}
		complete = CompleteData{
			Success: true, Mode: ModeExecute, Summary: r.Summary, Changes: r.Changes,
			UpdatedMarkup: r.Document.Markup, UpdatedStylesheet: r.Document.Stylesheet,
		}
	}
	return em.Emit(ctx, Event{Name: EventComplete, Data: complete})
}

func (s *Session) pause(ctx context.Context) error {
	if s.agent.delay <= 0 {
		return nil
	}
	t := time.NewTimer(s.agent.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func summarize(changes []Change) string {
	if len(changes) == 0 {
		return DefaultSummary
	}
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		parts = append(parts, c.Description)
	}
	return strings.Join(parts, "; ")
}
