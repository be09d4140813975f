package design

import "context"

type EventName string

const (
	EventStatus   EventName = "status"
	EventChange   EventName = "change"
	EventClarify  EventName = "clarify"
	EventPlan     EventName = "plan"
	EventComplete EventName = "complete"
	EventError    EventName = "error"
)

// Event is one frame of a turn's progress stream. Data is one of the *Data
// types below (Change for change events).
type Event struct {
	Name EventName
	Data any
}

type StatusData struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

type ClarifyData struct {
	Questions []string `json:"questions"`
	Context   string   `json:"context"`
}

type PlanBody struct {
	Summary   string   `json:"summary"`
	Changes   []string `json:"changes"`
	Reasoning string   `json:"reasoning"`
}

type PlanData struct {
	Plan PlanBody `json:"plan"`
}

// CompleteData is the single terminal success frame.
type CompleteData struct {
	Success           bool     `json:"success"`
	Mode              Mode     `json:"mode"`
	UpdatedMarkup     string   `json:"updatedMarkup,omitempty"`
	UpdatedStylesheet string   `json:"updatedStylesheet,omitempty"`
	Summary           string   `json:"summary"`
	Changes           []Change `json:"changes,omitempty"`
}

type ErrorData struct {
	Message string `json:"message"`
}

// Emitter receives turn events in order. An error stops the turn.
type Emitter interface {
	Emit(ctx context.Context, ev Event) error
}

type EmitterFunc func(ctx context.Context, ev Event) error

func (f EmitterFunc) Emit(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Recorder collects events in memory.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Emit(_ context.Context, ev Event) error {
	r.Events = append(r.Events, ev)
	return nil
}

// Terminal returns the complete or error event, if one was emitted.
func (r *Recorder) Terminal() (Event, bool) {
	for i := len(r.Events) - 1; i >= 0; i-- {
		if n := r.Events[i].Name; n == EventComplete || n == EventError {
			return r.Events[i], true
		}
	}
	return Event{}, false
}

// Reply is the assistant's side of the turn as it should appear in later
// conversation history. Clarify and plan completions already carry the
// rendered questions or plan in their summary.
func (r *Recorder) Reply() string {
	ev, ok := r.Terminal()
	if !ok {
		return ""
	}
	switch d := ev.Data.(type) {
	case CompleteData:
		return d.Summary
	case ErrorData:
		return d.Message
	}
	return ""
}
