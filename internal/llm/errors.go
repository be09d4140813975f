package llm

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrEmptyCompletion = errors.New("empty completion from backend")
	ErrNoBackends      = errors.New("no model backend configured")
)

// BackendError is one failed attempt. The gateway swallows it and moves on to
// the next backend; it only surfaces inside an ExhaustedError.
type BackendError struct {
	Backend string
	Status  int
	Err     error
}

func (e *BackendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Backend, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ExhaustedError reports that every backend in the list failed.
type ExhaustedError struct {
	Attempts []error
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return "all model backends failed"
	}
	return fmt.Sprintf("all %d model backends failed, last: %v", len(e.Attempts), e.Last())
}

// Last returns the error of the final backend tried.
func (e *ExhaustedError) Last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1]
}

func (e *ExhaustedError) Unwrap() error { return e.Last() }

type DenyReason string

const (
	DenyRateLimited     DenyReason = "rate_limited"
	DenyBudgetExhausted DenyReason = "budget_exhausted"
)

// AdmissionError is returned by Guard.Admit when a turn may not call out.
type AdmissionError struct {
	Reason     DenyReason
	RetryAfter time.Duration
	Spent      float64
	Budget     float64
}

func (e *AdmissionError) Error() string {
	switch e.Reason {
	case DenyRateLimited:
		return fmt.Sprintf("rate limit reached, retry in %ds", int(math.Ceil(e.RetryAfter.Seconds())))
	case DenyBudgetExhausted:
		return fmt.Sprintf("model budget exhausted ($%.2f of $%.2f spent)", e.Spent, e.Budget)
	default:
		return "admission denied"
	}
}

func truncateBody(b []byte) string {
	const max = 2048
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		s = s[:max]
	}
	return s
}
