package design

import (
	"errors"
	"fmt"
	"math"

	"qrmenu/internal/llm"
)

var (
	ErrNoJSON         = errors.New("no JSON object found in model output")
	ErrTurnInProgress = errors.New("a design turn is already in progress for this session")
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrNothingToRedo  = errors.New("nothing to redo")
)

// RepairError is returned when located JSON still does not parse after repair.
type RepairError struct {
	Truncated bool
	Err       error
}

func (e *RepairError) Error() string {
	if e.Truncated {
		return fmt.Sprintf("parse repaired response: %v", e.Err)
	}
	return fmt.Sprintf("parse response: %v", e.Err)
}

func (e *RepairError) Unwrap() error { return e.Err }

// DetailSeparator splits the user-facing guidance from the technical detail.
const DetailSeparator = "\n\nDetails: "

// UserMessage turns a fatal turn error into plain-language guidance followed by
// the underlying detail.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		adm *llm.AdmissionError
		ex  *llm.ExhaustedError
		rep *RepairError
	)
	var guide string
	switch {
	case errors.As(err, &adm) && adm.Reason == llm.DenyRateLimited:
		secs := int(math.Ceil(adm.RetryAfter.Seconds()))
		guide = fmt.Sprintf("The design assistant is busy. Please wait %d seconds and try again.", secs)
	case errors.As(err, &adm):
		guide = "The design assistant has used up its budget for now. Please try again later."
	case errors.As(err, &ex):
		guide = "No design model is reachable right now. Try again in a moment."
	case errors.Is(err, llm.ErrNoBackends):
		guide = "No design model is configured."
	case errors.Is(err, ErrNoJSON):
		guide = "The design assistant answered in an unexpected format. Try rephrasing your request."
	case errors.As(err, &rep) && rep.Truncated:
		guide = "The design assistant's answer was cut off. Try a simpler or smaller request."
	case errors.As(err, &rep):
		guide = "The design assistant's answer could not be read. Try rephrasing your request."
	default:
		guide = "Something went wrong while updating the design."
	}
	return guide + DetailSeparator + err.Error()
}
