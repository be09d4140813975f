package handler

import (
	"context"
	"fmt"
	"net/http"

	"qrmenu/internal/design"
	"qrmenu/internal/util/jsonutil"
)

// sseEmitter writes turn events as server-sent events. Headers are only sent
// with the first event so a turn rejected before it starts can still answer
// with a plain HTTP status.
type sseEmitter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func newSSEEmitter(w http.ResponseWriter) (*sseEmitter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming unsupported")
	}
	return &sseEmitter{w: w, flusher: flusher}, nil
}

func (s *sseEmitter) Emit(ctx context.Context, ev design.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := jsonutil.MarshalNoEscape(ev.Data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Name, err)
	}
	if !s.started {
		h := s.w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", ev.Name, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
