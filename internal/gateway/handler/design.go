package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"qrmenu/internal/briefing"
	"qrmenu/internal/design"
)

// DesignHandler runs stateless turns: the client sends its whole state and
// keeps its own history.
type DesignHandler struct {
	agent *design.Agent
}

func NewDesignHandler(agent *design.Agent) *DesignHandler {
	return &DesignHandler{agent: agent}
}

type turnBody struct {
	Instruction       string             `json:"instruction"`
	CurrentMarkup     string             `json:"currentMarkup"`
	CurrentStylesheet string             `json:"currentStylesheet"`
	ContextBriefing   *briefing.Briefing `json:"contextBriefing,omitempty"`
	History           []design.Turn      `json:"history,omitempty"`
	RestaurantID      string             `json:"restaurantId,omitempty"`
}

func (b turnBody) validate() error {
	if strings.TrimSpace(b.Instruction) == "" {
		return errors.New("instruction is required")
	}
	return nil
}

func (b turnBody) request() design.TurnRequest {
	return design.TurnRequest{
		Instruction:  strings.TrimSpace(b.Instruction),
		Document:     design.Document{Markup: b.CurrentMarkup, Stylesheet: b.CurrentStylesheet},
		RestaurantID: strings.TrimSpace(b.RestaurantID),
		Briefing:     b.ContextBriefing,
		History:      b.History,
	}
}

// HandleTurn streams one turn as server-sent events.
func (h *DesignHandler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	var body turnBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := body.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	em, err := newSSEEmitter(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	runTurn(w, r, h.agent.NewSession(), body.request(), em, em)
}

// runTurn answers 409 when the session is busy; anything else has already
// been reported on the stream.
func runTurn(w http.ResponseWriter, r *http.Request, s *design.Session, req design.TurnRequest, em design.Emitter, stream *sseEmitter) {
	err := s.Run(r.Context(), req, em)
	switch {
	case err == nil:
	case errors.Is(err, design.ErrTurnInProgress) && !stream.started:
		writeError(w, http.StatusConflict, err.Error())
	case r.Context().Err() != nil:
		log.Printf("design turn: client went away: %v", err)
	}
}
