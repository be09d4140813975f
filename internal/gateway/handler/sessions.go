package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"qrmenu/internal/briefing"
	"qrmenu/internal/design"
	"qrmenu/internal/gateway/session"
	"qrmenu/internal/publish"
)

// SessionHandler serves server-held editors for clients that do not keep
// their own history.
type SessionHandler struct {
	sessions  *session.Store
	publisher *publish.Publisher
}

func NewSessionHandler(sessions *session.Store, publisher *publish.Publisher) *SessionHandler {
	return &SessionHandler{sessions: sessions, publisher: publisher}
}

type createSessionBody struct {
	Markup       string `json:"markup"`
	Stylesheet   string `json:"stylesheet"`
	RestaurantID string `json:"restaurantId,omitempty"`
}

type historyView struct {
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type sessionView struct {
	ID           string          `json:"id"`
	RestaurantID string          `json:"restaurantId,omitempty"`
	Document     design.Document `json:"document"`
	Cursor       int             `json:"cursor"`
	CanUndo      bool            `json:"canUndo"`
	CanRedo      bool            `json:"canRedo"`
	History      []historyView   `json:"history"`
	State        string          `json:"state"`
	Message      string          `json:"message,omitempty"`
}

// view must be called with the lock held.
func view(e *session.Editing, msg string) sessionView {
	ed := e.Editor()
	h := ed.History()
	entries := h.Entries()
	hist := make([]historyView, 0, len(entries))
	for _, en := range entries {
		hist = append(hist, historyView{Description: en.Description, Timestamp: en.Timestamp})
	}
	return sessionView{
		ID:           e.ID,
		RestaurantID: e.RestaurantID,
		Document:     ed.Document(),
		Cursor:       h.Cursor(),
		CanUndo:      h.CanUndo(),
		CanRedo:      h.CanRedo(),
		History:      hist,
		State:        e.Design.State().String(),
		Message:      msg,
	}
}

func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var body createSessionBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e := h.sessions.Create(body.RestaurantID, design.Document{Markup: body.Markup, Stylesheet: body.Stylesheet})
	e.Lock()
	v := view(e, "")
	e.Unlock()
	log.Printf("session created: %s (restaurant=%q)", e.ID, e.RestaurantID)
	writeJSON(w, http.StatusCreated, v)
}

func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	e.Lock()
	v := view(e, "")
	e.Unlock()
	writeJSON(w, http.StatusOK, v)
}

func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(pathID(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

type sessionTurnBody struct {
	Instruction     string             `json:"instruction"`
	ContextBriefing *briefing.Briefing `json:"contextBriefing,omitempty"`
}

// HandleTurn runs a turn against the session's document. The terminal event
// is applied to the editor before it is streamed.
func (h *SessionHandler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var body sessionTurnBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	instruction := strings.TrimSpace(body.Instruction)
	if instruction == "" {
		writeError(w, http.StatusBadRequest, "instruction is required")
		return
	}
	em, err := newSSEEmitter(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	e.Lock()
	req := design.TurnRequest{
		Instruction:  instruction,
		Document:     e.Editor().Document(),
		RestaurantID: e.RestaurantID,
		Briefing:     body.ContextBriefing,
		History:      e.Turns(),
	}
	e.Unlock()

	tee := design.EmitterFunc(func(ctx context.Context, ev design.Event) error {
		if ev.Name == design.EventComplete || ev.Name == design.EventError {
			settle(e, instruction, ev)
		}
		return em.Emit(ctx, ev)
	})
	runTurn(w, r, e.Design, req, tee, em)
}

// settle applies a terminal event while the turn still owns the session, so
// undo and redo cannot land between the result and its apply.
func settle(e *session.Editing, instruction string, ev design.Event) {
	rec := design.Recorder{Events: []design.Event{ev}}
	e.Lock()
	defer e.Unlock()
	if c, ok := ev.Data.(design.CompleteData); ok && e.Editor().Apply(c) {
		log.Printf("session %s: applied %q", e.ID, c.Summary)
	}
	e.Record(instruction, rec.Reply())
}

func (h *SessionHandler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, (*design.Editor).Undo, "Undid")
}

func (h *SessionHandler) HandleRedo(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, (*design.Editor).Redo, "Redid")
}

func (h *SessionHandler) move(w http.ResponseWriter, r *http.Request, step func(*design.Editor) (design.Document, string, error), verb string) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if e.Design.State() != design.StateIdle {
		writeError(w, http.StatusConflict, design.ErrTurnInProgress.Error())
		return
	}
	e.Lock()
	defer e.Unlock()
	_, desc, err := step(e.Editor())
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view(e, verb+": "+desc))
}

type publishBody struct {
	Title string `json:"title,omitempty"`
}

func (h *SessionHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if e.RestaurantID == "" {
		writeError(w, http.StatusBadRequest, "session has no restaurant")
		return
	}
	var body publishBody
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	e.Lock()
	doc := e.Editor().Document()
	e.Unlock()

	res, err := h.publisher.Publish(r.Context(), e.RestaurantID, body.Title, doc)
	if err != nil {
		if errors.Is(err, publish.ErrEmptyDocument) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.Printf("session %s: publish failed: %v", e.ID, err)
		writeError(w, http.StatusInternalServerError, "publish failed")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Editing, bool) {
	e, err := h.sessions.Get(pathID(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return e, true
}
