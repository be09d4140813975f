package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"qrmenu/internal/design"
)

const (
	DefaultTTL        = 2 * time.Hour
	DefaultMaxEntries = 1024
	// maxTurns bounds the conversation kept per session; prompts only use the
	// last design.MaxHistoryTurns of it.
	maxTurns = 4 * design.MaxHistoryTurns
)

var ErrNotFound = errors.New("session not found")

// Editing is one server-held editor: the document, its history, the running
// design session and the recent conversation. Callers must hold Lock while
// touching the editor or turns.
type Editing struct {
	ID           string
	RestaurantID string
	CreatedAt    time.Time

	Design *design.Session

	mu     sync.Mutex
	editor *design.Editor
	turns  []design.Turn
}

func (e *Editing) Lock()   { e.mu.Lock() }
func (e *Editing) Unlock() { e.mu.Unlock() }

// Editor must be called with the lock held.
func (e *Editing) Editor() *design.Editor { return e.editor }

// Turns returns a copy of the conversation. Lock must be held.
func (e *Editing) Turns() []design.Turn { return append([]design.Turn(nil), e.turns...) }

// Record appends a user instruction and the assistant's reply. Lock must be held.
func (e *Editing) Record(instruction, reply string) {
	e.turns = append(e.turns,
		design.Turn{Role: "user", Text: instruction},
		design.Turn{Role: "assistant", Text: reply},
	)
	if len(e.turns) > maxTurns {
		e.turns = append([]design.Turn(nil), e.turns[len(e.turns)-maxTurns:]...)
	}
}

// Store keeps editors in an expiring LRU. Reads refresh the expiry, so a
// session lives for ttl after its last use.
type Store struct {
	agent *design.Agent
	lru   *expirable.LRU[string, *Editing]
}

func NewStore(agent *design.Agent, maxEntries int, ttl time.Duration) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{agent: agent, lru: expirable.NewLRU[string, *Editing](maxEntries, nil, ttl)}
}

func (s *Store) Create(restaurantID string, doc design.Document) *Editing {
	e := &Editing{
		ID:           uuid.NewString(),
		RestaurantID: strings.TrimSpace(restaurantID),
		CreatedAt:    time.Now().UTC(),
		Design:       s.agent.NewSession(),
		editor:       design.NewEditor(doc),
	}
	s.lru.Add(e.ID, e)
	return e
}

func (s *Store) Get(id string) (*Editing, error) {
	id = strings.TrimSpace(id)
	e, ok := s.lru.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.lru.Add(id, e)
	return e, nil
}

func (s *Store) Delete(id string) { s.lru.Remove(strings.TrimSpace(id)) }

func (s *Store) Len() int { return s.lru.Len() }
