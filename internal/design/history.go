package design

import "time"

// Entry is one saved document in the undo history.
type Entry struct {
	Document
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// History is a linear undo stack with a cursor. The entry at the cursor is the
// live document. Pushing while the cursor is behind the tail drops every entry
// after it.
type History struct {
	entries []Entry
	cursor  int
}

func NewHistory() *History { return &History{cursor: -1} }

func (h *History) Push(e Entry) {
	h.entries = append(h.entries[:h.cursor+1], e)
	h.cursor = len(h.entries) - 1
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor >= 0 && h.cursor < len(h.entries)-1 }

// Undo moves the cursor back one. It returns the entry that was left (the
// reverted edit) and the entry that is now current.
func (h *History) Undo() (reverted, current Entry, ok bool) {
	if !h.CanUndo() {
		return Entry{}, Entry{}, false
	}
	reverted = h.entries[h.cursor]
	h.cursor--
	return reverted, h.entries[h.cursor], true
}

// Redo moves the cursor forward one and returns the new current entry.
func (h *History) Redo() (Entry, bool) {
	if !h.CanRedo() {
		return Entry{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

func (h *History) Current() (Entry, bool) {
	if h.cursor < 0 {
		return Entry{}, false
	}
	return h.entries[h.cursor], true
}

func (h *History) Cursor() int { return h.cursor }
func (h *History) Len() int    { return len(h.entries) }

func (h *History) Entries() []Entry { return append([]Entry(nil), h.entries...) }
