package design

import (
	"strings"
	"time"
)

const initialDescription = "Initial design"

// Editor owns a live Document and its undo history. It is not safe for
// concurrent use; callers that share one must lock around it.
type Editor struct {
	doc  Document
	hist *History
	now  func() time.Time
}

func NewEditor(doc Document) *Editor {
	e := &Editor{doc: doc, hist: NewHistory(), now: time.Now}
	e.hist.Push(Entry{Document: doc, Timestamp: e.now(), Description: initialDescription})
	return e
}

func (e *Editor) Document() Document { return e.doc }
func (e *Editor) History() *History  { return e.hist }

// Apply takes the terminal complete payload of a turn. Only successful execute
// turns change the document; it reports whether one did.
func (e *Editor) Apply(c CompleteData) bool {
	if !c.Success || c.Mode != ModeExecute {
		return false
	}
	next := Document{Markup: c.UpdatedMarkup, Stylesheet: c.UpdatedStylesheet}
	if strings.TrimSpace(next.Markup) == "" {
		next.Markup = e.doc.Markup
	}
	if strings.TrimSpace(next.Stylesheet) == "" {
		next.Stylesheet = e.doc.Stylesheet
	}
	desc := c.Summary
	if desc == "" {
		desc = DefaultSummary
	}
	e.hist.Push(Entry{Document: next, Timestamp: e.now(), Description: desc})
	e.doc = next
	return true
}

// Undo restores the previous document and returns the description of the edit
// that was reverted.
func (e *Editor) Undo() (Document, string, error) {
	reverted, cur, ok := e.hist.Undo()
	if !ok {
		return e.doc, "", ErrNothingToUndo
	}
	e.doc = cur.Document
	return e.doc, reverted.Description, nil
}

// Redo re-applies the next document and returns its description.
func (e *Editor) Redo() (Document, string, error) {
	cur, ok := e.hist.Redo()
	if !ok {
		return e.doc, "", ErrNothingToRedo
	}
	e.doc = cur.Document
	return e.doc, cur.Description, nil
}
