package design

import (
	"errors"
	"testing"

	"qrmenu/internal/tester"
)

func execute(markup, css, summary string) CompleteData {
	return CompleteData{Success: true, Mode: ModeExecute, UpdatedMarkup: markup, UpdatedStylesheet: css, Summary: summary}
}

func TestEditor_ApplyThenUndoRestoresExactly(t *testing.T) {
	before := Document{Markup: "<ul><li>Taco</li></ul>\n", Stylesheet: "li { color: red; }\n"}
	e := NewEditor(before)

	tester.True(t, e.Apply(execute("<ul></ul>", "li { color: blue; }", "Blue items")))
	tester.Eq(t, e.Document().Stylesheet, "li { color: blue; }")

	doc, desc, err := e.Undo()
	tester.NoErr(t, err)
	tester.Eq(t, desc, "Blue items")
	tester.Eq(t, doc, before)
	tester.Eq(t, e.Document(), before)
}

func TestEditor_NonExecuteDoesNotMutate(t *testing.T) {
	e := NewEditor(current)
	tester.False(t, e.Apply(CompleteData{Success: true, Mode: ModeClarify, Summary: "questions"}))
	tester.False(t, e.Apply(CompleteData{Success: true, Mode: ModePlan, Summary: "plan"}))
	tester.False(t, e.Apply(CompleteData{Success: false, Mode: ModeExecute, UpdatedMarkup: "x", UpdatedStylesheet: "y"}))
	tester.Eq(t, e.Document(), current)
	tester.Eq(t, e.History().Len(), 1)
}

func TestEditor_BlankHalvesKeepCurrent(t *testing.T) {
	e := NewEditor(current)
	tester.True(t, e.Apply(execute("", "p{}", "")))
	tester.Eq(t, e.Document().Markup, current.Markup)
	cur, _ := e.History().Current()
	tester.Eq(t, cur.Description, DefaultSummary)
}

func TestEditor_NewEditAfterUndoDiscardsRedo(t *testing.T) {
	e := NewEditor(Document{Markup: "m0", Stylesheet: "c0"})
	e.Apply(execute("m1", "c1", "one"))
	e.Apply(execute("m2", "c2", "two"))

	_, _, err := e.Undo()
	tester.NoErr(t, err)
	_, _, err = e.Undo()
	tester.NoErr(t, err)
	tester.True(t, e.History().CanRedo())

	e.Apply(execute("m3", "c3", "three"))
	tester.False(t, e.History().CanRedo())
	_, _, err = e.Redo()
	tester.True(t, errors.Is(err, ErrNothingToRedo))

	var descs []string
	for _, en := range e.History().Entries() {
		descs = append(descs, en.Description)
	}
	tester.Eq(t, descs, []string{initialDescription, "three"})
}

func TestEditor_UndoRedoBounds(t *testing.T) {
	e := NewEditor(Document{Markup: "m0", Stylesheet: "c0"})
	_, _, err := e.Undo()
	tester.True(t, errors.Is(err, ErrNothingToUndo))

	e.Apply(execute("m1", "c1", "one"))
	_, _, err = e.Undo()
	tester.NoErr(t, err)
	doc, desc, err := e.Redo()
	tester.NoErr(t, err)
	tester.Eq(t, desc, "one")
	tester.Eq(t, doc, Document{Markup: "m1", Stylesheet: "c1"})
	tester.Eq(t, e.History().Cursor(), 1)
}

func TestHistory_CursorEntryIsLive(t *testing.T) {
	h := NewHistory()
	_, ok := h.Current()
	tester.False(t, ok)
	tester.False(t, h.CanUndo())
	tester.False(t, h.CanRedo())

	h.Push(Entry{Description: "a"})
	h.Push(Entry{Description: "b"})
	reverted, cur, ok := h.Undo()
	tester.True(t, ok)
	tester.Eq(t, reverted.Description, "b")
	tester.Eq(t, cur.Description, "a")
	got, _ := h.Current()
	tester.Eq(t, got.Description, "a")
}
