package design

import (
	"strings"
	"testing"

	"qrmenu/internal/tester"
)

var current = Document{Markup: "<main>menu</main>", Stylesheet: ":root { --background: #ffffff; }"}

func TestNormalize_MissingModeIsExecuteWithBackfill(t *testing.T) {
	r := Normalize(map[string]any{"updatedHtml": "   ", "changes": "not a list"}, current)
	ex, ok := r.(Execute)
	tester.True(t, ok, "expected Execute, got %T", r)
	tester.Eq(t, ex.Document, current)
	tester.Eq(t, ex.Changes, []Change{})
	tester.Eq(t, ex.Summary, DefaultSummary)
}

func TestNormalize_ExecuteKeepsModelDocument(t *testing.T) {
	r := Normalize(map[string]any{
		"mode":       "execute",
		"updatedCss": "body{}",
		"summary":    "Made it pop",
		"changes": []any{
			map[string]any{"domain": "css", "description": "Bolder colors", "reasoning": "contrast"},
			"Tighter spacing",
			map[string]any{"domain": "weird"},
		},
	}, current)
	ex := r.(Execute)
	tester.Eq(t, ex.Document.Markup, current.Markup)
	tester.Eq(t, ex.Document.Stylesheet, "body{}")
	tester.Eq(t, ex.Summary, "Made it pop")
	tester.Eq(t, ex.Changes, []Change{
		{Domain: DomainCSS, Description: "Bolder colors", Reasoning: "contrast"},
		{Domain: DomainBoth, Description: "Tighter spacing"},
	})
}

func TestNormalize_UnknownModeIsExecute(t *testing.T) {
	r := Normalize(map[string]any{"mode": "brainstorm", "updatedCss": "p{}"}, current)
	tester.Eq(t, r.Mode(), ModeExecute)
}

func TestNormalize_ClarifyEchoesDocument(t *testing.T) {
	r := Normalize(map[string]any{"mode": "Clarify", "questions": []any{"Which color?", "Which section?"}}, current)
	c, ok := r.(Clarify)
	tester.True(t, ok)
	tester.Eq(t, c.Document, current)
	text := Render(c)
	tester.Contains(t, text, "1. Which color?")
	tester.Contains(t, text, "2. Which section?")
}

func TestNormalize_PlanNestedAndFlat(t *testing.T) {
	nested := Normalize(map[string]any{
		"mode": "plan",
		"plan": map[string]any{"summary": "Refresh", "changes": []any{"Swap fonts", "Add badges"}, "reasoning": "dated look"},
	}, current).(Plan)
	flat := Normalize(map[string]any{
		"mode": "plan", "summary": "Refresh", "changes": []any{"Swap fonts", "Add badges"}, "reasoning": "dated look",
	}, current).(Plan)
	tester.Eq(t, nested, flat)
	tester.Eq(t, nested.Document, current)

	text := Render(nested)
	tester.Contains(t, text, "- Swap fonts")
	tester.Contains(t, text, "- Add badges")
	tester.True(t, strings.Contains(text, "go ahead"), "plan must ask for confirmation")
}
