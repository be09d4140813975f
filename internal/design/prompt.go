package design

import (
	"fmt"
	"strings"

	"qrmenu/internal/llm"
)

// MaxHistoryTurns bounds the conversation window sent with each turn.
const MaxHistoryTurns = 6

const systemPrompt = `You are a menu design assistant for restaurant QR menus. You edit the
menu's HTML and CSS in response to the owner's requests, grounded in the
restaurant data you are given.

Always answer with a single JSON object and nothing else. Choose one mode:

1. The request is ambiguous and you need answers first:
{"mode":"clarify","questions":["..."],"context":"why you are asking"}

2. The request is large or risky and the owner should confirm first:
{"mode":"plan","plan":{"summary":"...","changes":["..."],"reasoning":"..."}}

3. The request is clear, or the owner confirmed a plan:
{"mode":"execute","updatedHtml":"<full html>","updatedCss":"<full css>",
 "summary":"one sentence","changes":[{"domain":"html|css|both","description":"...","reasoning":"..."}]}

Rules for execute:
- Return the complete HTML and complete CSS, never a fragment or a diff.
- If you only change CSS, return the HTML unchanged (or leave updatedHtml empty).
- Keep existing class names and CSS custom properties unless asked to change them.
- Prefer editing custom properties in :root over adding overrides.
- Never invent menu items or prices.
- Follow the design guidance in the restaurant context.`

// SystemPrompt returns the fixed instructions sent with every turn.
func SystemPrompt() string { return systemPrompt }

// UserPrompt assembles the per-turn message: briefing, current document, request.
func UserPrompt(briefingText string, doc Document, instruction string) string {
	var b strings.Builder
	if strings.TrimSpace(briefingText) != "" {
		b.WriteString("## Restaurant context\n")
		b.WriteString(strings.TrimSpace(briefingText))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "## Current HTML\n```html\n%s\n```\n\n", doc.Markup)
	fmt.Fprintf(&b, "## Current CSS\n```css\n%s\n```\n\n", doc.Stylesheet)
	b.WriteString("## Request\n")
	b.WriteString(strings.TrimSpace(instruction))
	return b.String()
}

// HistoryMessages keeps the most recent MaxHistoryTurns turns as chat messages.
func HistoryMessages(turns []Turn) []llm.Message {
	if len(turns) > MaxHistoryTurns {
		turns = turns[len(turns)-MaxHistoryTurns:]
	}
	out := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		role := llm.RoleUser
		if t.Role == llm.RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: t.Text})
	}
	return out
}
