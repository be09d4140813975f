package llm

import "strings"

// Placeholder usage charged when a paid backend does not report token counts.
const (
	PlaceholderInputTokens  = 1500
	PlaceholderOutputTokens = 1500
)

// CountTokens gives a rough token estimate for logging. It counts
// whitespace-delimited words and falls back to a character-based heuristic.
func CountTokens(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	chars := len(text) / 4
	if chars > words {
		return chars
	}
	return words
}

func requestTokens(req Request) int {
	n := CountTokens(req.System) + CountTokens(req.User)
	for _, m := range req.History {
		n += CountTokens(m.Content)
	}
	return n
}

// usageOf fills in the placeholder estimate for unreported usage.
func usageOf(c Completion) (in, out int) {
	if !c.Reported {
		return PlaceholderInputTokens, PlaceholderOutputTokens
	}
	return c.PromptTokens, c.CompletionTokens
}
