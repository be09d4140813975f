package design

import (
	"fmt"
	"log"
	"strings"
)

type Mode string

const (
	ModeClarify Mode = "clarify"
	ModePlan    Mode = "plan"
	ModeExecute Mode = "execute"
)

// DefaultSummary is used when an execute response carries no summary.
const DefaultSummary = "Design updated"

// Response is the normalised model answer: exactly one of Clarify, Plan or
// Execute.
type Response interface {
	Mode() Mode
	sealed()
}

// Clarify asks the user questions. The document is echoed unchanged.
type Clarify struct {
	Questions []string
	Context   string
	Document  Document
}

// Plan proposes changes and waits for confirmation. The document is echoed
// unchanged.
type Plan struct {
	Summary   string
	Changes   []string
	Reasoning string
	Document  Document
}

// Execute replaces the document. Both halves are always non-empty when the
// caller's document was.
type Execute struct {
	Document Document
	Changes  []Change
	Summary  string
}

func (Clarify) Mode() Mode { return ModeClarify }
func (Plan) Mode() Mode    { return ModePlan }
func (Execute) Mode() Mode { return ModeExecute }

func (Clarify) sealed() {}
func (Plan) sealed()    {}
func (Execute) sealed() {}

// Normalize classifies a parsed model object and backfills missing fields from
// current. A missing or unrecognised mode is treated as execute.
func Normalize(obj map[string]any, current Document) Response {
	mode := Mode(strings.ToLower(strings.TrimSpace(str(obj["mode"]))))
	switch mode {
	case ModeClarify:
		q := stringList(obj["questions"])
		if len(q) == 0 {
			if s := str(obj["question"]); s != "" {
				q = []string{s}
			}
		}
		if len(q) == 0 {
			q = []string{"Could you describe in more detail what you would like to change?"}
		}
		return Clarify{Questions: q, Context: str(obj["context"]), Document: current}

	case ModePlan:
		src := obj
		if p, ok := obj["plan"].(map[string]any); ok {
			src = p
		}
		return Plan{
			Summary:   firstNonEmpty(str(src["summary"]), str(obj["summary"])),
			Changes:   planChanges(src["changes"]),
			Reasoning: firstNonEmpty(str(src["reasoning"]), str(obj["reasoning"])),
			Document:  current,
		}

	case ModeExecute, "":
	default:
		log.Printf("design: unrecognised mode %q, treating as execute", mode)
	}

	doc := Document{Markup: str(obj["updatedHtml"]), Stylesheet: str(obj["updatedCss"])}
	if strings.TrimSpace(doc.Markup) == "" {
		doc.Markup = current.Markup
	}
	if strings.TrimSpace(doc.Stylesheet) == "" {
		doc.Stylesheet = current.Stylesheet
	}
	summary := str(obj["summary"])
	if strings.TrimSpace(summary) == "" {
		summary = DefaultSummary
	}
	return Execute{Document: doc, Changes: executeChanges(obj["changes"]), Summary: summary}
}

// Render is the user-facing text for a response.
func Render(r Response) string {
	switch r := r.(type) {
	case Clarify:
		var b strings.Builder
		b.WriteString("Before I change anything, I have a few questions:\n")
		for i, q := range r.Questions {
			fmt.Fprintf(&b, "\n%d. %s", i+1, q)
		}
		if r.Context != "" {
			b.WriteString("\n\n" + r.Context)
		}
		return b.String()
	case Plan:
		var b strings.Builder
		b.WriteString("Here is what I propose")
		if r.Summary != "" {
			b.WriteString(": " + r.Summary)
		}
		b.WriteString("\n")
		for _, c := range r.Changes {
			b.WriteString("\n- " + c)
		}
		if r.Reasoning != "" {
			b.WriteString("\n\n" + r.Reasoning)
		}
		b.WriteString("\n\nReply \"go ahead\" to apply this plan, or tell me what to adjust. Nothing has been changed yet.")
		return b.String()
	case Execute:
		return r.Summary
	}
	return ""
}

func executeChanges(v any) []Change {
	list, ok := v.([]any)
	if !ok {
		return []Change{}
	}
	out := make([]Change, 0, len(list))
	for _, it := range list {
		switch c := it.(type) {
		case string:
			if c != "" {
				out = append(out, Change{Domain: DomainBoth, Description: c})
			}
		case map[string]any:
			d := firstNonEmpty(str(c["description"]), str(c["summary"]))
			if d == "" {
				continue
			}
			out = append(out, Change{
				Domain:      parseDomain(strings.ToLower(firstNonEmpty(str(c["domain"]), str(c["type"])))),
				Description: d,
				Reasoning:   str(c["reasoning"]),
			})
		}
	}
	return out
}

func planChanges(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, it := range list {
		switch c := it.(type) {
		case string:
			if c != "" {
				out = append(out, c)
			}
		case map[string]any:
			if d := str(c["description"]); d != "" {
				out = append(out, d)
			}
		}
	}
	return out
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// stringList reads a list of strings, skipping anything else.
func stringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, it := range list {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
