package design

// Document is the markup/stylesheet pair being edited. Both halves are always
// complete strings; a Document is replaced whole, never patched in place.
type Document struct {
	Markup     string `json:"markup"`
	Stylesheet string `json:"stylesheet"`
}

type Domain string

const (
	DomainHTML Domain = "html"
	DomainCSS  Domain = "css"
	DomainBoth Domain = "both"
)

func parseDomain(s string) Domain {
	switch Domain(s) {
	case DomainHTML, DomainCSS, DomainBoth:
		return Domain(s)
	}
	return DomainBoth
}

// Change describes one edit for display. It cannot be replayed.
type Change struct {
	Domain      Domain `json:"domain"`
	Description string `json:"description"`
	Reasoning   string `json:"reasoning,omitempty"`
}

// Turn is one prior message in the conversation window.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
