package design

import (
	"fmt"
	"regexp"
	"strings"

	"qrmenu/internal/briefing"
)

// RuleInput is what a fallback rule sees: the lower-cased instruction, its
// words, and the briefing (which may be nil).
type RuleInput struct {
	Text     string
	Words    map[string]bool
	Briefing *briefing.Briefing
}

func newRuleInput(instruction string, b *briefing.Briefing) RuleInput {
	text := strings.ToLower(instruction)
	words := map[string]bool{}
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		words[w] = true
	}
	return RuleInput{Text: text, Words: words, Briefing: b}
}

func (in RuleInput) has(words ...string) bool {
	for _, w := range words {
		if strings.Contains(w, " ") {
			if strings.Contains(in.Text, w) {
				return true
			}
		} else if in.Words[w] {
			return true
		}
	}
	return false
}

func (in RuleInput) palette() *briefing.Palette {
	if in.Briefing == nil || in.Briefing.Palette.Empty() {
		return nil
	}
	return in.Briefing.Palette
}

// Rule is one keyword-driven stylesheet rewrite.
type Rule struct {
	Name  string
	Match func(in RuleInput) bool
	Apply func(css string, in RuleInput) (string, Change)
}

// ApplyLocalRules rewrites the stylesheet without calling any model. Every
// matching rule fires in list order; when none match, the hover rule is
// applied so a turn always shows a change.
func ApplyLocalRules(instruction string, doc Document, b *briefing.Briefing) (Document, []Change) {
	return applyRules(Rules(), instruction, doc, b)
}

func applyRules(rules []Rule, instruction string, doc Document, b *briefing.Briefing) (Document, []Change) {
	in := newRuleInput(instruction, b)
	css := doc.Stylesheet
	var changes []Change
	for _, r := range rules {
		if !r.Match(in) {
			continue
		}
		var c Change
		css, c = r.Apply(css, in)
		changes = append(changes, c)
	}
	if len(changes) == 0 {
		var c Change
		css, c = hoverRule.Apply(css, in)
		changes = append(changes, c)
	}
	return Document{Markup: doc.Markup, Stylesheet: css}, changes
}

func cssChange(desc, why string) Change {
	return Change{Domain: DomainCSS, Description: desc, Reasoning: why}
}

type namedColor struct{ name, hex string }

var namedColors = []namedColor{
	{"red", "#dc2626"}, {"orange", "#ea580c"}, {"yellow", "#eab308"}, {"gold", "#d4af37"},
	{"green", "#16a34a"}, {"teal", "#0d9488"}, {"blue", "#2563eb"}, {"navy", "#1e3a8a"},
	{"purple", "#7c3aed"}, {"pink", "#db2777"}, {"brown", "#92400e"}, {"black", "#111111"},
	{"white", "#ffffff"}, {"gray", "#6b7280"}, {"grey", "#6b7280"},
}

var columnsRe = regexp.MustCompile(`\b(1|2|3|4|one|two|three|four|single)[\s-]+columns?\b`)

var columnWords = map[string]string{"1": "1", "single": "1", "one": "1", "2": "2", "two": "2", "3": "3", "three": "3", "4": "4", "four": "4"}

var hoverRule = Rule{
	Name:  "hover",
	Match: func(in RuleInput) bool { return in.has("hover", "animation", "animate", "animated", "interactive") },
	Apply: func(css string, _ RuleInput) (string, Change) {
		css = appendBlock(css, "hover", `
.menu-item {
  transition: transform 0.2s ease, box-shadow 0.2s ease;
}
.menu-item:hover {
  transform: translateY(-2px);
  box-shadow: 0 6px 16px rgba(0, 0, 0, 0.12);
}`)
		return css, cssChange("Added hover effect to menu items", "Motion on hover tells guests the items are tappable.")
	},
}

// Rules returns the fallback rule list in application order.
func Rules() []Rule {
	return []Rule{
		{
			Name: "brand-colors",
			Match: func(in RuleInput) bool {
				return in.palette() != nil && in.has("brand", "branding", "logo", "our colors", "our colours")
			},
			Apply: func(css string, in RuleInput) (string, Change) {
				p := in.palette()
				for _, kv := range [][2]string{
					{"--primary", p.Primary}, {"--secondary", p.Secondary},
					{"--accent", p.Accent}, {"--background", p.Background},
				} {
					if kv[1] != "" {
						css = setVar(css, kv[0], kv[1])
					}
				}
				return css, cssChange("Applied brand colors", "Colors come from the restaurant's extracted palette.")
			},
		},
		{
			Name: "named-color",
			Match: func(in RuleInput) bool {
				_, ok := pickColor(in)
				return ok
			},
			Apply: func(css string, in RuleInput) (string, Change) {
				c, _ := pickColor(in)
				target, label := "--accent", "accent"
				if in.has("background", "bg") {
					target, label = "--background", "background"
				} else if in.has("text", "font color", "font colour") {
					target, label = "--text", "text"
				}
				css = setVar(css, target, c.hex)
				return css, cssChange(fmt.Sprintf("Set %s color to %s", label, c.name), "")
			},
		},
		{
			Name:  "columns",
			Match: func(in RuleInput) bool { return columnsRe.MatchString(in.Text) || in.has("grid layout") },
			Apply: func(css string, in RuleInput) (string, Change) {
				n := "2"
				if m := columnsRe.FindStringSubmatch(in.Text); m != nil {
					n = columnWords[m[1]]
				}
				css = setVar(css, "--columns", n)
				css = appendBlock(css, "columns", `
.menu-items {
  display: grid;
  grid-template-columns: repeat(var(--columns), minmax(0, 1fr));
  gap: var(--spacing, 1rem);
}
@media (max-width: 480px) {
  .menu-items { grid-template-columns: 1fr; }
}`)
				return css, cssChange("Switched to a "+n+"-column layout", "Phones still fall back to one column.")
			},
		},
		{
			Name: "font-larger",
			Match: func(in RuleInput) bool {
				return in.has("font", "text", "fonts", "type") && in.has("bigger", "larger", "increase", "readable", "big")
			},
			Apply: func(css string, _ RuleInput) (string, Change) {
				return setVar(css, "--font-scale", "1.15"), cssChange("Increased font size", "Larger text is easier to read at table distance.")
			},
		},
		{
			Name: "font-smaller",
			Match: func(in RuleInput) bool {
				return in.has("font", "text", "fonts", "type") && in.has("smaller", "decrease", "reduce", "tiny")
			},
			Apply: func(css string, _ RuleInput) (string, Change) {
				return setVar(css, "--font-scale", "0.9"), cssChange("Decreased font size", "")
			},
		},
		{
			Name: "spacing-more",
			Match: func(in RuleInput) bool {
				return in.has("spacious", "breathing room", "more space", "more spacing", "more padding", "airy",
					"white space", "whitespace")
			},
			Apply: func(css string, _ RuleInput) (string, Change) {
				return setVar(css, "--spacing", "1.5rem"), cssChange("Increased spacing between items", "Whitespace makes each item easier to scan.")
			},
		},
		{
			Name: "spacing-less",
			Match: func(in RuleInput) bool {
				return in.has("compact", "tighter", "dense", "less space", "less spacing", "less padding")
			},
			Apply: func(css string, _ RuleInput) (string, Change) {
				return setVar(css, "--spacing", "0.5rem"), cssChange("Reduced spacing between items", "")
			},
		},
		{
			Name: "radius",
			Match: func(in RuleInput) bool {
				return in.has("rounded", "round corners", "radius", "sharp corners", "square corners")
			},
			Apply: func(css string, in RuleInput) (string, Change) {
				if in.has("sharp corners", "square corners") {
					return setVar(css, "--radius", "0"), cssChange("Removed rounded corners", "")
				}
				return setVar(css, "--radius", "16px"), cssChange("Rounded card corners", "")
			},
		},
		{
			Name:  "shadows",
			Match: func(in RuleInput) bool { return in.has("shadow", "shadows", "depth") },
			Apply: func(css string, in RuleInput) (string, Change) {
				if in.has("no shadow", "no shadows", "remove shadow", "remove shadows", "without shadow", "flat") {
					return setVar(css, "--shadow", "none"), cssChange("Removed shadows", "")
				}
				return setVar(css, "--shadow", "0 4px 12px rgba(0, 0, 0, 0.1)"), cssChange("Added shadows to cards", "Depth separates items from the background.")
			},
		},
		hoverRule,
		{
			Name:  "dark-mode",
			Match: func(in RuleInput) bool { return in.has("dark mode", "dark theme", "darker", "night mode") },
			Apply: func(css string, _ RuleInput) (string, Change) {
				css = setVar(css, "--background", "#0a0a0a")
				css = setVar(css, "--surface", "#171717")
				css = setVar(css, "--text", "#f5f5f5")
				return css, cssChange("Applied dark mode theme", "")
			},
		},
		{
			Name:  "light-mode",
			Match: func(in RuleInput) bool { return in.has("light mode", "light theme", "lighter", "day mode") },
			Apply: func(css string, _ RuleInput) (string, Change) {
				css = setVar(css, "--background", "#ffffff")
				css = setVar(css, "--surface", "#f9fafb")
				css = setVar(css, "--text", "#111111")
				return css, cssChange("Applied light mode theme", "")
			},
		},
		{
			Name: "highlight",
			Match: func(in RuleInput) bool {
				return in.has("highlight", "badge", "star", "stars", "featured", "bestseller", "bestsellers")
			},
			Apply: func(css string, _ RuleInput) (string, Change) {
				css = appendBlock(css, "highlight", `
.menu-item[data-bcg="star"], .menu-item.featured {
  border: 2px solid var(--accent, #d4af37);
  position: relative;
}
.menu-item[data-bcg="star"]::after, .menu-item.featured::after {
  content: "\2605  Chef's pick";
  position: absolute;
  top: -0.75rem;
  right: 0.75rem;
  padding: 0.1rem 0.5rem;
  font-size: 0.75rem;
  background: var(--accent, #d4af37);
  color: #fff;
  border-radius: 999px;
}`)
				return css, cssChange("Highlighted star items with a badge", "Badges draw attention to the most profitable popular items.")
			},
		},
		{
			Name:  "golden-triangle",
			Match: func(in RuleInput) bool { return in.has("golden triangle", "eye path", "sweet spot") },
			Apply: func(css string, _ RuleInput) (string, Change) {
				css = appendBlock(css, "golden-triangle", `
.menu-category:first-of-type .menu-item:nth-child(-n+3) {
  background: var(--surface, #fafafa);
  font-weight: 600;
}
.menu-category:first-of-type .menu-item:first-child {
  order: -1;
}`)
				return css, cssChange("Emphasized items in the golden triangle", "Guests look at the middle, top right, then top left first.")
			},
		},
		{
			Name:  "touch-targets",
			Match: func(in RuleInput) bool { return in.has("mobile", "touch", "tap", "thumb", "phone") },
			Apply: func(css string, _ RuleInput) (string, Change) {
				css = appendBlock(css, "touch-targets", `
.menu-item, button, a {
  min-height: 44px;
}
button, a {
  padding: 0.75rem 1rem;
}`)
				return css, cssChange("Enlarged touch targets for mobile", "44px is the minimum comfortable tap size.")
			},
		},
		{
			Name: "luxury",
			Match: func(in RuleInput) bool {
				return in.has("luxury", "luxurious", "elegant", "premium", "upscale", "fancy")
			},
			Apply: func(css string, _ RuleInput) (string, Change) {
				css = setVar(css, "--font-heading", `"Playfair Display", Georgia, serif`)
				css = setVar(css, "--accent", "#d4af37")
				css = setVar(css, "--background", "#111111")
				css = setVar(css, "--text", "#f5f0e6")
				return css, cssChange("Applied luxury style", "Serif headings and gold accents read as upscale.")
			},
		},
		{
			Name:  "minimalist",
			Match: func(in RuleInput) bool { return in.has("minimal", "minimalist", "clean", "simple", "simpler") },
			Apply: func(css string, _ RuleInput) (string, Change) {
				css = setVar(css, "--shadow", "none")
				css = setVar(css, "--radius", "0")
				css = setVar(css, "--font-body", `"Inter", system-ui, sans-serif`)
				css = removeBlock(css, "glass")
				css = removeBlock(css, "neon")
				return css, cssChange("Applied minimalist style", "")
			},
		},
		{
			Name:  "colorful",
			Match: func(in RuleInput) bool { return in.has("colorful", "colourful", "vibrant", "playful", "fun") },
			Apply: func(css string, _ RuleInput) (string, Change) {
				css = setVar(css, "--primary", "#f97316")
				css = setVar(css, "--secondary", "#8b5cf6")
				css = setVar(css, "--accent", "#ec4899")
				return css, cssChange("Applied colorful style", "")
			},
		},
		{
			Name:  "glassmorphism",
			Match: func(in RuleInput) bool { return in.has("glass", "glassmorphism", "frosted", "blur") },
			Apply: func(css string, _ RuleInput) (string, Change) {
				css = appendBlock(css, "glass", `
.menu-item {
  background: rgba(255, 255, 255, 0.15);
  backdrop-filter: blur(12px);
  -webkit-backdrop-filter: blur(12px);
  border: 1px solid rgba(255, 255, 255, 0.25);
}`)
				return css, cssChange("Applied glassmorphism effect", "")
			},
		},
		{
			Name:  "neon",
			Match: func(in RuleInput) bool { return in.has("neon", "cyberpunk", "glow", "glowing") },
			Apply: func(css string, _ RuleInput) (string, Change) {
				css = setVar(css, "--background", "#050014")
				css = setVar(css, "--accent", "#39ff14")
				css = appendBlock(css, "neon", `
h1, h2, .menu-item-name {
  text-shadow: 0 0 6px var(--accent), 0 0 12px var(--accent);
}`)
				return css, cssChange("Applied neon style", "")
			},
		},
		{
			Name:  "decoy-pricing",
			Match: func(in RuleInput) bool { return in.has("decoy", "anchor", "anchoring", "price anchor") },
			Apply: func(css string, _ RuleInput) (string, Change) {
				css = appendBlock(css, "decoy-pricing", `
.menu-item.decoy {
  order: -1;
  opacity: 0.85;
}
.menu-item.decoy + .menu-item {
  border-left: 3px solid var(--accent, #d4af37);
}
.menu-item-price {
  font-weight: 400;
}`)
				return css, cssChange("Arranged decoy pricing layout", "An expensive anchor item makes the next one look like good value.")
			},
		},
	}
}

func pickColor(in RuleInput) (namedColor, bool) {
	for _, c := range namedColors {
		// "white space" is about spacing, not color.
		if c.name == "white" && in.has("white space") {
			continue
		}
		if in.Words[c.name] {
			return c, true
		}
	}
	return namedColor{}, false
}
