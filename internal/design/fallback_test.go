package design

import (
	"strings"
	"testing"

	"qrmenu/internal/briefing"
	"qrmenu/internal/tester"
)

const baseCSS = `:root {
  --background: #ffffff;
  --text: #111111;
  --accent: #2563eb;
  --card-background: #fafafa;
}
.menu-item { padding: var(--spacing); }
`

func TestFallback_DarkMode(t *testing.T) {
	doc, changes := ApplyLocalRules("dark mode", Document{Markup: "<main></main>", Stylesheet: baseCSS}, nil)
	tester.Contains(t, doc.Stylesheet, "--background: #0a0a0a;")
	tester.Contains(t, doc.Stylesheet, "--card-background: #fafafa;")
	tester.Eq(t, doc.Markup, "<main></main>")
	tester.Eq(t, len(changes), 1)
	tester.Eq(t, changes[0].Description, "Applied dark mode theme")
}

func TestFallback_NoMatchAddsHover(t *testing.T) {
	for _, instr := range []string{"", "make it nicer", "asdfgh"} {
		doc, changes := ApplyLocalRules(instr, Document{Stylesheet: baseCSS}, nil)
		tester.Eq(t, len(changes), 1, instr)
		tester.Eq(t, changes[0].Description, "Added hover effect to menu items")
		tester.Contains(t, doc.Stylesheet, ".menu-item:hover")
	}
}

func TestFallback_RulesAreCumulativeInListOrder(t *testing.T) {
	_, changes := ApplyLocalRules("Use dark mode, rounded corners and a red accent", Document{Stylesheet: baseCSS}, nil)
	var got []string
	for _, c := range changes {
		got = append(got, c.Description)
	}
	tester.Eq(t, got, []string{"Set accent color to red", "Rounded card corners", "Applied dark mode theme"})
}

func TestFallback_NamedColorTargets(t *testing.T) {
	doc, changes := ApplyLocalRules("make the background green", Document{Stylesheet: baseCSS}, nil)
	tester.Contains(t, doc.Stylesheet, "--background: #16a34a;")
	tester.Eq(t, changes[0].Description, "Set background color to green")
}

func TestFallback_BrandColorsNeedPalette(t *testing.T) {
	_, changes := ApplyLocalRules("use our brand colors", Document{Stylesheet: baseCSS}, nil)
	tester.Eq(t, changes[0].Description, "Added hover effect to menu items")

	b := &briefing.Briefing{Palette: &briefing.Palette{Primary: "#aa0000", Accent: "#00aa00"}}
	doc, changes := ApplyLocalRules("use our brand colors", Document{Stylesheet: baseCSS}, b)
	tester.Eq(t, changes[0].Description, "Applied brand colors")
	tester.Contains(t, doc.Stylesheet, "--accent: #00aa00;")
	tester.Contains(t, doc.Stylesheet, "--primary: #aa0000;")
}

func TestFallback_Columns(t *testing.T) {
	doc, changes := ApplyLocalRules("show three columns", Document{Stylesheet: baseCSS}, nil)
	tester.Eq(t, changes[0].Description, "Switched to a 3-column layout")
	tester.Contains(t, doc.Stylesheet, "--columns: 3;")
	tester.Contains(t, doc.Stylesheet, "grid-template-columns")
}

func TestFallback_BlocksAreNotDuplicated(t *testing.T) {
	doc, _ := ApplyLocalRules("add hover", Document{Stylesheet: baseCSS}, nil)
	doc, _ = ApplyLocalRules("add hover", doc, nil)
	tester.Eq(t, strings.Count(doc.Stylesheet, "/* hover */"), 1)
}

func TestFallback_EveryRuleProducesAChange(t *testing.T) {
	b := &briefing.Briefing{Palette: &briefing.Palette{Primary: "#123456"}}
	for _, instr := range []string{
		"brand colors", "blue accent", "2 columns", "bigger font", "smaller text",
		"more spacious", "compact", "sharp corners", "remove shadows", "hover",
		"light mode", "highlight stars", "golden triangle", "mobile friendly",
		"luxury", "minimalist", "colorful", "glassmorphism", "neon", "decoy pricing",
	} {
		doc, changes := ApplyLocalRules(instr, Document{Markup: "<p>x</p>", Stylesheet: baseCSS}, b)
		tester.True(t, len(changes) > 0, "no change for %q", instr)
		tester.True(t, doc.Stylesheet != "", "empty stylesheet for %q", instr)
		tester.Eq(t, doc.Markup, "<p>x</p>")
	}
}

func TestSetVar_AddsRootWhenMissing(t *testing.T) {
	out := setVar("body { margin: 0; }", "--radius", "8px")
	tester.True(t, strings.HasPrefix(out, ":root {\n  --radius: 8px;\n}"), out)
	out = setVar(":root {\n}\n", "--radius", "8px")
	tester.Contains(t, out, ":root {\n  --radius: 8px;")
}

func TestFallback_WhiteSpaceIsSpacingNotColor(t *testing.T) {
	for _, instr := range []string{"add more white space between items", "more whitespace please"} {
		doc, changes := ApplyLocalRules(instr, Document{Stylesheet: baseCSS}, nil)
		tester.Eq(t, len(changes), 1, instr)
		tester.Eq(t, changes[0].Description, "Increased spacing between items", instr)
		tester.Contains(t, doc.Stylesheet, "--spacing: 1.5rem;")
		tester.Contains(t, doc.Stylesheet, "--accent: #2563eb;")
	}

	doc, changes := ApplyLocalRules("white text", Document{Stylesheet: baseCSS}, nil)
	tester.Eq(t, changes[0].Description, "Set text color to white")
	tester.Contains(t, doc.Stylesheet, "--text: #ffffff;")
}

func TestFallback_MinimalistDropsDecorativeBlocks(t *testing.T) {
	doc, _ := ApplyLocalRules("glassmorphism with neon and hover", Document{Stylesheet: baseCSS}, nil)
	tester.Contains(t, doc.Stylesheet, "/* glass */")
	tester.Contains(t, doc.Stylesheet, "/* neon */")

	doc, _ = ApplyLocalRules("make it minimalist", doc, nil)
	tester.False(t, strings.Contains(doc.Stylesheet, "/* glass */"), doc.Stylesheet)
	tester.False(t, strings.Contains(doc.Stylesheet, "/* neon */"), doc.Stylesheet)
	tester.Contains(t, doc.Stylesheet, "/* hover */")
	tester.Contains(t, doc.Stylesheet, "--shadow: none;")
}

func TestRemoveBlock(t *testing.T) {
	css := appendBlock("body { margin: 0; }", "a", ".a { color: red; }")
	css = appendBlock(css, "b", ".b { color: blue; }")

	out := removeBlock(css, "a")
	tester.Eq(t, out, "body { margin: 0; }\n\n/* b */\n.b { color: blue; }\n/* end b */\n")
	tester.Eq(t, removeBlock(out, "b"), "body { margin: 0; }\n")
	tester.Eq(t, removeBlock(appendBlock("", "c", ".c {}"), "c"), "")
	tester.Eq(t, removeBlock(css, "missing"), css)
}
