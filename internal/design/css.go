package design

import (
	"regexp"
	"strings"
)

var rootBlock = regexp.MustCompile(`:root\s*\{`)

// setVar sets a CSS custom property. An existing declaration is rewritten in
// place; otherwise it is added to :root, creating the block if needed.
func setVar(css, name, value string) string {
	decl := regexp.MustCompile(`(^|[^\w-])(` + regexp.QuoteMeta(name) + `\s*:\s*)[^;}]*`)
	if decl.MatchString(css) {
		return decl.ReplaceAllString(css, "${1}${2}"+escapeRepl(value))
	}
	if loc := rootBlock.FindStringIndex(css); loc != nil {
		return css[:loc[1]] + "\n  " + name + ": " + value + ";" + css[loc[1]:]
	}
	return ":root {\n  " + name + ": " + value + ";\n}\n" + css
}

// appendBlock adds a marked CSS block once. A second call with the same
// marker replaces the earlier block.
func appendBlock(css, marker, block string) string {
	open := "/* " + marker + " */"
	closeTag := "/* end " + marker + " */"
	if i := strings.Index(css, open); i >= 0 {
		if j := strings.Index(css[i:], closeTag); j >= 0 {
			css = strings.TrimRight(css[:i], "\n") + css[i+j+len(closeTag):]
		}
	}
	css = strings.TrimRight(css, "\n")
	if css != "" {
		css += "\n\n"
	}
	return css + open + "\n" + strings.TrimSpace(block) + "\n" + closeTag + "\n"
}

// removeBlock drops a block added by appendBlock. Missing or unterminated
// blocks leave the stylesheet unchanged.
func removeBlock(css, marker string) string {
	open := "/* " + marker + " */"
	closeTag := "/* end " + marker + " */"
	i := strings.Index(css, open)
	if i < 0 {
		return css
	}
	j := strings.Index(css[i:], closeTag)
	if j < 0 {
		return css
	}
	head := strings.TrimRight(css[:i], "\n")
	tail := strings.TrimLeft(css[i+j+len(closeTag):], "\n")
	switch {
	case head == "":
		return tail
	case tail == "":
		return head + "\n"
	}
	return head + "\n\n" + tail
}

func escapeRepl(s string) string { return strings.ReplaceAll(s, "$", "$$") }
