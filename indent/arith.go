package indent

import (
	"math"
	"strings"
)

// Indent levels are tab-stop-denominated and may be fractional: a run of
// spaces that does not divide evenly by the tab size still has to round-trip
// through the arithmetic without losing information.

// LeadingWhitespace returns the maximal leading run of spaces and tabs in
// line, possibly empty.
func LeadingWhitespace(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return line[:i]
		}
	}
	return line
}

// CountIndent converts leading-whitespace text to a numeric indent level:
// each tab counts one full level, each space 1/tabSize. Mixed tabs and
// spaces sum linearly; this is deliberately not visual-column arithmetic.
func CountIndent(whitespace string, tabSize int) float64 {
	if tabSize <= 0 {
		tabSize = 1
	}
	tabs := 0
	spaces := 0
	for i := 0; i < len(whitespace); i++ {
		switch whitespace[i] {
		case '\t':
			tabs++
		case ' ':
			spaces++
		}
	}
	return float64(tabs) + float64(spaces)/float64(tabSize)
}

// IndentString synthesizes indent text for a level. Hard-tab mode emits
// whole tabs (the level is expected to be integral there); soft-tab mode
// emits level*tabSize spaces.
func IndentString(level float64, tabSize int, hardTabs bool) string {
	if level <= 0 {
		return ""
	}
	if hardTabs {
		return strings.Repeat("\t", int(level))
	}
	return strings.Repeat(" ", int(math.Round(level*float64(tabSize))))
}
