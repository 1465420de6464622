package indent

import (
	"math"
	"strings"
)

// Host is the slice of editor state the reindent logic touches. The core
// never reaches for editor globals; the editor hands it an adapter and unit
// tests hand it a fake.
type Host interface {
	LineCount() int
	Line(i int) string
	Cursor() (line, col int)
	SelectionEmpty() bool
	ReplaceLine(i int, text string)
	SetCursor(line, col int)
	TabSize() int
	HardTabs() bool
}

// PreviousValidLine returns the nearest line above `line` that contains
// something other than whitespace, and false when no such line exists.
func PreviousValidLine(h Host, line int) (string, bool) {
	for i := line - 1; i >= 0; i-- {
		s := h.Line(i)
		if strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

// Reindent rewrites the cursor line's leading whitespace to match its
// structural context and repositions the cursor. It returns the action that
// was decided and whether the line's text actually changed.
//
// The whole thing is a pure function of (previous line, current line,
// config, cursor, tab settings) except for at most one line replacement and
// one cursor move. A range selection, or the absence of any non-blank line
// above the cursor, is a silent no-op.
func Reindent(h Host, cfg *Config) (Action, bool) {
	if !h.SelectionEmpty() {
		return ActionNone, false
	}
	row, col := h.Cursor()
	if row < 0 || row >= h.LineCount() {
		return ActionNone, false
	}
	prev, ok := PreviousValidLine(h, row)
	if !ok {
		return ActionNone, false
	}

	cur := h.Line(row)
	action := EstimateAction(cfg, prev, true, cur)

	tabSize := h.TabSize()
	if tabSize <= 0 {
		tabSize = 1
	}

	prevIndentText := LeadingWhitespace(prev)
	prevLevel := CountIndent(prevIndentText, tabSize)
	curIndentText := LeadingWhitespace(cur)
	curLevel := CountIndent(curIndentText, tabSize)

	ideal := prevLevel
	switch action {
	case ActionIndent, ActionIndentOutdent:
		ideal++
	case ActionOutdent:
		ideal--
	}
	if ideal < 0 {
		ideal = 0
	}

	changed := false
	if ideal != curLevel {
		var indentText string
		if ideal == prevLevel {
			// Target level equals the previous line's: reuse its indent text
			// byte-for-byte so a mixed tab/space style survives instead of
			// being normalized away.
			indentText = prevIndentText
		} else {
			indentText = IndentString(ideal, tabSize, h.HardTabs())
		}
		h.ReplaceLine(row, indentText+cur[len(curIndentText):])
		changed = true
	}

	switch {
	case col < len(curIndentText):
		// Cursor was inside the old leading whitespace: snap it to the first
		// non-blank column of the new indent.
		unit := tabSize
		if h.HardTabs() {
			unit = 1
		}
		if snapped := int(math.Round(ideal * float64(unit))); snapped != col {
			h.SetCursor(row, snapped)
		}
	case ideal != curLevel:
		// Cursor was in the line's content: keep its offset from the indent
		// boundary by shifting it with the inserted or removed whitespace.
		shifted := col + int(math.Round((ideal-curLevel)*float64(tabSize)))
		if shifted < 0 {
			shifted = 0
		}
		h.SetCursor(row, shifted)
	}
	return action, changed
}
