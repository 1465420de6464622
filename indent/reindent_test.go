package indent

import "testing"

// fakeHost is an in-memory Host for exercising Reindent without an editor.
type fakeHost struct {
	lines    []string
	line     int
	col      int
	hasSel   bool
	tabSize  int
	hardTabs bool
	replaces int
}

func (h *fakeHost) LineCount() int       { return len(h.lines) }
func (h *fakeHost) Line(i int) string    { return h.lines[i] }
func (h *fakeHost) Cursor() (int, int)   { return h.line, h.col }
func (h *fakeHost) SelectionEmpty() bool { return !h.hasSel }
func (h *fakeHost) TabSize() int         { return h.tabSize }
func (h *fakeHost) HardTabs() bool       { return h.hardTabs }
func (h *fakeHost) SetCursor(line, col int) {
	h.line, h.col = line, col
}

func (h *fakeHost) ReplaceLine(i int, text string) {
	h.lines[i] = text
	h.replaces++
}

func TestReindentIndentsAfterOpenBrace(t *testing.T) {
	h := &fakeHost{
		lines:   []string{"if (x) {", "foo();"},
		line:    1,
		tabSize: 4,
	}

	action, changed := Reindent(h, braceConfig())
	if action != ActionIndent || !changed {
		t.Fatalf("got (%v, %v), want (Indent, true)", action, changed)
	}
	if h.lines[1] != "    foo();" {
		t.Fatalf("line = %q, want %q", h.lines[1], "    foo();")
	}
	// Cursor sat in the line's content (column 0 of an unindented line)
	// and shifts with the inserted whitespace.
	if h.col != 4 {
		t.Fatalf("cursor col = %d, want 4", h.col)
	}
}

func TestReindentIsIdempotent(t *testing.T) {
	h := &fakeHost{
		lines:   []string{"if (x) {", "    foo();"},
		line:    1,
		col:     8,
		tabSize: 4,
	}

	action, changed := Reindent(h, braceConfig())
	if action != ActionIndent {
		t.Fatalf("action = %v, want Indent", action)
	}
	if changed || h.replaces != 0 {
		t.Fatal("second reindent of an already-ideal line must not touch the text")
	}
	if h.col != 8 {
		t.Fatalf("cursor col = %d, want 8 (unchanged)", h.col)
	}
}

func TestReindentPreservesMixedIndentFromPreviousLine(t *testing.T) {
	// Target level equals the previous line's, and that line mixes a tab
	// with spaces. The new indent reuses those bytes instead of being
	// regenerated from the tab width.
	h := &fakeHost{
		lines:   []string{"\t  foo", "        bar"},
		line:    1,
		col:     9,
		tabSize: 4,
	}

	_, changed := Reindent(h, &Config{})
	if !changed {
		t.Fatal("expected the line to change")
	}
	if h.lines[1] != "\t  bar" {
		t.Fatalf("line = %q, want %q", h.lines[1], "\t  bar")
	}
}

func TestReindentSnapsCursorInsideIndent(t *testing.T) {
	// Cursor at column 1 inside a 4-space leading run, on a line that
	// needs two tab stops (tabSize 4, soft tabs). It lands at the first
	// non-blank column, 8.
	h := &fakeHost{
		lines:   []string{"    if (x) {", "    body();"},
		line:    1,
		col:     1,
		tabSize: 4,
	}

	action, changed := Reindent(h, braceConfig())
	if action != ActionIndent || !changed {
		t.Fatalf("got (%v, %v), want (Indent, true)", action, changed)
	}
	if h.lines[1] != "        body();" {
		t.Fatalf("line = %q", h.lines[1])
	}
	if h.col != 8 {
		t.Fatalf("cursor col = %d, want 8", h.col)
	}
}

func TestReindentPreservesCursorOffsetPastIndent(t *testing.T) {
	// Cursor at column 6 on a level-1 line that becomes level 2: it
	// shifts by the four inserted spaces to column 10.
	h := &fakeHost{
		lines:   []string{"    if (x) {", "    body();"},
		line:    1,
		col:     6,
		tabSize: 4,
	}

	if _, changed := Reindent(h, braceConfig()); !changed {
		t.Fatal("expected the line to change")
	}
	if h.col != 10 {
		t.Fatalf("cursor col = %d, want 10", h.col)
	}
}

func TestReindentHardTabs(t *testing.T) {
	h := &fakeHost{
		lines:    []string{"\tif (x) {", "\t\t\tbody();"},
		line:     1,
		col:      1,
		tabSize:  4,
		hardTabs: true,
	}

	if _, changed := Reindent(h, braceConfig()); !changed {
		t.Fatal("expected the line to change")
	}
	if h.lines[1] != "\t\tbody();" {
		t.Fatalf("line = %q, want %q", h.lines[1], "\t\tbody();")
	}
	// Under hard tabs a tab stop is one native character: first non-blank
	// column is 2.
	if h.col != 2 {
		t.Fatalf("cursor col = %d, want 2", h.col)
	}
}

func TestReindentClampsAtLevelZero(t *testing.T) {
	h := &fakeHost{
		lines:   []string{"foo();", "}"},
		line:    1,
		tabSize: 4,
	}

	action, changed := Reindent(h, braceConfig())
	if action != ActionOutdent {
		t.Fatalf("action = %v, want Outdent", action)
	}
	if changed {
		t.Fatal("level already 0, outdent clamps and leaves the line alone")
	}
	if h.lines[1] != "}" {
		t.Fatalf("line = %q", h.lines[1])
	}
}

func TestReindentNoPreviousValidLine(t *testing.T) {
	h := &fakeHost{
		lines:   []string{"   ", "  body();"},
		line:    1,
		col:     2,
		tabSize: 4,
	}

	action, changed := Reindent(h, braceConfig())
	if action != ActionNone || changed {
		t.Fatalf("got (%v, %v), want silent no-op", action, changed)
	}
	if h.lines[1] != "  body();" {
		t.Fatalf("line mutated to %q", h.lines[1])
	}
}

func TestReindentRangeSelectionIsNoOp(t *testing.T) {
	h := &fakeHost{
		lines:   []string{"if (x) {", "foo();"},
		line:    1,
		hasSel:  true,
		tabSize: 4,
	}

	if action, changed := Reindent(h, braceConfig()); action != ActionNone || changed {
		t.Fatalf("got (%v, %v), want no-op for a range selection", action, changed)
	}
}

func TestPreviousValidLineSkipsBlanks(t *testing.T) {
	h := &fakeHost{lines: []string{"first", "   ", "", "cur"}}

	prev, ok := PreviousValidLine(h, 3)
	if !ok || prev != "first" {
		t.Fatalf("got (%q, %v), want (\"first\", true)", prev, ok)
	}

	if _, ok := PreviousValidLine(h, 0); ok {
		t.Fatal("first line has no previous valid line")
	}
}
