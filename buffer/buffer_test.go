package buffer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReplaceLineUndoRedo(t *testing.T) {
	b := NewBuffer(4)
	b.Lines = []string{"if (x) {", "foo();"}
	b.savedSnapshot = strings.Join(b.Lines, "\n")
	b.Cursor = Cursor{Line: 1, Col: 3}

	b.ReplaceLine(1, "    foo();")
	if b.Lines[1] != "    foo();" {
		t.Fatalf("line = %q after replace", b.Lines[1])
	}
	if !b.Dirty {
		t.Fatal("replace should mark the buffer dirty")
	}

	b.ApplyUndo()
	if b.Lines[1] != "foo();" {
		t.Fatalf("line = %q after undo, want original", b.Lines[1])
	}
	if b.Dirty {
		t.Fatal("undo back to the saved snapshot should clear dirty")
	}

	b.ApplyRedo()
	if b.Lines[1] != "    foo();" {
		t.Fatalf("line = %q after redo", b.Lines[1])
	}
}

func TestReplaceLineSameTextIsNoOp(t *testing.T) {
	b := NewBuffer(4)
	b.Lines = []string{"same"}

	b.ReplaceLine(0, "same")
	if b.Undo.CanUndo() {
		t.Fatal("identical replacement must not record an undo entry")
	}
	if b.Dirty {
		t.Fatal("identical replacement must not dirty the buffer")
	}

	b.ReplaceLine(5, "out of range")
	if len(b.Lines) != 1 || b.Lines[0] != "same" {
		t.Fatalf("out-of-range replace mutated the buffer: %v", b.Lines)
	}
}

func TestInsertNewlineCopiesLeadingWhitespace(t *testing.T) {
	b := NewBuffer(4)
	b.Lines = []string{"    foo();"}
	b.Cursor = Cursor{Line: 0, Col: 10}

	b.InsertNewline()
	if len(b.Lines) != 2 || b.Lines[1] != "    " {
		t.Fatalf("lines = %q, want the indent carried down", b.Lines)
	}
	if b.Cursor.Line != 1 || b.Cursor.Col != 4 {
		t.Fatalf("cursor = %+v, want end of copied indent", b.Cursor)
	}
}

func TestBackspaceJoinsLines(t *testing.T) {
	b := NewBuffer(4)
	b.Lines = []string{"ab", "cd"}
	b.Cursor = Cursor{Line: 1, Col: 0}

	b.Backspace()
	if len(b.Lines) != 1 || b.Lines[0] != "abcd" {
		t.Fatalf("lines = %q", b.Lines)
	}
	if b.Cursor.Line != 0 || b.Cursor.Col != 2 {
		t.Fatalf("cursor = %+v", b.Cursor)
	}
}

func TestSelectionRoundTrip(t *testing.T) {
	b := NewBuffer(4)
	b.Lines = []string{"first", "second", "third"}
	sel := NewSelection(Cursor{Line: 0, Col: 2}, Cursor{Line: 2, Col: 3})
	b.Selection = &sel

	if got := b.GetSelectedText(); got != "rst\nsecond\nthi" {
		t.Fatalf("selected text = %q", got)
	}

	b.DeleteSelection()
	if len(b.Lines) != 1 || b.Lines[0] != "fird" {
		t.Fatalf("lines = %q after delete", b.Lines)
	}

	b.ApplyUndo()
	if strings.Join(b.Lines, "\n") != "first\nsecond\nthird" {
		t.Fatalf("undo did not restore the selection: %q", b.Lines)
	}
}

func TestBuildSaveContent(t *testing.T) {
	// BuildSaveContent writes its normalizations back into the buffer, so
	// each case gets a fresh one.
	fresh := func() *Buffer {
		b := NewBuffer(4)
		b.Lines = []string{"foo  ", "bar"}
		return b
	}

	if got := fresh().BuildSaveContent(true, true); got != "foo\nbar\n" {
		t.Fatalf("trim+newline: %q", got)
	}
	if got := fresh().BuildSaveContent(false, false); got != "foo  \nbar" {
		t.Fatalf("verbatim: %q", got)
	}

	b := fresh()
	b.LineEnding = "CRLF"
	if got := b.BuildSaveContent(false, true); got != "foo  \r\nbar\r\n" {
		t.Fatalf("crlf: %q", got)
	}
}

func TestNewBufferFromFileNormalizesLineEndings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crlf.txt")
	if err := os.WriteFile(path, []byte("one\r\ntwo\r\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	b, err := NewBufferFromFile(path, 4)
	if err != nil {
		t.Fatalf("NewBufferFromFile failed: %v", err)
	}
	if b.LineEnding != "CRLF" {
		t.Fatalf("line ending = %q, want CRLF", b.LineEnding)
	}
	for i, line := range b.Lines {
		if strings.ContainsAny(line, "\r\n") {
			t.Fatalf("line %d still carries a terminator: %q", i, line)
		}
	}
	if len(b.Lines) != 2 || b.Lines[0] != "one" || b.Lines[1] != "two" {
		t.Fatalf("lines = %q", b.Lines)
	}
}

func TestDetectIndentation(t *testing.T) {
	var spaceLines []string
	for i := 0; i < 10; i++ {
		spaceLines = append(spaceLines, "  indented")
	}
	if size, tabs := DetectIndentation(spaceLines); size != 2 || tabs {
		t.Fatalf("got (%d, %v), want (2, false)", size, tabs)
	}

	var tabLines []string
	for i := 0; i < 12; i++ {
		tabLines = append(tabLines, "\tindented")
	}
	if _, tabs := DetectIndentation(tabLines); !tabs {
		t.Fatal("expected tab detection")
	}
}
