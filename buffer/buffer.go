package buffer

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"
)

type Buffer struct {
	Lines        []string
	Path         string
	Cursor       Cursor
	Selection    *Selection
	Dirty        bool
	Undo         *UndoStack
	Language     string
	ReadOnly     bool
	TabSize      int
	UseTabs      bool      // Use real tabs instead of spaces
	LineEnding   string    // "LF" or "CRLF", detected from file and preserved on save
	Encoding     string    // Detected encoding (UTF-8, Latin-1, etc.)
	LastSaveTime time.Time // Track when file was last saved

	savedSnapshot string
}

func NewBuffer(tabSize int) *Buffer {
	return &Buffer{
		Lines:         []string{""},
		Undo:          NewUndoStack(),
		TabSize:       tabSize,
		LineEnding:    "LF",
		Encoding:      "UTF-8",
		savedSnapshot: "",
	}
}

func NewBufferFromFile(path string, tabSize int) (*Buffer, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet - start with an empty buffer at this path
			b := NewBuffer(tabSize)
			b.Path = path
			return b, nil
		}
		return nil, err
	}

	if info.Size() > 100*1024*1024 { // 100MB
		return nil, fmt.Errorf("file too large (%d MB), max supported is 100 MB", info.Size()/(1024*1024))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Binary file detection: check first 8KB for null bytes
	checkLen := len(data)
	if checkLen > 8192 {
		checkLen = 8192
	}
	isBinary := false
	for i := 0; i < checkLen; i++ {
		if data[i] == 0 {
			isBinary = true
			break
		}
	}

	encoding := detectEncoding(data)

	// Line terminators are normalized here, once; the rest of the editor
	// only ever sees terminator-free lines.
	lineEnding := "LF"
	if strings.Contains(string(data), "\r\n") {
		lineEnding = "CRLF"
	}
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.TrimRight(content, "\n")
	lines := strings.Split(content, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}

	detectedTabSize, detectedUseTabs := DetectIndentation(lines)

	return &Buffer{
		Lines:         lines,
		Path:          path,
		Undo:          NewUndoStack(),
		TabSize:       detectedTabSize,
		UseTabs:       detectedUseTabs,
		ReadOnly:      isBinary,
		LineEnding:    lineEnding,
		Encoding:      encoding,
		savedSnapshot: strings.Join(lines, "\n"),
	}, nil
}

// detectEncoding checks BOM and validates UTF-8 to determine file encoding.
func detectEncoding(data []byte) string {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return "UTF-8 BOM"
	}
	if len(data) >= 2 {
		if data[0] == 0xFF && data[1] == 0xFE {
			return "UTF-16 LE"
		}
		if data[0] == 0xFE && data[1] == 0xFF {
			return "UTF-16 BE"
		}
	}
	if utf8.Valid(data) {
		return "UTF-8"
	}
	return "Latin-1"
}

// DetectIndentation analyzes file content to detect the indentation style.
// Returns (tabSize, useTabs) based on the most common leading-whitespace
// pattern; mixed or thin evidence falls back to 4-space soft tabs.
func DetectIndentation(lines []string) (int, bool) {
	tabLines := 0
	spaceIndents := make(map[int]int)

	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		spaces, tabs := 0, 0
		for _, ch := range line {
			if ch == '\t' {
				tabs++
			} else if ch == ' ' {
				spaces++
			} else {
				break
			}
		}
		if tabs > 0 {
			tabLines++
		}
		if spaces > 0 && tabs == 0 {
			for _, size := range []int{2, 4, 8} {
				if spaces%size == 0 {
					spaceIndents[size]++
				}
			}
		}
	}

	if tabLines > 10 {
		return 4, true // real tabs, 4-column visual width
	}

	maxCount, detected := 0, 4
	for size, count := range spaceIndents {
		if count > maxCount {
			maxCount = count
			detected = size
		}
	}
	if maxCount > 5 {
		return detected, false
	}
	return 4, false
}

func (b *Buffer) Save() error {
	return b.SaveWithOptions(true, true)
}

// BuildSaveContent serializes the buffer content for writing to disk.
// When insertFinalNewline is enabled, output is normalized to exactly one
// trailing newline on disk.
func (b *Buffer) BuildSaveContent(trimTrailing, insertFinalNewline bool) string {
	lines := make([]string, len(b.Lines))
	copy(lines, b.Lines)

	if trimTrailing {
		for i, line := range lines {
			lines[i] = strings.TrimRight(line, " \t")
		}
	}

	if insertFinalNewline {
		for len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		lines = append(lines, "")
	}

	eol := "\n"
	if b.LineEnding == "CRLF" {
		eol = "\r\n"
	}

	content := strings.Join(lines, eol)
	if insertFinalNewline && len(lines) == 1 && lines[0] == "" {
		content = eol
	}

	b.Lines = lines
	return content
}

// SaveWithOptions saves with configurable trim and final newline behavior.
func (b *Buffer) SaveWithOptions(trimTrailing, insertFinalNewline bool) error {
	if b.Path == "" || b.ReadOnly {
		return nil
	}

	content := b.BuildSaveContent(trimTrailing, insertFinalNewline)

	err := os.WriteFile(b.Path, []byte(content), 0644)
	if err == nil {
		b.MarkSaved()
		b.LastSaveTime = time.Now()
	}
	return err
}

func (b *Buffer) currentSnapshot() string {
	return strings.Join(b.Lines, "\n")
}

func (b *Buffer) MarkSaved() {
	b.savedSnapshot = b.currentSnapshot()
	b.Dirty = false
}

func (b *Buffer) RecomputeDirty() {
	b.Dirty = b.currentSnapshot() != b.savedSnapshot
}

func (b *Buffer) clampCursor() {
	if len(b.Lines) == 0 {
		b.Lines = []string{""}
	}
	if b.Cursor.Line < 0 {
		b.Cursor.Line = 0
	}
	if b.Cursor.Line >= len(b.Lines) {
		b.Cursor.Line = len(b.Lines) - 1
	}
	lineLen := len(b.Lines[b.Cursor.Line])
	if b.Cursor.Col < 0 {
		b.Cursor.Col = 0
	}
	if b.Cursor.Col > lineLen {
		b.Cursor.Col = lineLen
	}
}

func (b *Buffer) InsertChar(ch rune) {
	b.deleteSelectionIfAny()
	b.clampCursor()
	line := b.Lines[b.Cursor.Line]
	before := b.Cursor

	text := string(ch)
	b.Lines[b.Cursor.Line] = line[:b.Cursor.Col] + text + line[b.Cursor.Col:]
	b.Cursor.Col += len(text)
	b.Dirty = true
	b.Undo.Push(Operation{Type: OpInsert, Pos: before, Text: text, Before: before})
}

func (b *Buffer) InsertNewline() {
	b.deleteSelectionIfAny()
	b.clampCursor()
	line := b.Lines[b.Cursor.Line]
	before := b.Cursor

	// Auto-indent: copy leading whitespace from the current line. Anything
	// smarter is the reindent command's job.
	indent := ""
	for _, ch := range line {
		if ch == ' ' || ch == '\t' {
			indent += string(ch)
		} else {
			break
		}
	}

	rest := line[b.Cursor.Col:]
	b.Lines[b.Cursor.Line] = line[:b.Cursor.Col]
	newLine := indent + rest
	b.Lines = append(b.Lines, "")
	copy(b.Lines[b.Cursor.Line+2:], b.Lines[b.Cursor.Line+1:])
	b.Lines[b.Cursor.Line+1] = newLine
	b.Cursor.Line++
	b.Cursor.Col = len(indent)
	b.Dirty = true
	b.Undo.Push(Operation{Type: OpInsert, Pos: before, Text: "\n" + indent, Before: before})
}

func (b *Buffer) Backspace() {
	if b.deleteSelectionIfAny() {
		return
	}
	b.clampCursor()
	if b.Cursor.Col > 0 {
		line := b.Lines[b.Cursor.Line]
		before := b.Cursor
		_, size := utf8.DecodeLastRuneInString(line[:b.Cursor.Col])
		deleted := line[b.Cursor.Col-size : b.Cursor.Col]
		b.Lines[b.Cursor.Line] = line[:b.Cursor.Col-size] + line[b.Cursor.Col:]
		b.Cursor.Col -= size
		b.Dirty = true
		b.Undo.Push(Operation{Type: OpDelete, Pos: b.Cursor, Text: deleted, Before: before})
	} else if b.Cursor.Line > 0 {
		before := b.Cursor
		prevLen := len(b.Lines[b.Cursor.Line-1])
		b.Lines[b.Cursor.Line-1] += b.Lines[b.Cursor.Line]
		b.Lines = append(b.Lines[:b.Cursor.Line], b.Lines[b.Cursor.Line+1:]...)
		b.Cursor.Line--
		b.Cursor.Col = prevLen
		b.Dirty = true
		b.Undo.Push(Operation{Type: OpDelete, Pos: b.Cursor, Text: "\n", Before: before})
	}
}

func (b *Buffer) Delete() {
	if b.deleteSelectionIfAny() {
		return
	}
	b.clampCursor()
	line := b.Lines[b.Cursor.Line]
	if b.Cursor.Col < len(line) {
		before := b.Cursor
		_, size := utf8.DecodeRuneInString(line[b.Cursor.Col:])
		deleted := line[b.Cursor.Col : b.Cursor.Col+size]
		b.Lines[b.Cursor.Line] = line[:b.Cursor.Col] + line[b.Cursor.Col+size:]
		b.Dirty = true
		b.Undo.Push(Operation{Type: OpDelete, Pos: b.Cursor, Text: deleted, Before: before})
	} else if b.Cursor.Line < len(b.Lines)-1 {
		before := b.Cursor
		b.Lines[b.Cursor.Line] += b.Lines[b.Cursor.Line+1]
		b.Lines = append(b.Lines[:b.Cursor.Line+1], b.Lines[b.Cursor.Line+2:]...)
		b.Dirty = true
		b.Undo.Push(Operation{Type: OpDelete, Pos: b.Cursor, Text: "\n", Before: before})
	}
}

func (b *Buffer) deleteSelectionIfAny() bool {
	if b.Selection == nil || b.Selection.Empty() {
		b.Selection = nil
		return false
	}
	b.DeleteSelection()
	return true
}

func (b *Buffer) DeleteSelection() {
	if b.Selection == nil {
		return
	}
	sel := *b.Selection
	text := b.GetSelectedText()
	before := b.Cursor

	if sel.Start.Line < 0 || sel.Start.Line >= len(b.Lines) ||
		sel.End.Line < 0 || sel.End.Line >= len(b.Lines) {
		b.Selection = nil
		return
	}

	if sel.Start.Line == sel.End.Line {
		line := b.Lines[sel.Start.Line]
		startCol := clampCol(sel.Start.Col, line)
		endCol := clampCol(sel.End.Col, line)
		b.Lines[sel.Start.Line] = line[:startCol] + line[endCol:]
	} else {
		firstLine := b.Lines[sel.Start.Line]
		lastLine := b.Lines[sel.End.Line]
		startCol := clampCol(sel.Start.Col, firstLine)
		endCol := clampCol(sel.End.Col, lastLine)
		b.Lines[sel.Start.Line] = firstLine[:startCol] + lastLine[endCol:]
		b.Lines = append(b.Lines[:sel.Start.Line+1], b.Lines[sel.End.Line+1:]...)
	}

	b.Cursor = sel.Start
	b.Selection = nil
	b.clampCursor()
	b.Dirty = true
	b.Undo.Push(Operation{Type: OpDelete, Pos: sel.Start, Text: text, Before: before})
}

func (b *Buffer) GetSelectedText() string {
	if b.Selection == nil {
		return ""
	}
	sel := *b.Selection
	if sel.Start.Line < 0 || sel.Start.Line >= len(b.Lines) ||
		sel.End.Line < 0 || sel.End.Line >= len(b.Lines) {
		return ""
	}

	if sel.Start.Line == sel.End.Line {
		line := b.Lines[sel.Start.Line]
		return line[clampCol(sel.Start.Col, line):clampCol(sel.End.Col, line)]
	}

	var sb strings.Builder
	firstLine := b.Lines[sel.Start.Line]
	sb.WriteString(firstLine[clampCol(sel.Start.Col, firstLine):])
	for i := sel.Start.Line + 1; i < sel.End.Line; i++ {
		sb.WriteByte('\n')
		sb.WriteString(b.Lines[i])
	}
	sb.WriteByte('\n')
	lastLine := b.Lines[sel.End.Line]
	sb.WriteString(lastLine[:clampCol(sel.End.Col, lastLine)])
	return sb.String()
}

func clampCol(col int, line string) int {
	if col < 0 {
		return 0
	}
	if col > len(line) {
		return len(line)
	}
	return col
}

func (b *Buffer) InsertText(text string) {
	b.deleteSelectionIfAny()
	b.clampCursor()
	before := b.Cursor

	lines := strings.Split(text, "\n")
	line := b.Lines[b.Cursor.Line]
	if len(lines) == 1 {
		b.Lines[b.Cursor.Line] = line[:b.Cursor.Col] + text + line[b.Cursor.Col:]
		b.Cursor.Col += len(text)
	} else {
		rest := line[b.Cursor.Col:]
		b.Lines[b.Cursor.Line] = line[:b.Cursor.Col] + lines[0]

		newLines := make([]string, len(lines)-1)
		copy(newLines, lines[1:])
		newLines[len(newLines)-1] += rest

		after := make([]string, len(b.Lines)-b.Cursor.Line-1)
		copy(after, b.Lines[b.Cursor.Line+1:])
		b.Lines = append(b.Lines[:b.Cursor.Line+1], newLines...)
		b.Lines = append(b.Lines, after...)

		b.Cursor.Line += len(lines) - 1
		b.Cursor.Col = len(lines[len(lines)-1])
	}

	b.Dirty = true
	b.Undo.Push(Operation{Type: OpInsert, Pos: before, Text: text, Before: before})
}

// ReplaceLine swaps the entire text of one line, recorded as a grouped
// delete+insert so a single undo restores it.
func (b *Buffer) ReplaceLine(line int, text string) {
	if line < 0 || line >= len(b.Lines) {
		return
	}
	old := b.Lines[line]
	if old == text {
		return
	}
	before := b.Cursor
	b.Lines[line] = text
	b.Dirty = true

	group := b.Undo.NewGroup()
	b.Undo.PushGrouped(Operation{Type: OpDelete, Pos: Cursor{Line: line}, Text: old, Before: before}, group)
	b.Undo.PushGrouped(Operation{Type: OpInsert, Pos: Cursor{Line: line}, Text: text, Before: before}, group)
}

func (b *Buffer) SelectAll() {
	if len(b.Lines) == 0 {
		return
	}
	lastLine := len(b.Lines) - 1
	b.Selection = &Selection{
		Start: Cursor{Line: 0, Col: 0},
		End:   Cursor{Line: lastLine, Col: len(b.Lines[lastLine])},
	}
	b.Cursor = b.Selection.End
}

// ApplyUndo unwinds the newest operation group: the inversions replay in
// reverse-chronological order and the cursor lands where the earliest op
// started.
func (b *Buffer) ApplyUndo() {
	group, ok := b.Undo.PopUndo()
	if !ok {
		return
	}
	for i := len(group) - 1; i >= 0; i-- {
		b.undoOp(group[i])
	}
	b.Cursor = group[0].Before
	b.Selection = nil
	b.clampCursor()
	b.RecomputeDirty()
}

// ApplyRedo replays the newest undone group forward and lands the cursor
// after the most recent op.
func (b *Buffer) ApplyRedo() {
	group, ok := b.Undo.PopRedo()
	if !ok {
		return
	}
	for _, op := range group {
		b.redoOp(op)
	}
	last := group[len(group)-1]
	if last.Type == OpInsert {
		b.Cursor = b.posAfterInsert(last.Pos, last.Text)
	} else {
		b.Cursor = last.Pos
	}
	b.Selection = nil
	b.clampCursor()
	b.RecomputeDirty()
}

func (b *Buffer) undoOp(op Operation) {
	switch op.Type {
	case OpInsert:
		b.removeText(op.Pos, op.Text)
	case OpDelete:
		b.insertTextAt(op.Pos, op.Text)
	}
}

func (b *Buffer) redoOp(op Operation) {
	switch op.Type {
	case OpInsert:
		b.insertTextAt(op.Pos, op.Text)
	case OpDelete:
		b.removeText(op.Pos, op.Text)
	}
}

func (b *Buffer) insertTextAt(pos Cursor, text string) {
	if len(text) == 0 || pos.Line >= len(b.Lines) {
		return
	}
	line := b.Lines[pos.Line]
	if pos.Col > len(line) {
		pos.Col = len(line)
	}

	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		b.Lines[pos.Line] = line[:pos.Col] + text + line[pos.Col:]
	} else {
		rest := line[pos.Col:]
		b.Lines[pos.Line] = line[:pos.Col] + lines[0]

		newLines := make([]string, len(lines)-1)
		copy(newLines, lines[1:])
		newLines[len(newLines)-1] += rest

		after := make([]string, len(b.Lines)-pos.Line-1)
		copy(after, b.Lines[pos.Line+1:])
		b.Lines = append(b.Lines[:pos.Line+1], newLines...)
		b.Lines = append(b.Lines, after...)
	}
}

func (b *Buffer) removeText(pos Cursor, text string) {
	if len(text) == 0 || pos.Line >= len(b.Lines) {
		return
	}
	line := b.Lines[pos.Line]
	if pos.Col > len(line) {
		pos.Col = len(line)
	}

	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		end := pos.Col + len(text)
		if end > len(line) {
			end = len(line)
		}
		b.Lines[pos.Line] = line[:pos.Col] + line[end:]
	} else {
		firstPart := line[:pos.Col]
		lastLineIdx := pos.Line + len(lines) - 1
		if lastLineIdx >= len(b.Lines) {
			lastLineIdx = len(b.Lines) - 1
		}
		lastLineLen := len(lines[len(lines)-1])
		lastLine := b.Lines[lastLineIdx]
		lastPart := ""
		if lastLineLen < len(lastLine) {
			lastPart = lastLine[lastLineLen:]
		}
		b.Lines[pos.Line] = firstPart + lastPart
		b.Lines = append(b.Lines[:pos.Line+1], b.Lines[lastLineIdx+1:]...)
	}
}

func (b *Buffer) posAfterInsert(pos Cursor, text string) Cursor {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return Cursor{Line: pos.Line, Col: pos.Col + len(text)}
	}
	return Cursor{
		Line: pos.Line + len(lines) - 1,
		Col:  len(lines[len(lines)-1]),
	}
}
