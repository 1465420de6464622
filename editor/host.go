package editor

import (
	"retab/buffer"
	"retab/indent"
	"retab/langcfg"
)

// bufferHost adapts a Buffer to the view of editor state the indent
// package works against.
type bufferHost struct {
	buf *buffer.Buffer
}

func (h bufferHost) LineCount() int    { return len(h.buf.Lines) }
func (h bufferHost) Line(i int) string { return h.buf.Lines[i] }
func (h bufferHost) TabSize() int      { return h.buf.TabSize }
func (h bufferHost) HardTabs() bool    { return h.buf.UseTabs }

func (h bufferHost) Cursor() (line, col int) {
	return h.buf.Cursor.Line, h.buf.Cursor.Col
}

func (h bufferHost) SelectionEmpty() bool {
	return h.buf.Selection == nil || h.buf.Selection.Empty()
}

func (h bufferHost) ReplaceLine(i int, text string) {
	h.buf.ReplaceLine(i, text)
}

func (h bufferHost) SetCursor(line, col int) {
	h.buf.Cursor = buffer.Cursor{Line: line, Col: col}
}

// resolveIndentConfig looks up the compiled indentation rules for the
// buffer's language. The bool is false for unknown or unconfigured
// languages.
func (e *Editor) resolveIndentConfig(buf *buffer.Buffer) (*indent.Config, bool) {
	if buf.Language == "" {
		return nil, false
	}
	return e.langs.Resolve(langcfg.NormalizeID(buf.Language))
}

// reindentCurrentLine rewrites the cursor line's leading whitespace to
// match its structural context and snaps the cursor along with it.
func (e *Editor) reindentCurrentLine() {
	buf := e.activeBuffer()
	if buf == nil || buf.ReadOnly {
		return
	}
	if buf.Selection != nil && !buf.Selection.Empty() {
		return
	}

	cfg, ok := e.resolveIndentConfig(buf)
	if !ok {
		lang := buf.Language
		if lang == "" {
			lang = "this buffer"
		}
		e.setTemporaryMessage("No indentation rules for " + lang)
		return
	}

	_, changed := indent.Reindent(bufferHost{buf}, cfg)
	if changed {
		e.markDirty()
	}
	e.updateStatus()
}

// showIndentAction runs the same decision as reindentCurrentLine but only
// reports the outcome, without touching the buffer.
func (e *Editor) showIndentAction() {
	buf := e.activeBuffer()
	if buf == nil {
		return
	}
	cfg, ok := e.resolveIndentConfig(buf)
	if !ok {
		lang := buf.Language
		if lang == "" {
			lang = "this buffer"
		}
		e.setTemporaryMessage("No indentation rules for " + lang)
		return
	}

	row := buf.Cursor.Line
	if row < 0 || row >= len(buf.Lines) {
		return
	}
	prev, hasPrev := indent.PreviousValidLine(bufferHost{buf}, row)
	action := indent.EstimateAction(cfg, prev, hasPrev, buf.Lines[row])
	e.setTemporaryMessage("Indent action: " + action.String())
}
