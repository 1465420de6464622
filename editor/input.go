package editor

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"retab/buffer"
	"retab/clipboardx"
)

func (e *Editor) handleKey(ev *tcell.EventKey) {
	// Reset pending confirmations on any unrelated key
	if ev.Key() != tcell.KeyCtrlQ {
		e.quitPending = false
	}
	if ev.Key() != tcell.KeyCtrlW {
		e.closePending = false
	}

	// Global keybindings
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		e.handleQuit()
		return
	case tcell.KeyCtrlS:
		e.saveCurrentFile()
		return
	case tcell.KeyCtrlN:
		e.openEmptyBuffer()
		return
	case tcell.KeyCtrlW:
		e.closeCurrentBuffer()
		return
	case tcell.KeyCtrlZ:
		buf := e.activeBuffer()
		if buf != nil {
			// Ctrl+Shift+Z = Redo, Ctrl+Z = Undo
			if ev.Modifiers()&tcell.ModShift != 0 {
				buf.ApplyRedo()
			} else {
				buf.ApplyUndo()
			}
			e.markDirty()
			e.updateStatus()
		}
		return
	case tcell.KeyCtrlY:
		buf := e.activeBuffer()
		if buf != nil {
			buf.ApplyRedo()
			e.markDirty()
			e.updateStatus()
		}
		return
	case tcell.KeyCtrlC:
		e.copySelection()
		return
	case tcell.KeyCtrlX:
		e.cutSelection()
		return
	case tcell.KeyCtrlV:
		e.pasteClipboard()
		return
	case tcell.KeyCtrlA:
		buf := e.activeBuffer()
		if buf != nil {
			buf.SelectAll()
			e.updateStatus()
		}
		return
	case tcell.KeyEscape:
		buf := e.activeBuffer()
		if buf != nil {
			buf.Selection = nil
		}
		e.updateStatus()
		return
	case tcell.KeyTab, tcell.KeyBacktab:
		e.reindentCurrentLine()
		return
	}

	// Alt+Left/Right cycles buffers; Alt+I shows the indent decision
	if ev.Modifiers()&tcell.ModAlt != 0 {
		switch {
		case ev.Key() == tcell.KeyLeft:
			e.prevBuffer()
			return
		case ev.Key() == tcell.KeyRight:
			e.nextBuffer()
			return
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'i':
			e.showIndentAction()
			return
		}
	}

	buf := e.activeBuffer()
	if buf == nil {
		return
	}

	// Snap the view back to the cursor on keyboard input
	e.mouseScrolling = false

	shift := ev.Modifiers()&tcell.ModShift != 0
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0

	switch ev.Key() {
	case tcell.KeyUp:
		if shift {
			e.startOrExtendSelection(buf)
		} else {
			buf.Selection = nil
		}
		if buf.Cursor.Line > 0 {
			buf.Cursor.Line--
			e.clampCol(buf)
		}
		if shift {
			e.extendSelection(buf)
		}

	case tcell.KeyDown:
		if shift {
			e.startOrExtendSelection(buf)
		} else {
			buf.Selection = nil
		}
		if buf.Cursor.Line < len(buf.Lines)-1 {
			buf.Cursor.Line++
			e.clampCol(buf)
		}
		if shift {
			e.extendSelection(buf)
		}

	case tcell.KeyLeft:
		if shift {
			e.startOrExtendSelection(buf)
		} else {
			buf.Selection = nil
		}
		if buf.Cursor.Col > 0 {
			_, size := utf8.DecodeLastRuneInString(buf.Lines[buf.Cursor.Line][:buf.Cursor.Col])
			buf.Cursor.Col -= size
		} else if buf.Cursor.Line > 0 {
			buf.Cursor.Line--
			buf.Cursor.Col = len(buf.Lines[buf.Cursor.Line])
		}
		if shift {
			e.extendSelection(buf)
		}

	case tcell.KeyRight:
		if shift {
			e.startOrExtendSelection(buf)
		} else {
			buf.Selection = nil
		}
		if buf.Cursor.Col < len(buf.Lines[buf.Cursor.Line]) {
			_, size := utf8.DecodeRuneInString(buf.Lines[buf.Cursor.Line][buf.Cursor.Col:])
			buf.Cursor.Col += size
		} else if buf.Cursor.Line < len(buf.Lines)-1 {
			buf.Cursor.Line++
			buf.Cursor.Col = 0
		}
		if shift {
			e.extendSelection(buf)
		}

	case tcell.KeyHome:
		if shift {
			e.startOrExtendSelection(buf)
		} else {
			buf.Selection = nil
		}
		if ctrl {
			buf.Cursor.Line = 0
		}
		buf.Cursor.Col = 0
		if shift {
			e.extendSelection(buf)
		}

	case tcell.KeyEnd:
		if shift {
			e.startOrExtendSelection(buf)
		} else {
			buf.Selection = nil
		}
		if ctrl {
			buf.Cursor.Line = len(buf.Lines) - 1
		}
		buf.Cursor.Col = len(buf.Lines[buf.Cursor.Line])
		if shift {
			e.extendSelection(buf)
		}

	case tcell.KeyPgUp:
		_, _, _, h := e.editorLayout()
		buf.Cursor.Line -= h
		if buf.Cursor.Line < 0 {
			buf.Cursor.Line = 0
		}
		e.clampCol(buf)
		buf.Selection = nil

	case tcell.KeyPgDn:
		_, _, _, h := e.editorLayout()
		buf.Cursor.Line += h
		if buf.Cursor.Line >= len(buf.Lines) {
			buf.Cursor.Line = len(buf.Lines) - 1
		}
		e.clampCol(buf)
		buf.Selection = nil

	case tcell.KeyEnter:
		buf.InsertNewline()
		e.markDirty()

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		buf.Backspace()
		e.markDirty()

	case tcell.KeyDelete:
		buf.Delete()
		e.markDirty()

	case tcell.KeyRune:
		buf.InsertChar(ev.Rune())
		e.markDirty()
	}

	e.updateStatus()
}

func (e *Editor) handleQuit() {
	for _, buf := range e.buffers {
		if buf.Dirty {
			if e.quitPending {
				e.quit = true
				return
			}
			e.setTemporaryMessage("Unsaved changes! Press Ctrl+Q again to force quit.")
			e.quitPending = true
			return
		}
	}
	e.quit = true
}

func (e *Editor) handleMouse(ev *tcell.EventMouse) {
	buf := e.activeBuffer()
	view := e.activeView()
	if buf == nil || view == nil {
		return
	}

	mx, my := ev.Position()
	btn := ev.Buttons()
	ex, ey, _, eh := e.editorLayout()
	gutterW := e.gutterWidth()

	switch {
	case btn == tcell.WheelUp:
		view.scrollY -= 3
		if view.scrollY < 0 {
			view.scrollY = 0
		}
		e.mouseScrolling = true

	case btn == tcell.WheelDown:
		view.scrollY += 3
		maxScroll := len(buf.Lines) - eh + 1
		if maxScroll < 0 {
			maxScroll = 0
		}
		if view.scrollY > maxScroll {
			view.scrollY = maxScroll
		}
		e.mouseScrolling = true

	case btn == tcell.Button1:
		line := view.scrollY + my - ey
		if line < 0 {
			line = 0
		}
		if line >= len(buf.Lines) {
			line = len(buf.Lines) - 1
		}
		displayCol := mx - ex - gutterW + view.scrollX
		col := displayColToBufferCol(buf.Lines[line], displayCol, buf.TabSize)

		pos := buffer.Cursor{Line: line, Col: col}
		if !e.mouseDown {
			e.mouseDown = true
			e.mouseAnchor = pos
			buf.Selection = nil
		} else if !pos.Equal(e.mouseAnchor) {
			sel := buffer.NewSelection(e.mouseAnchor, pos)
			buf.Selection = &sel
		}
		buf.Cursor = pos
		e.updateStatus()

	case btn == tcell.ButtonNone:
		e.mouseDown = false
	}
}

// Selection helpers

var selectionAnchor *buffer.Cursor

func (e *Editor) startOrExtendSelection(buf *buffer.Buffer) {
	if buf.Selection == nil {
		selectionAnchor = &buffer.Cursor{Line: buf.Cursor.Line, Col: buf.Cursor.Col}
	}
}

func (e *Editor) extendSelection(buf *buffer.Buffer) {
	if selectionAnchor != nil {
		sel := buffer.NewSelection(*selectionAnchor, buf.Cursor)
		buf.Selection = &sel
	}
}

func (e *Editor) clampCol(buf *buffer.Buffer) {
	line := buf.Lines[buf.Cursor.Line]
	if buf.Cursor.Col > len(line) {
		buf.Cursor.Col = len(line)
	}
	// Vertical movement can land inside a multi-byte rune
	for buf.Cursor.Col > 0 && buf.Cursor.Col < len(line) && !utf8.RuneStart(line[buf.Cursor.Col]) {
		buf.Cursor.Col--
	}
}

// Clipboard operations

func (e *Editor) copySelection() {
	buf := e.activeBuffer()
	if buf == nil {
		return
	}

	var text string
	if buf.Selection != nil && !buf.Selection.Empty() {
		text = buf.GetSelectedText()
	} else if buf.Cursor.Line >= 0 && buf.Cursor.Line < len(buf.Lines) {
		// No selection: copy the whole current line including newline
		text = buf.Lines[buf.Cursor.Line] + "\n"
	}

	if text != "" {
		clipboardx.Write(text)
		e.setTemporaryMessage("Copied")
	}
}

func (e *Editor) cutSelection() {
	buf := e.activeBuffer()
	if buf == nil {
		return
	}

	var text string
	if buf.Selection != nil && !buf.Selection.Empty() {
		text = buf.GetSelectedText()
		clipboardx.Write(text)
		buf.DeleteSelection()
	} else if buf.Cursor.Line >= 0 && buf.Cursor.Line < len(buf.Lines) {
		// No selection: cut the whole current line
		text = buf.Lines[buf.Cursor.Line] + "\n"
		clipboardx.Write(text)
		end := buffer.Cursor{Line: buf.Cursor.Line + 1, Col: 0}
		if buf.Cursor.Line == len(buf.Lines)-1 {
			end = buffer.Cursor{Line: buf.Cursor.Line, Col: len(buf.Lines[buf.Cursor.Line])}
		}
		sel := buffer.NewSelection(buffer.Cursor{Line: buf.Cursor.Line, Col: 0}, end)
		buf.Selection = &sel
		buf.DeleteSelection()
	}

	if text != "" {
		e.setTemporaryMessage("Cut")
		e.markDirty()
	}
}

func (e *Editor) pasteClipboard() {
	text := clipboardx.Read()
	if text == "" {
		return
	}
	buf := e.activeBuffer()
	if buf == nil {
		return
	}
	buf.InsertText(text)
	e.markDirty()
}

func (e *Editor) markDirty() {
	buf := e.activeBuffer()
	if buf != nil {
		buf.RecomputeDirty()
		e.highlight.InvalidateCache(buf.Path)
	}
	e.updateStatus()
}

// Buffer navigation

func (e *Editor) nextBuffer() {
	if len(e.buffers) > 1 {
		e.switchBuffer((e.active + 1) % len(e.buffers))
	}
}

func (e *Editor) prevBuffer() {
	if len(e.buffers) > 1 {
		idx := e.active - 1
		if idx < 0 {
			idx = len(e.buffers) - 1
		}
		e.switchBuffer(idx)
	}
}
