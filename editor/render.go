package editor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"retab/buffer"
	"retab/highlight"
)

// bufferColToDisplayCol converts a byte column to a display column,
// expanding tabs and accounting for wide characters.
func bufferColToDisplayCol(line string, bufCol int, tabSize int) int {
	displayCol := 0
	for i, r := range line {
		if i >= bufCol {
			break
		}
		if r == '\t' {
			displayCol += tabSize - (displayCol % tabSize)
		} else {
			displayCol += runewidth.RuneWidth(r)
		}
	}
	return displayCol
}

// displayColToBufferCol is the inverse mapping, used for mouse clicks.
// The returned column is a byte offset on a rune boundary.
func displayColToBufferCol(line string, targetDisplayCol int, tabSize int) int {
	if targetDisplayCol <= 0 {
		return 0
	}

	displayCol := 0
	for i, r := range line {
		if displayCol >= targetDisplayCol {
			return i
		}
		if r == '\t' {
			displayCol += tabSize - (displayCol % tabSize)
		} else {
			displayCol += runewidth.RuneWidth(r)
		}
	}
	return len(line)
}

func (e *Editor) render() {
	theme := e.cfg.GetTheme()

	defaultStyle := tcell.StyleDefault.Background(theme.Background).Foreground(theme.Foreground)
	e.screen.SetStyle(defaultStyle)
	e.screen.Clear()

	screenW, screenH := e.screen.Size()
	e.statusBar.Theme = theme

	ex, ey, ew, eh := e.editorLayout()
	e.renderEditor(ex, ey, ew, eh)

	e.statusBar.Render(e.screen, 0, screenH-1, screenW)

	// Hardware cursor
	buf := e.activeBuffer()
	view := e.activeView()
	shown := false
	if buf != nil && view != nil && buf.Cursor.Line >= 0 && buf.Cursor.Line < len(buf.Lines) {
		gutterW := e.gutterWidth()
		cursorX := ex + gutterW + bufferColToDisplayCol(buf.Lines[buf.Cursor.Line], buf.Cursor.Col, buf.TabSize) - view.scrollX
		cursorY := ey + buf.Cursor.Line - view.scrollY
		if buf.Cursor.Line >= view.scrollY &&
			cursorX >= ex+gutterW && cursorX < ex+ew &&
			cursorY >= ey && cursorY < ey+eh {
			e.screen.ShowCursor(cursorX, cursorY)
			shown = true
		}
	}
	if !shown {
		e.screen.HideCursor()
	}

	e.screen.Show()
}

func (e *Editor) renderEditor(x, y, w, h int) {
	buf := e.activeBuffer()
	view := e.activeView()
	if buf == nil || view == nil {
		return
	}

	gutterW := e.gutterWidth()
	textW := w - gutterW
	if textW <= 0 {
		return
	}

	if !e.mouseScrolling {
		e.ensureCursorVisible(view, buf, textW, h)
	}

	theme := e.cfg.GetTheme()
	gutterStyle := tcell.StyleDefault.Background(theme.Background).Foreground(theme.LineNumber)
	activeGutterStyle := tcell.StyleDefault.Background(theme.Background).Foreground(theme.LineNumberActive)
	lineStyle := tcell.StyleDefault.Background(theme.Background).Foreground(theme.Foreground)
	selStyle := tcell.StyleDefault.Background(theme.Selection).Foreground(theme.Foreground)

	startLine := view.scrollY
	endLine := startLine + h
	if endLine > len(buf.Lines) {
		endLine = len(buf.Lines)
	}

	var styledLines []highlight.StyledLine
	if buf.Language != "" && startLine < endLine {
		code := strings.Join(buf.Lines, "\n")
		styledLines = e.highlight.HighlightLines(buf.Path, code, buf.Language, startLine, endLine)
	}

	for row := 0; row < h; row++ {
		screenY := y + row
		lineIdx := startLine + row

		if lineIdx >= len(buf.Lines) {
			e.screen.SetContent(x, screenY, '~', nil, gutterStyle)
			continue
		}

		// Line number gutter
		lineNum := fmt.Sprintf("%*d ", gutterW-1, lineIdx+1)
		numStyle := gutterStyle
		if lineIdx == buf.Cursor.Line {
			numStyle = activeGutterStyle
		}
		for i, ch := range lineNum {
			e.screen.SetContent(x+i, screenY, ch, nil, numStyle)
		}

		line := buf.Lines[lineIdx]
		var tokens []highlight.Token
		if idx := lineIdx - startLine; styledLines != nil && idx >= 0 && idx < len(styledLines) {
			tokens = styledLines[idx].Tokens
		}
		if tokens == nil {
			tokens = []highlight.Token{{Text: line, Style: lineStyle}}
		}

		col := 0        // byte position in the line, for selection checks
		displayCol := 0 // visual column with tabs expanded
		screenCol := x + gutterW

		for _, tok := range tokens {
			for _, ch := range tok.Text {
				style := tok.Style.Background(theme.Background)
				if e.isSelected(buf, lineIdx, col) {
					style = selStyle
				}

				if ch == '\t' {
					tabWidth := buf.TabSize - (displayCol % buf.TabSize)
					for i := 0; i < tabWidth; i++ {
						sc := displayCol - view.scrollX
						if sc >= 0 && sc < textW {
							e.screen.SetContent(screenCol+sc, screenY, ' ', nil, style)
						}
						displayCol++
					}
				} else {
					sc := displayCol - view.scrollX
					if sc >= 0 && sc < textW {
						e.screen.SetContent(screenCol+sc, screenY, ch, nil, style)
					}
					displayCol += runewidth.RuneWidth(ch)
				}
				col += utf8.RuneLen(ch)
			}
		}

		// Clear the rest of the line, keeping the selection highlight on
		// the virtual newline cell for multi-line selections.
		startClear := displayCol - view.scrollX
		if startClear < 0 {
			startClear = 0
		}
		for c := startClear; c < textW; c++ {
			style := lineStyle
			if c == startClear && e.isSelected(buf, lineIdx, len(line)) {
				style = selStyle
			}
			e.screen.SetContent(screenCol+c, screenY, ' ', nil, style)
		}
	}
}

func (e *Editor) gutterWidth() int {
	buf := e.activeBuffer()
	if buf == nil {
		return 2
	}
	digits := 1
	for lines := len(buf.Lines); lines >= 10; lines /= 10 {
		digits++
	}
	return digits + 1
}

func (e *Editor) ensureCursorVisible(view *View, buf *buffer.Buffer, textW, textH int) {
	const scrollMargin = 5

	if buf.Cursor.Line >= len(buf.Lines) {
		buf.Cursor.Line = len(buf.Lines) - 1
	}
	if buf.Cursor.Line < 0 {
		buf.Cursor.Line = 0
	}

	margin := scrollMargin
	if margin > textH/2 {
		margin = textH / 2
	}

	if buf.Cursor.Line-view.scrollY < margin {
		view.scrollY = buf.Cursor.Line - margin
		if view.scrollY < 0 {
			view.scrollY = 0
		}
	}
	if buf.Cursor.Line-view.scrollY > textH-1-margin {
		view.scrollY = buf.Cursor.Line - (textH - 1 - margin)
	}

	// Horizontal; scrollX is in display columns
	cursorDisplayCol := bufferColToDisplayCol(buf.Lines[buf.Cursor.Line], buf.Cursor.Col, buf.TabSize)
	if cursorDisplayCol < view.scrollX {
		view.scrollX = cursorDisplayCol
	}
	rightLimit := (textW * 7) / 10
	if rightLimit < 1 {
		rightLimit = 1
	}
	if rightLimit >= textW {
		rightLimit = textW - 1
	}
	if cursorDisplayCol > view.scrollX+rightLimit {
		view.scrollX = cursorDisplayCol - rightLimit
	}
}

func (e *Editor) isSelected(buf *buffer.Buffer, line, col int) bool {
	if buf.Selection == nil {
		return false
	}
	return buf.Selection.Contains(buffer.Cursor{Line: line, Col: col})
}
