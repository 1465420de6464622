package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"retab/buffer"
	"retab/config"
	"retab/highlight"
	"retab/langcfg"
	"retab/ui"
)

type Editor struct {
	screen  tcell.Screen
	buffers []*buffer.Buffer
	active  int
	cfg     *config.Config

	statusBar *ui.StatusBar
	highlight *highlight.Highlighter
	langs     *langcfg.Resolver

	// Per-buffer scroll state
	views map[*buffer.Buffer]*View

	quit         bool
	quitPending  bool // true after first Ctrl+Q with unsaved changes
	closePending bool // true after first Ctrl+W on a dirty buffer

	// Mouse drag tracking
	mouseDown   bool
	mouseAnchor buffer.Cursor

	// Skip ensureCursorVisible while the user wheel-scrolls
	mouseScrolling bool

	// Temporary status messages
	statusMessageTime time.Time
}

type View struct {
	scrollY int
	scrollX int
}

func New(cfg *config.Config) *Editor {
	return &Editor{
		cfg:       cfg,
		highlight: highlight.New(),
		views:     make(map[*buffer.Buffer]*View),
	}
}

func (e *Editor) Run(files []string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}

	screen.EnableMouse()
	screen.EnablePaste()
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()

	e.screen = screen
	e.statusBar = ui.NewStatusBar()
	e.langs = langcfg.NewResolver(config.LanguagesDir())

	if len(files) > 0 {
		for _, f := range files {
			absPath, _ := filepath.Abs(f)
			e.openFile(absPath)
		}
	} else if !e.RestoreSession() {
		e.openEmptyBuffer()
	}

	for !e.quit {
		e.clearExpiredMessages()
		e.render()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			e.handleKey(ev)
		case *tcell.EventMouse:
			e.handleMouse(ev)
		}
	}

	e.SaveSession()
	e.langs.Close()

	screen.Clear()
	screen.Fini()
	return nil
}

func (e *Editor) openFile(path string) {
	for i, buf := range e.buffers {
		if buf.Path == path {
			e.switchBuffer(i)
			return
		}
	}

	fileExists := true
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fileExists = false
	}

	buf, err := buffer.NewBufferFromFile(path, e.cfg.TabSize)
	if err != nil {
		e.setTemporaryMessage("Error: " + err.Error())
		return
	}
	buf.Language = highlight.DetectLanguage(path)
	e.applyFileSettings(buf)
	e.buffers = append(e.buffers, buf)
	e.views[buf] = &View{}
	e.active = len(e.buffers) - 1

	if !fileExists {
		e.setTemporaryMessage("New file: " + filepath.Base(path))
	} else if buf.ReadOnly {
		e.setTemporaryMessage("Binary file opened as read-only")
	}
	e.updateStatus()
}

func (e *Editor) openEmptyBuffer() {
	buf := buffer.NewBuffer(e.cfg.TabSize)
	e.buffers = append(e.buffers, buf)
	e.views[buf] = &View{}
	e.active = len(e.buffers) - 1
	e.updateStatus()
}

func (e *Editor) switchBuffer(idx int) {
	if idx >= 0 && idx < len(e.buffers) {
		e.active = idx
		e.closePending = false
		e.updateStatus()
	}
}

func (e *Editor) closeCurrentBuffer() {
	buf := e.activeBuffer()
	if buf == nil {
		return
	}
	if buf.Dirty && !e.closePending {
		e.setTemporaryMessage("Unsaved changes! Press Ctrl+W again to discard.")
		e.closePending = true
		return
	}
	e.closePending = false

	delete(e.views, buf)
	e.highlight.InvalidateCache(buf.Path)
	e.buffers = append(e.buffers[:e.active], e.buffers[e.active+1:]...)
	if len(e.buffers) == 0 {
		e.quit = true
		return
	}
	if e.active >= len(e.buffers) {
		e.active = len(e.buffers) - 1
	}
	e.updateStatus()
}

func (e *Editor) activeBuffer() *buffer.Buffer {
	if e.active >= 0 && e.active < len(e.buffers) {
		return e.buffers[e.active]
	}
	return nil
}

func (e *Editor) activeView() *View {
	buf := e.activeBuffer()
	if buf == nil {
		return nil
	}
	return e.views[buf]
}

func (e *Editor) saveCurrentFile() {
	buf := e.activeBuffer()
	if buf == nil {
		return
	}
	if buf.Path == "" {
		e.setTemporaryMessage("No file name; start the editor with a path to save")
		return
	}
	if err := buf.SaveWithOptions(e.cfg.TrimTrailingSpace, e.cfg.InsertFinalNewline); err != nil {
		e.setTemporaryMessage("Error saving: " + err.Error())
		return
	}
	e.setTemporaryMessage("Saved " + filepath.Base(buf.Path))
	e.updateStatus()
}

// applyFileSettings layers indentation settings: language defaults first,
// then .editorconfig when present.
func (e *Editor) applyFileSettings(buf *buffer.Buffer) {
	buf.TabSize = e.cfg.LanguageTabSize(buf.Language)
	buf.UseTabs = e.cfg.LanguageUseTabs(buf.Language)

	if buf.Path == "" {
		return
	}
	ec := config.FindEditorConfig(buf.Path)
	if ec == nil {
		return
	}
	if ec.IndentSize > 0 {
		buf.TabSize = ec.IndentSize
	}
	if ec.TabWidth > 0 {
		buf.TabSize = ec.TabWidth
	}
	switch ec.IndentStyle {
	case "tab":
		buf.UseTabs = true
	case "space":
		buf.UseTabs = false
	}
	switch ec.EndOfLine {
	case "crlf":
		buf.LineEnding = "CRLF"
	case "lf":
		buf.LineEnding = "LF"
	}
}

func (e *Editor) updateStatus() {
	buf := e.activeBuffer()
	if buf == nil {
		return
	}
	e.statusBar.Filename = filepath.Base(buf.Path)
	if e.statusBar.Filename == "." {
		e.statusBar.Filename = ""
	}
	e.statusBar.Dirty = buf.Dirty
	e.statusBar.Line = buf.Cursor.Line
	e.statusBar.Col = buf.Cursor.Col
	if buf.Cursor.Line < len(buf.Lines) {
		line := buf.Lines[buf.Cursor.Line]
		if buf.Cursor.Col <= len(line) {
			e.statusBar.Col = len([]rune(line[:buf.Cursor.Col]))
		}
	}
	e.statusBar.Language = buf.Language
	e.statusBar.LineEnd = buf.LineEnding
	e.statusBar.Encoding = buf.Encoding
	if e.statusBar.Encoding == "" {
		e.statusBar.Encoding = "UTF-8"
	}

	if buf.Selection != nil && !buf.Selection.Empty() {
		text := buf.GetSelectedText()
		e.statusBar.SelChars = len([]rune(text))
		e.statusBar.SelLines = buf.Selection.LineSpan()
	} else {
		e.statusBar.SelChars = 0
		e.statusBar.SelLines = 0
	}

	if buf.UseTabs {
		e.statusBar.TabInfo = "Tabs"
	} else {
		e.statusBar.TabInfo = fmt.Sprintf("Spaces: %d", buf.TabSize)
	}
}

func (e *Editor) editorLayout() (x, y, w, h int) {
	screenW, screenH := e.screen.Size()
	return 0, 0, screenW, screenH - 1 // -1 for status bar
}

// setTemporaryMessage sets a message that auto-clears after 5 seconds.
func (e *Editor) setTemporaryMessage(msg string) {
	e.statusBar.Message = msg
	e.statusMessageTime = time.Now()
}

func (e *Editor) clearExpiredMessages() {
	if !e.statusMessageTime.IsZero() && time.Since(e.statusMessageTime) > 5*time.Second {
		e.statusBar.Message = ""
		e.statusMessageTime = time.Time{}
	}
}
