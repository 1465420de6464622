package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"retab/config"
)

// StatusBar is the single-row bar at the bottom of the screen. A
// non-empty Message temporarily replaces the file info on the left.
type StatusBar struct {
	Filename string
	Dirty    bool
	Line     int
	Col      int
	Language string
	Encoding string
	LineEnd  string
	TabInfo  string // "Tabs" or "Spaces: 4"
	Message  string
	SelChars int
	SelLines int
	Theme    *config.ColorScheme
}

func NewStatusBar() *StatusBar {
	return &StatusBar{
		Encoding: "UTF-8",
		LineEnd:  "LF",
	}
}

func (s *StatusBar) Render(screen tcell.Screen, x, y, width int) {
	theme := s.Theme
	if theme == nil {
		theme = config.Themes["monokai"]
	}

	style := tcell.StyleDefault.Background(theme.StatusBarBg).Foreground(theme.StatusBarFg)
	nameStyle := tcell.StyleDefault.Background(theme.StatusBarModeBg).Foreground(tcell.ColorWhite).Bold(true)

	for cx := x; cx < x+width; cx++ {
		screen.SetContent(cx, y, ' ', nil, style)
	}

	col := x
	put := func(text string, st tcell.Style) {
		for _, ch := range text {
			if col >= x+width {
				return
			}
			screen.SetContent(col, y, ch, nil, st)
			col++
		}
	}

	name := s.Filename
	if name == "" {
		name = "untitled"
	}
	if s.Dirty {
		name += " *"
	}
	put(" "+name+" ", nameStyle)
	put(" ", style)

	if s.Message != "" {
		put(s.Message, style)
		return
	}

	lang := s.Language
	if lang == "" {
		lang = "Plain Text"
	}
	tabInfo := s.TabInfo
	if tabInfo == "" {
		tabInfo = "Spaces: 4"
	}

	var right string
	if s.SelChars > 0 {
		right = fmt.Sprintf("Sel: %d chars, %d lines │ Ln %d, Col %d │ %s │ %s │ %s │ %s ",
			s.SelChars, s.SelLines, s.Line+1, s.Col+1, lang, s.Encoding, s.LineEnd, tabInfo)
	} else {
		right = fmt.Sprintf("Ln %d, Col %d │ %s │ %s │ %s │ %s ",
			s.Line+1, s.Col+1, lang, s.Encoding, s.LineEnd, tabInfo)
	}

	runes := []rune(right)
	start := x + width - len(runes)
	if start > col+2 {
		for i, ch := range runes {
			screen.SetContent(start+i, y, ch, nil, style)
		}
	}
}
