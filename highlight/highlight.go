package highlight

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/gdamore/tcell/v2"
)

type Token struct {
	Text  string
	Style tcell.Style
}

type StyledLine struct {
	Tokens []Token
}

// Highlighter tokenizes buffer content with chroma and memoizes the
// styled lines per file, keyed by content hash and visible range so
// scrolling an unchanged buffer never re-tokenizes.
type Highlighter struct {
	cache map[string]map[string][]StyledLine
}

func New() *Highlighter {
	return &Highlighter{cache: make(map[string]map[string][]StyledLine)}
}

// InvalidateCache drops every memoized range for one file. Called on edit.
func (h *Highlighter) InvalidateCache(path string) {
	delete(h.cache, path)
}

// DetectLanguage returns chroma's language name for a filename, or ""
// when no lexer matches.
func DetectLanguage(filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		return ""
	}
	cfg := lexer.Config()
	if cfg == nil {
		return ""
	}
	return cfg.Name
}

// HighlightLines styles lines [startLine, endLine) of code. Tokenization
// starts 50 lines above the window so multi-line constructs that begin
// off-screen still color correctly.
func (h *Highlighter) HighlightLines(path, code, lang string, startLine, endLine int) []StyledLine {
	lines := strings.Split(code, "\n")
	if endLine > len(lines) {
		endLine = len(lines)
	}
	if startLine < 0 {
		startLine = 0
	}
	if startLine >= endLine {
		return nil
	}

	key := fmt.Sprintf("%s:%d:%d:%x", lang, startLine, endLine, sha256.Sum256([]byte(code)))
	if cached, ok := h.cache[path][key]; ok {
		return cached
	}

	contextStart := startLine - 50
	if contextStart < 0 {
		contextStart = 0
	}

	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iter, err := lexer.Tokenise(nil, strings.Join(lines[contextStart:endLine], "\n"))
	if err != nil {
		plain := make([]StyledLine, endLine-startLine)
		for i := range plain {
			plain[i] = StyledLine{Tokens: []Token{{Text: lines[startLine+i], Style: tcell.StyleDefault}}}
		}
		return plain
	}

	styled := make([]StyledLine, endLine-contextStart)
	row := 0
	for _, tok := range iter.Tokens() {
		style := tokenStyle(tok.Type)
		for i, part := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				row++
			}
			if row >= len(styled) {
				break
			}
			if part != "" {
				styled[row].Tokens = append(styled[row].Tokens, Token{Text: part, Style: style})
			}
		}
	}

	result := styled[startLine-contextStart:]
	if h.cache[path] == nil {
		h.cache[path] = make(map[string][]StyledLine)
	}
	h.cache[path][key] = result
	return result
}

func tokenStyle(t chroma.TokenType) tcell.Style {
	base := tcell.StyleDefault

	switch {
	case t.InCategory(chroma.Keyword):
		return base.Foreground(tcell.ColorBlue).Bold(true)
	case t.InSubCategory(chroma.LiteralString):
		return base.Foreground(tcell.ColorGreen)
	case t.InSubCategory(chroma.LiteralNumber):
		return base.Foreground(tcell.ColorDarkCyan)
	case t.InCategory(chroma.Comment):
		return base.Foreground(tcell.ColorGray).Italic(true)
	case t == chroma.NameBuiltin || t == chroma.NameBuiltinPseudo:
		return base.Foreground(tcell.ColorBlue)
	case t == chroma.NameFunction || t == chroma.NameFunctionMagic:
		return base.Foreground(tcell.ColorYellow)
	case t == chroma.NameClass || t == chroma.NameException || t == chroma.NameDecorator:
		return base.Foreground(tcell.ColorFuchsia)
	case t.InCategory(chroma.Operator), t == chroma.Punctuation:
		return base.Foreground(tcell.ColorWhite)
	default:
		return base.Foreground(tcell.ColorWhite)
	}
}
