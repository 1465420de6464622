package indent

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// BracketRule detects a bracket pair's open literal at the end of a line
// and its close literal at the start of one. The literals come straight
// from a language configuration's "brackets" list and may be words
// ("begin"/"end") as well as punctuation, so a word boundary is inserted
// next to literals that start or end with a word character.
type BracketRule struct {
	Open  string
	Close string

	openRe  Pattern
	closeRe Pattern
}

// NewBracketRule derives the open/close patterns for a literal pair. The
// patterns are compiled once and are side-effect-free to test repeatedly;
// a literal that somehow produces an uncompilable pattern degrades to
// never matching.
func NewBracketRule(open, close string) BracketRule {
	b := BracketRule{Open: open, Close: close}

	if open != "" {
		expr := regexp.QuoteMeta(open)
		if r, _ := utf8.DecodeRuneInString(open); isWordRune(r) {
			expr = `\b` + expr
		}
		b.openRe = CompilePattern(expr + `\s*$`)
	}
	if close != "" {
		expr := regexp.QuoteMeta(close)
		if r, _ := utf8.DecodeLastRuneInString(close); isWordRune(r) {
			expr += `\b`
		}
		b.closeRe = CompilePattern(`^\s*` + expr)
	}
	return b
}

// MatchesOpen reports whether line ends with the open literal.
func (b BracketRule) MatchesOpen(line string) bool { return b.openRe.Matches(line) }

// MatchesClose reports whether line starts with the close literal.
func (b BracketRule) MatchesClose(line string) bool { return b.closeRe.Matches(line) }

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
