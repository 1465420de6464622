package indent

import "github.com/dlclark/regexp2"

// Pattern wraps a compiled regular expression that may be absent. Language
// configuration files carry JavaScript-flavored regexes (lookarounds and
// all), so patterns go through regexp2 rather than the stdlib engine. A
// pattern that is empty or fails to compile never matches; bad patterns in
// a configuration file are a fact of life, not an error.
type Pattern struct {
	re *regexp2.Regexp
}

// CompilePattern compiles expr into a Pattern. An empty or malformed
// expression yields an absent Pattern.
func CompilePattern(expr string) Pattern {
	if expr == "" {
		return Pattern{}
	}
	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return Pattern{}
	}
	return Pattern{re: re}
}

// Ok reports whether the pattern compiled and can match.
func (p Pattern) Ok() bool { return p.re != nil }

// Matches reports whether the pattern matches s. An absent pattern, or a
// match that errors out (regexp2 can time out on pathological input),
// counts as no match.
func (p Pattern) Matches(s string) bool {
	if p.re == nil {
		return false
	}
	ok, err := p.re.MatchString(s)
	return err == nil && ok
}
