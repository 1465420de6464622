package indent

// RuleSet is a language's declarative indentation rules: up to four
// optional patterns, each absent when not configured or malformed.
type RuleSet struct {
	// UnindentedLine marks previous lines that never cause an indent
	// (matching one suppresses the increase checks entirely).
	UnindentedLine Pattern
	// IncreaseIndent matches previous lines after which the next line
	// should go one level deeper.
	IncreaseIndent Pattern
	// DecreaseIndent matches current lines that should come back one level.
	DecreaseIndent Pattern
	// IndentNextLine matches previous lines that indent exactly the one
	// line below them.
	IndentNextLine Pattern
}

// Estimate applies the rule patterns to a (previous line, current line)
// pair. The bool result is false when no pattern fired at all, meaning the
// rules have no opinion and bracket scanning should decide instead.
//
// Precedence among the previous-line patterns is fixed and first match
// wins: an unindented line beats an increase match, which beats
// indent-next-line. The decrease check on the current line is independent
// and combines with whatever the previous line contributed.
func (r *RuleSet) Estimate(prev, cur string) (Action, bool) {
	delta := 0
	fired := false

	switch {
	case r.UnindentedLine.Matches(prev):
		fired = true
	case r.IncreaseIndent.Matches(prev):
		delta++
		fired = true
	case r.IndentNextLine.Matches(prev):
		delta++
		fired = true
	}

	if r.DecreaseIndent.Matches(cur) {
		delta--
		fired = true
	}

	if !fired {
		return ActionNone, false
	}
	switch {
	case delta > 0:
		return ActionIndent, true
	case delta < 0:
		return ActionOutdent, true
	default:
		return ActionNone, true
	}
}
