package indent

// Action is the outcome of an indentation decision for a single line:
// keep the previous line's level, go one tab-stop deeper, one shallower,
// or deeper-then-shallower (a line that both closes the block above and
// opens a new one, like a lone "}" after "if (x) {").
type Action int

const (
	ActionNone Action = iota
	ActionIndent
	ActionOutdent
	ActionIndentOutdent
)

func (a Action) String() string {
	switch a {
	case ActionIndent:
		return "Indent"
	case ActionOutdent:
		return "Outdent"
	case ActionIndentOutdent:
		return "IndentOutdent"
	default:
		return "Keep"
	}
}
