package indent

import "strings"

// Config is a language's compiled indentation metadata: the rule patterns
// (may be nil) and the bracket pairs, in the order the language configured
// them. Order matters: bracket scans are first-match-wins.
type Config struct {
	Rules    *RuleSet
	Brackets []BracketRule
}

// EstimateAction decides how the line cur should be indented relative to
// prev, the nearest non-blank line above it. hasPrev is false when no such
// line exists (first line of the buffer); the answer is then always
// ActionNone.
//
// Rule patterns are language-authored, higher-confidence signals and
// strictly override the generic bracket heuristics. When the rules have no
// opinion, bracket pairs decide: open-above plus close-here is
// IndentOutdent, open-above alone is Indent, close-here alone is Outdent.
//
// Positional onEnter rules (before/after-text matching) would slot in
// between the rule check and the bracket scans; they are parsed from
// configuration but not evaluated.
func EstimateAction(cfg *Config, prev string, hasPrev bool, cur string) Action {
	if !hasPrev || cfg == nil {
		return ActionNone
	}

	if cfg.Rules != nil {
		if action, ok := cfg.Rules.Estimate(prev, cur); ok {
			return action
		}
	}

	stripped := strings.TrimLeft(cur, " \t")

	if prev != "" && stripped != "" {
		for _, b := range cfg.Brackets {
			if b.MatchesOpen(prev) && b.MatchesClose(stripped) {
				return ActionIndentOutdent
			}
		}
	}
	if prev != "" {
		for _, b := range cfg.Brackets {
			if b.MatchesOpen(prev) {
				return ActionIndent
			}
		}
	}
	if stripped != "" {
		for _, b := range cfg.Brackets {
			if b.MatchesClose(stripped) {
				return ActionOutdent
			}
		}
	}
	return ActionNone
}
