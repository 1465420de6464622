// Package langcfg locates and parses per-language indentation metadata in
// the language-configuration.json format: regex rules describing when a
// line implies the next one should indent or outdent, plus bracket pairs.
package langcfg

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"

	"retab/indent"
)

// Configuration mirrors the on-disk language-configuration.json shape.
// Only the fields the indent engine consumes are modeled; onEnterRules are
// carried opaquely because they are never evaluated.
type Configuration struct {
	IndentationRules *IndentationRules `json:"indentationRules,omitempty"`
	Brackets         [][]string        `json:"brackets,omitempty"`
	OnEnterRules     json.RawMessage   `json:"onEnterRules,omitempty"`
}

// IndentationRules holds the four optional pattern sources.
type IndentationRules struct {
	UnIndentedLinePattern PatternSource `json:"unIndentedLinePattern,omitempty"`
	IncreaseIndentPattern PatternSource `json:"increaseIndentPattern,omitempty"`
	DecreaseIndentPattern PatternSource `json:"decreaseIndentPattern,omitempty"`
	IndentNextLinePattern PatternSource `json:"indentNextLinePattern,omitempty"`
}

// PatternSource accepts both spellings the format allows: a bare regex
// string, or an object {"pattern": "...", "flags": "..."}.
type PatternSource struct {
	Pattern string
	Flags   string
}

func (p *PatternSource) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Pattern = s
		p.Flags = ""
		return nil
	}
	var obj struct {
		Pattern string `json:"pattern"`
		Flags   string `json:"flags"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("pattern must be a string or {pattern, flags} object: %w", err)
	}
	p.Pattern = obj.Pattern
	p.Flags = obj.Flags
	return nil
}

func (p PatternSource) MarshalJSON() ([]byte, error) {
	if p.Flags == "" {
		return json.Marshal(p.Pattern)
	}
	return json.Marshal(struct {
		Pattern string `json:"pattern"`
		Flags   string `json:"flags,omitempty"`
	}{p.Pattern, p.Flags})
}

// Empty reports whether no pattern was configured.
func (p PatternSource) Empty() bool { return p.Pattern == "" }

// compile turns a source into an indent.Pattern. Only the ignore-case flag
// is honored; anything else the source format allows is meaningless for
// whole-line matching. Malformed sources come back absent, never as errors.
func (p PatternSource) compile() indent.Pattern {
	if p.Empty() {
		return indent.Pattern{}
	}
	expr := p.Pattern
	for _, f := range p.Flags {
		if f == 'i' {
			expr = "(?i)" + expr
			break
		}
	}
	return indent.CompilePattern(expr)
}

// Parse decodes a language-configuration.json document. The format allows
// // and /* */ comments plus trailing commas, so the bytes go through a
// jsonc pass before the strict decoder sees them.
func Parse(data []byte) (*Configuration, error) {
	var cfg Configuration
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, fmt.Errorf("parse language configuration: %w", err)
	}
	return &cfg, nil
}

// Merge layers override on top of base: bracket and onEnter lists from base
// are kept with override's appended, and indentation-rule fields are
// shallow-merged with override winning per field. Either argument may be
// nil.
func Merge(base, override *Configuration) *Configuration {
	if base == nil && override == nil {
		return nil
	}
	if base == nil {
		base = &Configuration{}
	}
	if override == nil {
		override = &Configuration{}
	}

	merged := &Configuration{
		Brackets:     append(append([][]string{}, base.Brackets...), override.Brackets...),
		OnEnterRules: concatRuleArrays(base.OnEnterRules, override.OnEnterRules),
	}

	switch {
	case base.IndentationRules == nil:
		merged.IndentationRules = override.IndentationRules
	case override.IndentationRules == nil:
		merged.IndentationRules = base.IndentationRules
	default:
		rules := *base.IndentationRules
		if !override.IndentationRules.UnIndentedLinePattern.Empty() {
			rules.UnIndentedLinePattern = override.IndentationRules.UnIndentedLinePattern
		}
		if !override.IndentationRules.IncreaseIndentPattern.Empty() {
			rules.IncreaseIndentPattern = override.IndentationRules.IncreaseIndentPattern
		}
		if !override.IndentationRules.DecreaseIndentPattern.Empty() {
			rules.DecreaseIndentPattern = override.IndentationRules.DecreaseIndentPattern
		}
		if !override.IndentationRules.IndentNextLinePattern.Empty() {
			rules.IndentNextLinePattern = override.IndentationRules.IndentNextLinePattern
		}
		merged.IndentationRules = &rules
	}
	return merged
}

// concatRuleArrays joins two raw onEnterRules arrays so both sources stay
// visible to a future evaluator. A side that fails to decode as an array
// is dropped rather than poisoning the merge.
func concatRuleArrays(base, override json.RawMessage) json.RawMessage {
	if len(base) == 0 {
		return override
	}
	if len(override) == 0 {
		return base
	}
	var a, b []json.RawMessage
	if err := json.Unmarshal(base, &a); err != nil {
		return override
	}
	if err := json.Unmarshal(override, &b); err != nil {
		return base
	}
	joined, err := json.Marshal(append(a, b...))
	if err != nil {
		return base
	}
	return joined
}

// Compile resolves the configuration's patterns into the engine's form.
// Compilation happens once here, at resolution time, not per decision.
func (c *Configuration) Compile() *indent.Config {
	out := &indent.Config{}
	if c.IndentationRules != nil {
		out.Rules = &indent.RuleSet{
			UnindentedLine: c.IndentationRules.UnIndentedLinePattern.compile(),
			IncreaseIndent: c.IndentationRules.IncreaseIndentPattern.compile(),
			DecreaseIndent: c.IndentationRules.DecreaseIndentPattern.compile(),
			IndentNextLine: c.IndentationRules.IndentNextLinePattern.compile(),
		}
	}
	for _, pair := range c.Brackets {
		if len(pair) < 2 {
			continue
		}
		out.Brackets = append(out.Brackets, indent.NewBracketRule(pair[0], pair[1]))
	}
	return out
}
