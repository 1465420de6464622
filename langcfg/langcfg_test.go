package langcfg

import (
	"encoding/json"
	"testing"
)

func TestParseToleratesCommentsAndTrailingCommas(t *testing.T) {
	data := []byte(`{
		// line comment
		"brackets": [
			["{", "}"], /* block comment */
			["(", ")"],
		],
		"indentationRules": {
			"increaseIndentPattern": "\\{\\s*$",
		},
	}`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cfg.Brackets) != 2 {
		t.Fatalf("brackets = %v, want 2 pairs", cfg.Brackets)
	}
	if cfg.IndentationRules == nil || cfg.IndentationRules.IncreaseIndentPattern.Pattern != `\{\s*$` {
		t.Fatalf("unexpected rules: %+v", cfg.IndentationRules)
	}
}

func TestPatternSourceStringOrObject(t *testing.T) {
	data := []byte(`{
		"indentationRules": {
			"increaseIndentPattern": "plain",
			"decreaseIndentPattern": {"pattern": "^END", "flags": "i"}
		}
	}`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	rules := cfg.IndentationRules
	if rules.IncreaseIndentPattern.Pattern != "plain" || rules.IncreaseIndentPattern.Flags != "" {
		t.Fatalf("string form: %+v", rules.IncreaseIndentPattern)
	}
	if rules.DecreaseIndentPattern.Pattern != "^END" || rules.DecreaseIndentPattern.Flags != "i" {
		t.Fatalf("object form: %+v", rules.DecreaseIndentPattern)
	}
}

func TestCompileHonorsIgnoreCaseFlag(t *testing.T) {
	cfg := &Configuration{
		IndentationRules: &IndentationRules{
			DecreaseIndentPattern: PatternSource{Pattern: "^end\\b", Flags: "i"},
		},
	}

	compiled := cfg.Compile()
	if _, fired := compiled.Rules.Estimate("x", "END"); !fired {
		t.Fatal("ignore-case flag should let ^end match END")
	}
}

func TestCompileMalformedPatternIsAbsent(t *testing.T) {
	cfg := &Configuration{
		IndentationRules: &IndentationRules{
			IncreaseIndentPattern: PatternSource{Pattern: "([unclosed"},
		},
	}

	compiled := cfg.Compile()
	if _, fired := compiled.Rules.Estimate("([unclosed", "x"); fired {
		t.Fatal("a malformed pattern must degrade to never matching")
	}
}

func TestCompileSkipsShortBracketPairs(t *testing.T) {
	cfg := &Configuration{
		Brackets: [][]string{{"{", "}"}, {"lonely"}},
	}
	if got := len(cfg.Compile().Brackets); got != 1 {
		t.Fatalf("compiled %d bracket rules, want 1", got)
	}
}

func TestMergeOverrideWinsPerField(t *testing.T) {
	base := &Configuration{
		Brackets: [][]string{{"{", "}"}},
		IndentationRules: &IndentationRules{
			IncreaseIndentPattern: PatternSource{Pattern: "base-increase"},
			DecreaseIndentPattern: PatternSource{Pattern: "base-decrease"},
		},
	}
	override := &Configuration{
		Brackets: [][]string{{"(", ")"}},
		IndentationRules: &IndentationRules{
			IncreaseIndentPattern: PatternSource{Pattern: "override-increase"},
		},
	}

	merged := Merge(base, override)
	if len(merged.Brackets) != 2 {
		t.Fatalf("brackets = %v, want base plus override", merged.Brackets)
	}
	if merged.IndentationRules.IncreaseIndentPattern.Pattern != "override-increase" {
		t.Fatalf("increase = %q, want the override's", merged.IndentationRules.IncreaseIndentPattern.Pattern)
	}
	if merged.IndentationRules.DecreaseIndentPattern.Pattern != "base-decrease" {
		t.Fatalf("decrease = %q, want the base's", merged.IndentationRules.DecreaseIndentPattern.Pattern)
	}
}

func TestMergeConcatenatesOnEnterRules(t *testing.T) {
	base := &Configuration{
		OnEnterRules: []byte(`[{"beforeText": "base"}]`),
	}
	override := &Configuration{
		OnEnterRules: []byte(`[{"beforeText": "override"}]`),
	}

	merged := Merge(base, override)
	var rules []struct {
		BeforeText string `json:"beforeText"`
	}
	if err := json.Unmarshal(merged.OnEnterRules, &rules); err != nil {
		t.Fatalf("merged onEnterRules did not decode: %v", err)
	}
	if len(rules) != 2 || rules[0].BeforeText != "base" || rules[1].BeforeText != "override" {
		t.Fatalf("onEnterRules = %s, want base's entry followed by the override's", merged.OnEnterRules)
	}

	oneSided := Merge(base, &Configuration{})
	if string(oneSided.OnEnterRules) != string(base.OnEnterRules) {
		t.Fatalf("empty override should keep the base rules, got %s", oneSided.OnEnterRules)
	}
}

func TestMergeNilArguments(t *testing.T) {
	if Merge(nil, nil) != nil {
		t.Fatal("merging two nils should stay nil")
	}

	override := &Configuration{
		IndentationRules: &IndentationRules{
			IncreaseIndentPattern: PatternSource{Pattern: "x"},
		},
	}
	merged := Merge(nil, override)
	if merged == nil || merged.IndentationRules.IncreaseIndentPattern.Pattern != "x" {
		t.Fatalf("merged = %+v", merged)
	}
}

func TestPythonOverridePatterns(t *testing.T) {
	compiled := Merge(nil, Override("python")).Compile()

	cases := []struct {
		prev, cur string
		want      string
	}{
		{"def foo():", "pass", "Indent"},
		{"if x:  # trailing comment", "pass", "Indent"},
		{"x = 1", "else:", "Outdent"},
		{"x = 1", "y = 2", "Keep"},
	}
	for _, c := range cases {
		action, _ := compiled.Rules.Estimate(c.prev, c.cur)
		if action.String() != c.want {
			t.Errorf("python Estimate(%q, %q) = %v, want %s", c.prev, c.cur, action, c.want)
		}
	}
}

func TestHTMLOverridePatterns(t *testing.T) {
	compiled := Merge(nil, Override("html")).Compile()

	if action, fired := compiled.Rules.Estimate("<div class=\"x\">", "text"); !fired || action.String() != "Indent" {
		t.Errorf("open tag: got (%v, %v)", action, fired)
	}
	if action, fired := compiled.Rules.Estimate("<br>", "text"); fired && action.String() == "Indent" {
		t.Error("void element must not indent")
	}
	if action, _ := compiled.Rules.Estimate("text", "</div>"); action.String() != "Outdent" {
		t.Errorf("close tag: got %v", action)
	}
	if action, _ := compiled.Rules.Estimate("<div>hello</div>", "text"); action.String() == "Indent" {
		t.Error("self-contained element must not indent")
	}
}
