package indent

import "testing"

func TestRuleSetEstimate(t *testing.T) {
	rules := &RuleSet{
		IncreaseIndent: CompilePattern(`\{\s*$`),
		DecreaseIndent: CompilePattern(`^\s*\}`),
	}

	cases := []struct {
		prev, cur string
		want      Action
		fired     bool
	}{
		{"if (x) {", "body();", ActionIndent, true},
		{"if (x) {", "}", ActionNone, true}, // increase and decrease cancel
		{"body();", "}", ActionOutdent, true},
		{"body();", "more();", ActionNone, false},
	}
	for _, c := range cases {
		got, fired := rules.Estimate(c.prev, c.cur)
		if got != c.want || fired != c.fired {
			t.Errorf("Estimate(%q, %q) = (%v, %v), want (%v, %v)",
				c.prev, c.cur, got, fired, c.want, c.fired)
		}
	}
}

func TestRuleSetUnindentedBeatsIncrease(t *testing.T) {
	rules := &RuleSet{
		UnindentedLine: CompilePattern(`^#`),
		IncreaseIndent: CompilePattern(`\{\s*$`),
	}

	// Both patterns match the previous line; unindented wins and
	// suppresses the indent.
	got, fired := rules.Estimate("#define FOO {", "body();")
	if got != ActionNone || !fired {
		t.Errorf("got (%v, %v), want (Keep, true)", got, fired)
	}
}

func TestRuleSetIndentNextLine(t *testing.T) {
	rules := &RuleSet{
		IndentNextLine: CompilePattern(`^\s*(if|while|for)\b[^{]*$`),
	}

	got, fired := rules.Estimate("if (x)", "body();")
	if got != ActionIndent || !fired {
		t.Errorf("got (%v, %v), want (Indent, true)", got, fired)
	}
}

func TestRuleSetAbsentPatternsNeverFire(t *testing.T) {
	rules := &RuleSet{}
	if _, fired := rules.Estimate("if (x) {", "}"); fired {
		t.Error("empty rule set must not fire")
	}
}
