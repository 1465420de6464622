package indent

import "testing"

func TestLeadingWhitespace(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"   abc", "   "},
		{"abc", ""},
		{"\t \tx", "\t \t"},
		{"  ", "  "},
		{"", ""},
	}
	for _, c := range cases {
		if got := LeadingWhitespace(c.line); got != c.want {
			t.Errorf("LeadingWhitespace(%q) = %q, want %q", c.line, got, c.want)
		}
	}
}

func TestCountIndent(t *testing.T) {
	cases := []struct {
		ws      string
		tabSize int
		want    float64
	}{
		{"\t  ", 4, 1.5},
		{"    ", 4, 1},
		{"", 4, 0},
		{"\t\t", 4, 2},
		{"  ", 4, 0.5},
		{"   ", 2, 1.5},
		{" ", 0, 1}, // tabSize <= 0 degrades to 1
	}
	for _, c := range cases {
		if got := CountIndent(c.ws, c.tabSize); got != c.want {
			t.Errorf("CountIndent(%q, %d) = %v, want %v", c.ws, c.tabSize, got, c.want)
		}
	}
}

func TestIndentString(t *testing.T) {
	cases := []struct {
		level    float64
		tabSize  int
		hardTabs bool
		want     string
	}{
		{2, 4, false, "        "},
		{2, 4, true, "\t\t"},
		{1.5, 4, false, "      "},
		{0, 4, false, ""},
		{-1, 4, true, ""},
		{1, 2, false, "  "},
	}
	for _, c := range cases {
		if got := IndentString(c.level, c.tabSize, c.hardTabs); got != c.want {
			t.Errorf("IndentString(%v, %d, %v) = %q, want %q", c.level, c.tabSize, c.hardTabs, got, c.want)
		}
	}
}

func TestCountIndentRoundTripsIndentString(t *testing.T) {
	for _, level := range []float64{0, 0.5, 1, 1.5, 2, 3} {
		text := IndentString(level, 4, false)
		if got := CountIndent(text, 4); got != level {
			t.Errorf("CountIndent(IndentString(%v)) = %v", level, got)
		}
	}
}
