package langcfg

// Built-in per-language overrides layered on top of whatever configuration
// file resolution finds. Some bundled configurations ship without
// indentationRules even though the language is pattern-driven; these fill
// the gap, and win field-by-field over the file's rules.
var overrides = map[string]*Configuration{
	"python": {
		IndentationRules: &IndentationRules{
			IncreaseIndentPattern: PatternSource{
				Pattern: `^\s*(?:async\s+)?(?:class|def|elif|else|except|finally|for|if|match|case|try|while|with)\b.*:\s*(#.*)?$`,
			},
			DecreaseIndentPattern: PatternSource{
				Pattern: `^\s*(?:elif|else|except|finally)\b.*$`,
			},
		},
	},
	"html": {
		IndentationRules: &IndentationRules{
			IncreaseIndentPattern: PatternSource{
				Pattern: `<(?!\?|(?:area|base|br|col|frame|hr|html|img|input|keygen|link|menuitem|meta|param|source|track|wbr)\b|[^>]*/>)([-_.A-Za-z0-9]+)(?=\s|>)\b[^>]*>(?!.*</\1>)|<!--(?!.*-->)|\{[^}"']*$`,
			},
			DecreaseIndentPattern: PatternSource{
				Pattern: `^\s*(</[-_.A-Za-z0-9]+\b[^>]*>|-->|\})`,
			},
		},
	},
}

// Override returns the built-in override configuration for a normalized
// language id, or nil.
func Override(id string) *Configuration {
	return overrides[id]
}
