package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// EditorConfigSettings holds the subset of EditorConfig properties the
// editor honors. Zero values mean unset.
type EditorConfigSettings struct {
	IndentStyle            string // "tab" or "space"
	IndentSize             int
	TabWidth               int
	EndOfLine              string // "lf" or "crlf"
	TrimTrailingWhitespace bool
	InsertFinalNewline     bool
	Charset                string
}

// FindEditorConfig walks from the file's directory upward collecting
// .editorconfig sections that match the file name, stopping at a file
// marked root = true. Closer files win over farther ones. Returns nil
// when nothing matched.
func FindEditorConfig(filePath string) *EditorConfigSettings {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil
	}
	name := filepath.Base(absPath)
	dir := filepath.Dir(absPath)

	merged := make(map[string]string)
	hit := false
	for {
		props, isRoot := readEditorConfig(filepath.Join(dir, ".editorconfig"), name)
		for k, v := range props {
			// Closer directories were visited first and take precedence.
			if _, dup := merged[k]; !dup {
				merged[k] = v
				hit = true
			}
		}
		if isRoot {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if !hit {
		return nil
	}
	return settingsFromProps(merged)
}

// readEditorConfig parses one .editorconfig file and returns the union of
// properties from sections whose glob matches name. The bool reports
// whether the preamble declared root = true.
func readEditorConfig(path, name string) (map[string]string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	props := make(map[string]string)
	isRoot := false
	matching := false
	sawSection := false

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}

		if line[0] == '[' && strings.HasSuffix(line, "]") {
			sawSection = true
			matching = globMatches(line[1:len(line)-1], name)
			continue
		}

		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:eq]))
		val := strings.ToLower(strings.TrimSpace(line[eq+1:]))

		if !sawSection {
			if key == "root" && val == "true" {
				isRoot = true
			}
			continue
		}
		if matching {
			props[key] = val
		}
	}

	if len(props) == 0 {
		return nil, isRoot
	}
	return props, isRoot
}

// globMatches checks name against an editorconfig glob, expanding one or
// more {a,b} alternations before delegating to filepath.Match.
func globMatches(pattern, name string) bool {
	for _, p := range expandBraces(pattern) {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

func expandBraces(pattern string) []string {
	open := strings.IndexByte(pattern, '{')
	if open < 0 {
		return []string{pattern}
	}

	depth := 0
	end := -1
	for i := open; i < len(pattern); i++ {
		switch pattern[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return []string{pattern}
	}

	prefix, suffix := pattern[:open], pattern[end+1:]
	var out []string
	for _, alt := range splitAlternatives(pattern[open+1 : end]) {
		out = append(out, expandBraces(prefix+alt+suffix)...)
	}
	return out
}

// splitAlternatives splits "a,b,c" on top-level commas only.
func splitAlternatives(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func settingsFromProps(m map[string]string) *EditorConfigSettings {
	s := &EditorConfigSettings{}
	any := false

	if v, ok := m["indent_style"]; ok {
		s.IndentStyle = v
		any = true
	}
	if v, ok := m["indent_size"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.IndentSize = n
			any = true
		}
	}
	if v, ok := m["tab_width"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.TabWidth = n
			any = true
		}
	}
	if v, ok := m["end_of_line"]; ok {
		s.EndOfLine = v
		any = true
	}
	if v, ok := m["trim_trailing_whitespace"]; ok {
		s.TrimTrailingWhitespace = v == "true"
		any = true
	}
	if v, ok := m["insert_final_newline"]; ok {
		s.InsertFinalNewline = v == "true"
		any = true
	}
	if v, ok := m["charset"]; ok {
		s.Charset = v
		any = true
	}

	if !any {
		return nil
	}
	return s
}
