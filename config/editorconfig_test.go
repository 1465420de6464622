package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindEditorConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".editorconfig"), `
root = true

[*]
indent_style = space
indent_size = 2

[*.go]
indent_style = tab
tab_width = 8
`)
	sub := filepath.Join(root, "pkg")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	writeFile(t, filepath.Join(sub, ".editorconfig"), `
[*.go]
indent_size = 4
`)

	ec := FindEditorConfig(filepath.Join(sub, "main.go"))
	if ec == nil {
		t.Fatal("expected settings for main.go")
	}
	if ec.IndentStyle != "tab" {
		t.Errorf("indent_style = %q, want tab from the root file", ec.IndentStyle)
	}
	if ec.IndentSize != 4 {
		t.Errorf("indent_size = %d, want 4 from the closer file", ec.IndentSize)
	}
	if ec.TabWidth != 8 {
		t.Errorf("tab_width = %d, want 8", ec.TabWidth)
	}

	ec = FindEditorConfig(filepath.Join(sub, "notes.txt"))
	if ec == nil || ec.IndentStyle != "space" || ec.IndentSize != 2 {
		t.Errorf("txt settings = %+v, want the [*] section only", ec)
	}
}

func TestFindEditorConfigNoFile(t *testing.T) {
	dir := t.TempDir()
	if ec := FindEditorConfig(filepath.Join(dir, "orphan.go")); ec != nil {
		t.Fatalf("expected nil without any .editorconfig, got %+v", ec)
	}
}

func TestGlobMatchesBraceExpansion(t *testing.T) {
	cases := []struct {
		pattern, name string
		want          bool
	}{
		{"*.{js,ts}", "app.ts", true},
		{"*.{js,ts}", "app.js", true},
		{"*.{js,ts}", "app.go", false},
		{"*.go", "main.go", true},
		{"Makefile", "Makefile", true},
		{"*.{yml,{yaml}}", "ci.yaml", true},
	}
	for _, c := range cases {
		if got := globMatches(c.pattern, c.name); got != c.want {
			t.Errorf("globMatches(%q, %q) = %v, want %v", c.pattern, c.name, got, c.want)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s failed: %v", path, err)
	}
}
