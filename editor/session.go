package editor

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type SessionData struct {
	WorkingDir string      `json:"working_dir"`
	ActiveTab  int         `json:"active_tab"`
	Files      []FileState `json:"files"`
}

type FileState struct {
	Path    string `json:"path"`
	Line    int    `json:"cursor_line"`
	Col     int    `json:"cursor_col"`
	ScrollY int    `json:"scroll_y"`
	ScrollX int    `json:"scroll_x"`
}

func sessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "retab", "sessions")
}

func sessionPath(workDir string) string {
	hash := sha256.Sum256([]byte(workDir))
	return filepath.Join(sessionDir(), fmt.Sprintf("%x.json", hash[:8]))
}

func (e *Editor) SaveSession() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	path := sessionPath(wd)

	session := SessionData{
		WorkingDir: wd,
		ActiveTab:  e.active,
	}

	for _, buf := range e.buffers {
		if buf.Path == "" {
			continue
		}
		view := e.views[buf]
		fs := FileState{
			Path: buf.Path,
			Line: buf.Cursor.Line,
			Col:  buf.Cursor.Col,
		}
		if view != nil {
			fs.ScrollY = view.scrollY
			fs.ScrollX = view.scrollX
		}
		session.Files = append(session.Files, fs)
	}

	if len(session.Files) == 0 {
		// No file-backed buffers: clear any stale session so closed
		// buffers don't return.
		_ = os.Remove(path)
		return
	}

	os.MkdirAll(sessionDir(), 0755)

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return
	}
	os.WriteFile(path, data, 0644)
}

func (e *Editor) RestoreSession() bool {
	wd, err := os.Getwd()
	if err != nil {
		return false
	}

	data, err := os.ReadFile(sessionPath(wd))
	if err != nil {
		return false
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return false
	}
	if session.WorkingDir != wd {
		return false
	}

	restored := false
	for _, fs := range session.Files {
		if _, err := os.Stat(fs.Path); err != nil {
			continue
		}
		e.openFile(fs.Path)
		buf := e.activeBuffer()
		if buf != nil && buf.Path == fs.Path {
			if fs.Line < len(buf.Lines) {
				buf.Cursor.Line = fs.Line
				if fs.Col <= len(buf.Lines[fs.Line]) {
					buf.Cursor.Col = fs.Col
				}
			}
			if view := e.activeView(); view != nil {
				view.scrollY = fs.ScrollY
				view.scrollX = fs.ScrollX
			}
			restored = true
		}
	}

	if restored && session.ActiveTab >= 0 && session.ActiveTab < len(e.buffers) {
		e.switchBuffer(session.ActiveTab)
	}
	return restored
}
