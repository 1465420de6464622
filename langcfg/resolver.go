package langcfg

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"retab/indent"
)

// Bundled language configurations, one directory per language id, mirroring
// the layout the files have inside editor extensions.
//
//go:embed resources
var resources embed.FS

const configFileName = "language-configuration.json"

// Resolver loads, merges and caches language configurations. Resolution
// order per language id: a user override file under userDir, then the
// bundled resource, with the built-in override table merged on top of
// whichever was found. Compiled configurations are cached write-through on
// first use; the user directory is watched so edits there drop the cached
// entry.
type Resolver struct {
	userDir string

	mu      sync.Mutex
	cache   map[string]*indent.Config
	watcher *fsnotify.Watcher
}

// NewResolver creates a resolver. userDir may be empty or nonexistent;
// watching is best-effort and resolution degrades gracefully without it.
func NewResolver(userDir string) *Resolver {
	r := &Resolver{
		userDir: userDir,
		cache:   make(map[string]*indent.Config),
	}
	r.startWatcher()
	return r
}

// Resolve returns the compiled configuration for a normalized language id,
// or false when the language has neither a configuration file nor a
// built-in override.
func (r *Resolver) Resolve(id string) (*indent.Config, bool) {
	if id == "" {
		return nil, false
	}

	r.mu.Lock()
	if cfg, ok := r.cache[id]; ok {
		r.mu.Unlock()
		return cfg, true
	}
	r.mu.Unlock()

	base := r.loadFile(id)
	merged := Merge(base, Override(id))
	if merged == nil {
		return nil, false
	}
	cfg := merged.Compile()

	r.mu.Lock()
	r.cache[id] = cfg
	r.mu.Unlock()
	return cfg, true
}

// Invalidate drops the cached entry for one language id.
func (r *Resolver) Invalidate(id string) {
	r.mu.Lock()
	delete(r.cache, id)
	r.mu.Unlock()
}

// Clear drops the whole cache.
func (r *Resolver) Clear() {
	r.mu.Lock()
	r.cache = make(map[string]*indent.Config)
	r.mu.Unlock()
}

// Close stops the user-directory watcher.
func (r *Resolver) Close() {
	if r.watcher != nil {
		r.watcher.Close()
	}
}

// loadFile reads and parses the configuration file for id, preferring the
// user directory over the bundle. A missing or unparseable file is nil;
// parse failures never block resolution because the override table may
// still carry the language.
func (r *Resolver) loadFile(id string) *Configuration {
	if r.userDir != "" {
		path := filepath.Join(r.userDir, id, configFileName)
		if data, err := os.ReadFile(path); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg
			}
		}
	}
	data, err := resources.ReadFile("resources/" + id + "/" + configFileName)
	if err != nil {
		return nil
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil
	}
	return cfg
}

// startWatcher watches the user override directory and its per-language
// subdirectories, invalidating the affected language on any change.
func (r *Resolver) startWatcher() {
	if r.userDir == "" {
		return
	}
	if info, err := os.Stat(r.userDir); err != nil || !info.IsDir() {
		return
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return
	}
	r.watcher = watcher

	watcher.Add(r.userDir)
	if entries, err := os.ReadDir(r.userDir); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				watcher.Add(filepath.Join(r.userDir, e.Name()))
			}
		}
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				rel, err := filepath.Rel(r.userDir, event.Name)
				if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
					continue
				}
				id := strings.Split(filepath.ToSlash(rel), "/")[0]
				r.Invalidate(id)
				// A newly created language directory needs its own watch.
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						watcher.Add(event.Name)
					}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
}

// chroma reports display names; resource directories are keyed by the ids
// other tooling uses for these languages.
var idAliases = map[string]string{
	"c++": "cpp",
	"c#":  "csharp",
	"f#":  "fsharp",
	"jsx": "javascript",
	"tsx": "typescript",
}

// NormalizeID converts a detected language name (e.g. chroma's "C++",
// "Python") into the id used to key configurations and overrides.
func NormalizeID(language string) string {
	id := strings.ToLower(strings.TrimSpace(language))
	id = strings.ReplaceAll(id, " ", "-")
	if alias, ok := idAliases[id]; ok {
		return alias
	}
	return id
}
