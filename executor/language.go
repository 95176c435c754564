package executor

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Binding maps one file extension to the interpreter that runs it.
// Command holds the leading interpreter tokens; the script path is
// appended as the final, single argument at launch time and is never
// passed through an intermediate shell.
type Binding struct {
	// Extension is the script file extension including the dot (".py").
	Extension string

	// DisplayName is the human-readable language name ("Python").
	DisplayName string

	// Command is the interpreter invocation, e.g. {"python"} or
	// {"powershell", "-File"}.
	Command []string
}

// Argv returns the full command line for running scriptPath.
func (b Binding) Argv(scriptPath string) []string {
	argv := make([]string, 0, len(b.Command)+1)
	argv = append(argv, b.Command...)
	return append(argv, scriptPath)
}

// Registry maps file extensions to language bindings. Lookups are O(1).
// A new Registry is empty; use DefaultRegistry for the stock bindings.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]Binding
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string]Binding)}
}

// DefaultRegistry returns a registry seeded with the stock bindings:
// Python, Batch, and PowerShell.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Binding{Extension: ".py", DisplayName: "Python", Command: []string{"python"}})
	r.Register(Binding{Extension: ".bat", DisplayName: "Batch", Command: []string{"cmd.exe", "/c"}})
	r.Register(Binding{Extension: ".ps1", DisplayName: "PowerShell", Command: []string{"powershell", "-File"}})
	return r
}

// Register adds a binding, replacing any existing binding for the same
// extension. Adding a language is one Register call; no other component
// carries language-specific branching.
func (r *Registry) Register(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[normalizeExt(b.Extension)] = b
}

// Resolve returns the binding for an extension, if one is registered.
func (r *Registry) Resolve(ext string) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[normalizeExt(ext)]
	return b, ok
}

// LanguageFor returns the display name for a script path, or "" when the
// extension has no binding. Backs status-bar style language indicators.
func (r *Registry) LanguageFor(path string) string {
	if b, ok := r.Resolve(filepath.Ext(path)); ok {
		return b.DisplayName
	}
	return ""
}

// Bindings returns all registered bindings sorted by extension.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Extension < out[j].Extension })
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
