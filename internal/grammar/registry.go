// Package grammar resolves language names to engine Language handles.
//
// A Registry is an explicit value owned by the caller rather than hidden
// global state. Each language is loaded at most once per registry and the
// handle is then shared, read-only, by every parser that binds to it.
// Handles are never freed.
package grammar

import (
	"log/slog"
	"sort"
	"sync"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"golang.org/x/sync/singleflight"

	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/syntaxerr"
)

// Loader supplies the raw TSLanguage pointer for a language.
type Loader interface {
	Load(l lang.Language) (unsafe.Pointer, error)
}

// Registry caches Language handles.
type Registry struct {
	mu       sync.RWMutex
	loaded   map[lang.Language]*tree_sitter.Language
	builtins map[lang.Language]func() unsafe.Pointer
	dynamic  Loader
	group    singleflight.Group
}

// Option configures a Registry.
type Option func(*Registry)

// WithDynamicLoader adds a fallback loader consulted for languages that are
// not compiled in.
func WithDynamicLoader(l Loader) Option {
	return func(r *Registry) { r.dynamic = l }
}

// WithoutBuiltins disables the compiled-in grammars.
func WithoutBuiltins() Option {
	return func(r *Registry) { r.builtins = nil }
}

// NewRegistry returns a registry backed by the compiled-in grammars.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		loaded:   make(map[lang.Language]*tree_sitter.Language),
		builtins: make(map[lang.Language]func() unsafe.Pointer, len(builtins)),
	}
	for l, fn := range builtins {
		r.builtins[l] = fn
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the handle for l, loading it on first use. An unknown or
// unloadable language is a configuration error.
func (r *Registry) Get(l lang.Language) (*tree_sitter.Language, error) {
	r.mu.RLock()
	h, ok := r.loaded[l]
	r.mu.RUnlock()
	if ok {
		return h, nil
	}

	v, err, _ := r.group.Do(string(l), func() (any, error) {
		r.mu.RLock()
		h, ok := r.loaded[l]
		r.mu.RUnlock()
		if ok {
			return h, nil
		}
		h, err := r.load(l)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.loaded[l] = h
		r.mu.Unlock()
		slog.Debug("grammar.loaded", "lang", l, "abi", h.AbiVersion())
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*tree_sitter.Language), nil
}

func (r *Registry) load(l lang.Language) (*tree_sitter.Language, error) {
	var ptr unsafe.Pointer
	if fn, ok := r.builtins[l]; ok {
		ptr = fn()
	} else if r.dynamic != nil {
		p, err := r.dynamic.Load(l)
		if err != nil {
			return nil, syntaxerr.Configurationf("load grammar %s: %v", l, err)
		}
		ptr = p
	} else {
		return nil, syntaxerr.Configurationf("unsupported language: %s", l)
	}
	if ptr == nil {
		return nil, syntaxerr.Configurationf("grammar %s: constructor returned null", l)
	}
	h := tree_sitter.NewLanguage(ptr)
	if v := h.AbiVersion(); v < tree_sitter.MIN_COMPATIBLE_LANGUAGE_VERSION || v > tree_sitter.LANGUAGE_VERSION {
		return nil, syntaxerr.Configurationf("grammar %s: abi version %d outside [%d, %d]",
			l, v, tree_sitter.MIN_COMPATIBLE_LANGUAGE_VERSION, tree_sitter.LANGUAGE_VERSION)
	}
	return h, nil
}

// Available returns the languages this registry can resolve without
// touching the file system: compiled-in grammars plus those already loaded.
func (r *Registry) Available() []lang.Language {
	seen := make(map[lang.Language]bool)
	for l := range r.builtins {
		seen[l] = true
	}
	r.mu.RLock()
	for l := range r.loaded {
		seen[l] = true
	}
	r.mu.RUnlock()
	out := make([]lang.Language, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Loaded reports whether l has already been resolved.
func (r *Registry) Loaded(l lang.Language) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.loaded[l]
	return ok
}
