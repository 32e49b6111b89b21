package grammar

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/DeusData/syntaxcore/internal/lang"
)

// DynamicLoader resolves grammars from shared libraries (.so on Linux,
// .dylib on macOS) found in a list of search paths. Libraries are opened
// once and never closed: the TSLanguage they export must outlive every
// parser bound to it.
type DynamicLoader struct {
	searchPaths []string
	mu          sync.Mutex
	handles     map[string]uintptr // library path -> dlopen handle
}

// NewDynamicLoader creates a loader over searchPaths. Earlier paths win.
func NewDynamicLoader(searchPaths []string) *DynamicLoader {
	return &DynamicLoader{
		searchPaths: searchPaths,
		handles:     make(map[string]uintptr),
	}
}

// DefaultSearchPaths returns the project-local then per-user grammar directories.
func DefaultSearchPaths(projectRoot string) []string {
	var paths []string
	if projectRoot != "" {
		paths = append(paths, filepath.Join(projectRoot, ".syntaxcore", "grammars"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".syntaxcore", "grammars"))
	}
	return paths
}

// LibExtension returns the shared library extension for the current platform.
func LibExtension() string {
	if runtime.GOOS == "darwin" {
		return ".dylib"
	}
	return ".so"
}

// Path returns the library that would provide l, or "".
func (dl *DynamicLoader) Path(l lang.Language) string {
	base := string(l)
	if spec := lang.ForLanguage(l); spec != nil {
		base = spec.GrammarName()
	}
	for _, dir := range dl.searchPaths {
		for _, name := range []string{base + LibExtension(), "libtree-sitter-" + base + LibExtension()} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}

// Load opens the library for l and returns its TSLanguage pointer.
func (dl *DynamicLoader) Load(l lang.Language) (unsafe.Pointer, error) {
	soPath := dl.Path(l)
	if soPath == "" {
		return nil, fmt.Errorf("grammar %q: shared library not found in %s", l, strings.Join(dl.searchPaths, ", "))
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()

	handle, ok := dl.handles[soPath]
	if !ok {
		h, err := purego.Dlopen(soPath, purego.RTLD_NOW|purego.RTLD_LOCAL)
		if err != nil {
			return nil, fmt.Errorf("grammar %q: dlopen %s: %w", l, soPath, err)
		}
		dl.handles[soPath] = h
		handle = h
	}

	symName := "tree_sitter_" + strings.ReplaceAll(string(l), "-", "_")
	if spec := lang.ForLanguage(l); spec != nil {
		symName = spec.SymbolName()
	}
	sym, err := purego.Dlsym(handle, symName)
	if err != nil {
		return nil, fmt.Errorf("grammar %q: %s: %w", l, symName, err)
	}
	var langFunc func() uintptr
	purego.RegisterFunc(&langFunc, sym)

	ptr := langFunc()
	if ptr == 0 {
		return nil, fmt.Errorf("grammar %q: %s() returned null", l, symName)
	}
	// ptr is a static TSLanguage* inside the library, not Go memory; the
	// double indirection keeps vet's unsafeptr check quiet.
	return *(*unsafe.Pointer)(unsafe.Pointer(&ptr)), nil
}

// Installed lists the grammar base names present in the search paths.
func (dl *DynamicLoader) Installed() []string {
	ext := LibExtension()
	seen := make(map[string]bool)
	var names []string
	for _, dir := range dl.searchPaths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
				continue
			}
			name := strings.TrimPrefix(strings.TrimSuffix(e.Name(), ext), "libtree-sitter-")
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
