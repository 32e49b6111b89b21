// Package queries supplies the pattern text that drives extraction. Patterns
// live in files named <language>/<kind>.scm, either compiled into the
// binary or read from directories that override them.
package queries

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/syntaxerr"
)

//go:embed assets
var assets embed.FS

// Kind names a family of patterns.
type Kind string

const (
	Outline    Kind = "outline"
	Folds      Kind = "folds"
	Highlights Kind = "highlights"
)

// Kinds returns every pattern kind.
func Kinds() []Kind { return []Kind{Outline, Folds, Highlights} }

// ParseKind converts a name to a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// ErrNotFound is returned when no store has a pattern for a language and
// kind. It matches syntaxerr.ErrConfiguration.
var ErrNotFound = fmt.Errorf("%w: no pattern", syntaxerr.ErrConfiguration)

// Asset identifies one pattern file.
type Asset struct {
	Language lang.Language `json:"language"`
	Kind     Kind          `json:"kind"`
}

// Path returns the asset's slash-separated path within a store.
func (a Asset) Path() string {
	return string(a.Language) + "/" + string(a.Kind) + ".scm"
}

// ParsePath is the inverse of Asset.Path.
func ParsePath(p string) (Asset, bool) {
	dir, file := path.Split(path.Clean(p))
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" || strings.Contains(dir, "/") || !strings.HasSuffix(file, ".scm") {
		return Asset{}, false
	}
	k, ok := ParseKind(strings.TrimSuffix(file, ".scm"))
	if !ok {
		return Asset{}, false
	}
	return Asset{Language: lang.Language(dir), Kind: k}, true
}

// Store looks up pattern text.
type Store interface {
	Pattern(l lang.Language, k Kind) (string, error)
	// List returns every asset the store holds, sorted.
	List() ([]Asset, error)
}

type fsStore struct {
	fsys fs.FS
	name string
}

// FS serves patterns from fsys.
func FS(fsys fs.FS, name string) Store {
	return &fsStore{fsys: fsys, name: name}
}

// Embedded returns the patterns compiled into the binary.
func Embedded() Store {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return FS(sub, "embedded")
}

// Dir serves patterns from a directory on disk.
func Dir(dir string) Store {
	return FS(os.DirFS(dir), dir)
}

func (s *fsStore) String() string { return s.name }

func (s *fsStore) Pattern(l lang.Language, k Kind) (string, error) {
	p := Asset{Language: l, Kind: k}.Path()
	data, err := fs.ReadFile(s.fsys, p)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s in %s", ErrNotFound, p, s.name)
	}
	if err != nil {
		return "", fmt.Errorf("read pattern %s: %w", p, err)
	}
	return string(data), nil
}

func (s *fsStore) List() ([]Asset, error) {
	var out []Asset
	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if a, ok := ParsePath(p); ok {
			out = append(out, a)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list patterns in %s: %w", s.name, err)
	}
	sortAssets(out)
	return out, nil
}

type layered []Store

// Layered searches stores in order; earlier stores override later ones.
func Layered(stores ...Store) Store {
	return layered(stores)
}

func (ls layered) Pattern(l lang.Language, k Kind) (string, error) {
	for _, s := range ls {
		text, err := s.Pattern(l, k)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return text, err
	}
	return "", fmt.Errorf("%w: %s/%s.scm", ErrNotFound, l, k)
}

func (ls layered) List() ([]Asset, error) {
	seen := make(map[Asset]bool)
	var out []Asset
	for _, s := range ls {
		list, err := s.List()
		if err != nil {
			return nil, err
		}
		for _, a := range list {
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	sortAssets(out)
	return out, nil
}

func sortAssets(as []Asset) {
	sort.Slice(as, func(i, j int) bool {
		if as[i].Language != as[j].Language {
			return as[i].Language < as[j].Language
		}
		return as[i].Kind < as[j].Kind
	})
}
