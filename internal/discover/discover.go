// Package discover finds source files the registered grammars can parse.
package discover

import (
	"bufio"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/DeusData/syntaxcore/internal/lang"
)

// IgnoreFile lists extra glob patterns to skip, one per line, in the root
// of a discovered tree.
const IgnoreFile = ".syntaxcoreignore"

// ignoreDirs are directory names skipped during discovery.
var ignoreDirs = map[string]bool{
	".cache": true, ".git": true, ".gradle": true, ".hg": true,
	".idea": true, ".mypy_cache": true, ".pytest_cache": true,
	".ruff_cache": true, ".svn": true, ".syntaxcore": true, ".tox": true,
	".venv": true, ".vs": true, ".vscode": true, ".yarn": true,
	"__pycache__": true, "bower_components": true, "build": true,
	"coverage": true, "dist": true, "node_modules": true, "out": true,
	"Pods": true, "site-packages": true, "target": true, "vendor": true,
	"venv": true,
}

// generatedFiles are machine-written files whose outline is noise.
var generatedFiles = map[string]bool{
	"package-lock.json": true,
	"pnpm-lock.yaml":    true,
	"yarn.lock":         true,
	"composer.lock":     true,
	"Cargo.lock":        true,
	"go.sum":            true,
}

// FileInfo represents a discovered source file.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // slash-separated, relative to the root
	Language lang.Language // detected language
}

// Options configures file discovery.
type Options struct {
	// IgnoreFile overrides the root's .syntaxcoreignore.
	IgnoreFile string
	// Languages restricts results to these languages when non-empty.
	Languages []lang.Language
	// MaxFileSize skips larger files when positive.
	MaxFileSize int64
}

func shouldSkipDir(name, rel string, extraIgnore []string) bool {
	if ignoreDirs[name] {
		return true
	}
	return matchesAny(name, rel, extraIgnore)
}

func matchesAny(name, rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Discover walks root and returns every file with a registered language,
// in lexical order.
func Discover(ctx context.Context, root string, opts *Options) ([]FileInfo, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}

	ignPath := opts.IgnoreFile
	if ignPath == "" {
		ignPath = filepath.Join(root, IgnoreFile)
	}
	extraIgnore, _ := loadIgnoreFile(ignPath)

	want := make(map[lang.Language]bool, len(opts.Languages))
	for _, l := range opts.Languages {
		want[l] = true
	}

	var files []FileInfo
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root && shouldSkipDir(d.Name(), rel, extraIgnore) {
				return filepath.SkipDir
			}
			return nil
		}
		if generatedFiles[d.Name()] || matchesAny(d.Name(), rel, extraIgnore) {
			return nil
		}

		l, ok := lang.Detect(path)
		if !ok || (len(want) > 0 && !want[l]) {
			return nil
		}
		if opts.MaxFileSize > 0 {
			if info, err := d.Info(); err != nil || info.Size() > opts.MaxFileSize {
				return nil
			}
		}
		files = append(files, FileInfo{Path: path, RelPath: rel, Language: l})
		return nil
	})
	return files, err
}

func loadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}
