package engine

import (
	"context"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/DeusData/syntaxcore/internal/discover"
	"github.com/DeusData/syntaxcore/internal/extract"
	"github.com/DeusData/syntaxcore/internal/lang"
)

// FileOutline is the outline of one file, or why it has none.
type FileOutline struct {
	Path     string           `json:"path"`
	Language lang.Language    `json:"language"`
	Symbols  []extract.Symbol `json:"symbols,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// OutlineFiles outlines files concurrently, each worker holding its own
// parser lease. Workers never outnumber the pool's in-flight limit. Per-file failures are reported in the results; the error
// is non-nil only when ctx is cancelled.
func (e *Engine) OutlineFiles(ctx context.Context, files []discover.FileInfo) ([]FileOutline, error) {
	results := make([]FileOutline, len(files))
	numWorkers := runtime.NumCPU()
	if m := e.cfg.EffectiveMaxInFlight(); m > 0 && m < numWorkers {
		numWorkers = m
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for i, f := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = e.outlineFile(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) outlineFile(f discover.FileInfo) FileOutline {
	out := FileOutline{Path: f.RelPath, Language: f.Language}
	if out.Path == "" {
		out.Path = f.Path
	}
	source, err := os.ReadFile(f.Path)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	syms, err := e.Outline(f.Language, source)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Symbols = syms
	return out
}

// OutlineDir discovers source files under root and outlines them.
func (e *Engine) OutlineDir(ctx context.Context, root string, opts *discover.Options) ([]FileOutline, error) {
	files, err := discover.Discover(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	slog.Info("engine.outline_dir", "root", root, "files", len(files))
	return e.OutlineFiles(ctx, files)
}
