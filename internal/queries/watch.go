package queries

import (
	"context"
	"log/slog"

	"github.com/DeusData/syntaxcore/internal/watcher"
)

// ChangeFunc receives the assets whose files changed under a watched
// directory.
type ChangeFunc func(changed []Asset)

// Watch reports edits to pattern files under dirs until ctx is cancelled.
// Files that do not follow the <language>/<kind>.scm layout are ignored.
func Watch(ctx context.Context, dirs []string, onChange ChangeFunc) {
	w := watcher.New(dirs, ".scm", func(_ context.Context, root string, paths []string) error {
		var changed []Asset
		for _, p := range paths {
			if a, ok := ParsePath(p); ok {
				changed = append(changed, a)
			}
		}
		if len(changed) == 0 {
			return nil
		}
		slog.Info("queries.reload", "dir", root, "assets", len(changed))
		onChange(changed)
		return nil
	})
	w.Run(ctx)
}
