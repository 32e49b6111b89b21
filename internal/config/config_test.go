package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/syntaxerr"
)

func TestLoadConfigDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.EffectivePoolCapacity())
	assert.Equal(t, 0, cfg.EffectiveMaxInFlight())
	assert.False(t, cfg.EffectiveWatchQueries())
	assert.Equal(t, uint(1), cfg.EffectiveMinLineSpan())
	assert.Equal(t, uint(0), cfg.EffectiveMatchLimit())
	assert.Equal(t, slog.LevelInfo, cfg.EffectiveLogLevel())
	assert.Equal(t, 10000, cfg.EffectiveCacheMaxEntries())
	assert.Empty(t, cfg.QueryDirPaths())
	assert.Equal(t, lang.ForLanguage(lang.Go).OutlineRules, cfg.Rules(lang.Go))
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `pool:
  capacity: 2
  max_in_flight: 8
grammar_paths: [grammars, /opt/grammars]
query_dirs: [queries]
watch_queries: true
folding:
  min_line_span: 3
query:
  match_limit: 64
cache:
  path: cache/outline.db
  max_entries: 50
highlight_classes:
  function: entity.name.function
outline_rules:
  js:
    - record: fn.def
      name: fn.name
      kind: function
log_level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600))

	cfg, err := Load(filepath.Join(dir, FileName))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.EffectivePoolCapacity())
	assert.Equal(t, 8, cfg.EffectiveMaxInFlight())
	assert.True(t, cfg.EffectiveWatchQueries())
	assert.Equal(t, uint(3), cfg.EffectiveMinLineSpan())
	assert.Equal(t, uint(64), cfg.EffectiveMatchLimit())
	assert.Equal(t, slog.LevelDebug, cfg.EffectiveLogLevel())
	assert.Equal(t, []string{filepath.Join(dir, "grammars"), "/opt/grammars"}, cfg.GrammarPathList())
	assert.Equal(t, []string{filepath.Join(dir, "queries")}, cfg.QueryDirPaths())
	assert.Equal(t, filepath.Join(dir, "cache", "outline.db"), cfg.CachePath())
	assert.Equal(t, 50, cfg.EffectiveCacheMaxEntries())
	assert.Equal(t, "entity.name.function", cfg.HighlightClasses["function"])

	rules := cfg.Rules(lang.JavaScript)
	require.Len(t, rules, 1)
	assert.Equal(t, lang.Rule{Record: "fn.def", Name: "fn.name", Kind: lang.KindFunction}, rules[0])
	assert.Equal(t, lang.ForLanguage(lang.Python).OutlineRules, cfg.Rules(lang.Python))
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"yaml", "{{invalid yaml"},
		{"capacity", "pool:\n  capacity: 0\n"},
		{"in flight", "pool:\n  max_in_flight: -1\n"},
		{"log level", "log_level: loud\n"},
		{"rules language", "outline_rules:\n  cobol: []\n"},
		{"rules alias", "outline_rules:\n  js: []\n  javascript: []\n"},
		{"cache max entries", "cache:\n  max_entries: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, syntaxerr.ErrConfiguration), "%v", err)
		})
	}
}

func TestCacheDisabled(t *testing.T) {
	cfg := Default()
	cfg.Cache.Disabled = true
	cfg.Cache.Path = "/tmp/x.db"
	assert.Empty(t, cfg.CachePath())
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Empty(t, Find(nested))

	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("log_level: warn\n"), 0o600))
	found := Find(nested)
	assert.Equal(t, filepath.Join(root, FileName), found)

	cfg, err := LoadDir(nested)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, cfg.EffectiveLogLevel())
	assert.Equal(t, root, cfg.Dir())
}
