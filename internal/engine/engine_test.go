package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeusData/syntaxcore/internal/config"
	"github.com/DeusData/syntaxcore/internal/discover"
	"github.com/DeusData/syntaxcore/internal/edit"
	"github.com/DeusData/syntaxcore/internal/extract"
	"github.com/DeusData/syntaxcore/internal/input"
	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/queries"
	"github.com/DeusData/syntaxcore/internal/query"
	"github.com/DeusData/syntaxcore/internal/store"
)

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e := New(opts)
	t.Cleanup(e.Close)
	return e
}

func names(syms []extract.Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Name
	}
	return out
}

func TestOutlineJavaScriptFunction(t *testing.T) {
	e := newEngine(t, Options{})
	src := []byte("function f(x) {}")

	syms, err := e.Outline(lang.JavaScript, src)
	require.NoError(t, err)
	require.Len(t, syms, 1)

	s := syms[0]
	assert.Equal(t, "f", s.Name)
	assert.Equal(t, lang.KindFunction, s.Kind)
	require.NotNil(t, s.Detail)
	assert.Equal(t, "(x)", *s.Detail)
	assert.Equal(t, uint(0), s.Range.StartByte)
	assert.Equal(t, uint(len(src)), s.Range.EndByte)
	assert.Equal(t, uint(9), s.SelectionRange.StartByte)
	assert.Equal(t, uint(10), s.SelectionRange.EndByte)
}

func TestOutlineGo(t *testing.T) {
	e := newEngine(t, Options{})
	src := []byte(`package main

type Server struct{}

func (s *Server) Run() {}

func main() {}
`)
	syms, err := e.Outline(lang.Go, src)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Server", "Run", "main"}, names(syms))

	kinds := map[string]lang.SymbolKind{}
	for _, s := range syms {
		kinds[s.Name] = s.Kind
	}
	assert.Equal(t, lang.KindStruct, kinds["Server"])
	assert.Equal(t, lang.KindMethod, kinds["Run"])
	assert.Equal(t, lang.KindFunction, kinds["main"])
}

func TestOutlineElixir(t *testing.T) {
	e := newEngine(t, Options{})
	src := []byte(`defmodule MyApp.Greeter do
  def greet(name) do
    IO.puts(name)
  end

  defp shout(x) when is_binary(x), do: x

  IO.puts("loaded")
end
`)
	syms, err := e.Outline(lang.Elixir, src)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"MyApp.Greeter", "greet", "shout"}, names(syms))

	details := map[string]string{}
	for _, s := range syms {
		require.NotNil(t, s.Detail, s.Name)
		details[s.Name] = *s.Detail
	}
	assert.Equal(t, "defmodule", details["MyApp.Greeter"])
	assert.Equal(t, "def", details["greet"])
	assert.Equal(t, "defp", details["shout"])
}

func TestOutlineObjectiveC(t *testing.T) {
	e := newEngine(t, Options{})
	src := []byte(`@protocol Runnable
- (void)run;
@end

@interface Dog : NSObject
@end

@implementation Dog
- (void)bark {
}
@end

void greet(int n) {
}
`)
	syms, err := e.Outline(lang.ObjectiveC, src)
	require.NoError(t, err)

	kinds := map[string][]lang.SymbolKind{}
	for _, s := range syms {
		kinds[s.Name] = append(kinds[s.Name], s.Kind)
	}
	assert.Equal(t, []lang.SymbolKind{lang.KindInterface}, kinds["Runnable"])
	assert.Equal(t, []lang.SymbolKind{lang.KindClass, lang.KindClass}, kinds["Dog"])
	assert.Equal(t, []lang.SymbolKind{lang.KindMethod}, kinds["bark"])
	assert.Equal(t, []lang.SymbolKind{lang.KindFunction}, kinds["greet"])
	assert.NotContains(t, kinds, "NSObject")
}

func TestFoldsRespectMinLineSpan(t *testing.T) {
	src := []byte("{\n  \"a\": [\n    1\n  ]\n}")

	e := newEngine(t, Options{})
	folds, err := e.Folds(lang.JSON, src)
	require.NoError(t, err)
	assert.Equal(t, []extract.Fold{
		{StartLine: 0, EndLine: 4, Kind: "fold"},
		{StartLine: 1, EndLine: 3, Kind: "fold"},
	}, folds)

	minSpan := uint(3)
	e = newEngine(t, Options{Config: &config.Config{Folding: config.FoldingConfig{MinLineSpan: &minSpan}}})
	folds, err = e.Folds(lang.JSON, src)
	require.NoError(t, err)
	require.Len(t, folds, 1)
	assert.Equal(t, uint(0), folds[0].StartLine)
	assert.Equal(t, uint(4), folds[0].EndLine)
}

func TestHighlightsMapClasses(t *testing.T) {
	cfg := &config.Config{HighlightClasses: map[string]string{"number": "constant.numeric"}}
	e := newEngine(t, Options{Config: cfg})

	hl, err := e.Highlights(lang.JSON, []byte(`{"a": 1}`))
	require.NoError(t, err)

	var found bool
	for _, h := range hl {
		if h.Class == "constant.numeric" {
			found = true
			assert.Equal(t, uint(6), h.Range.StartByte)
			assert.Equal(t, uint(7), h.Range.EndByte)
		}
		assert.NotEqual(t, "number", h.Class)
	}
	assert.True(t, found, "number span not highlighted: %+v", hl)
}

func TestOutlineUsesCache(t *testing.T) {
	cache, err := store.OpenMemory()
	require.NoError(t, err)
	e := newEngine(t, Options{Cache: cache})
	src := []byte("function f(x) {}\nfunction g() {}\n")

	first, err := e.Outline(lang.JavaScript, src)
	require.NoError(t, err)
	second, err := e.Outline(lang.JavaScript, src)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stats, err := cache.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestOutlineUnknownLanguage(t *testing.T) {
	e := newEngine(t, Options{})
	_, err := e.Outline(lang.Language("cobol"), []byte("IDENTIFICATION DIVISION."))
	assert.Error(t, err)
}

func TestOutlineMissingPattern(t *testing.T) {
	e := newEngine(t, Options{})
	_, err := e.Highlights(lang.Ruby, []byte("def f; end"))
	assert.ErrorIs(t, err, queries.ErrNotFound)
}

func TestEditReparses(t *testing.T) {
	e := newEngine(t, Options{})
	old := []byte("package main\n\nfunc a() {}\n")
	tree, err := e.Parse(lang.Go, old)
	require.NoError(t, err)
	defer tree.Close()

	d := edit.InsertAt(2, 6, 20, []byte("b"))
	updated, err := d.Splice(old, []byte("b"))
	require.NoError(t, err)
	src, err := input.FromBytes(updated)
	require.NoError(t, err)

	next, changed, err := e.Edit(tree, d, src)
	require.NoError(t, err)
	defer next.Close()
	for _, r := range changed {
		assert.LessOrEqual(t, r.EndByte, uint(len(updated)), "changed range %+v", r)
	}

	syms, err := e.ExtractSymbols(next)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab"}, names(syms))

	syms, err = e.ExtractSymbols(tree)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names(syms))
}

func TestParseChunked(t *testing.T) {
	e := newEngine(t, Options{})
	tree, err := e.ParseChunked(lang.JavaScript, [][]byte{[]byte("function "), []byte("f(x) "), []byte("{}")})
	require.NoError(t, err)
	defer tree.Close()

	syms, err := e.ExtractSymbols(tree)
	require.NoError(t, err)
	require.Len(t, syms, 1)
	assert.Equal(t, "f", syms[0].Name)
}

func writeAsset(t *testing.T, dir string, a queries.Asset, text string) {
	t.Helper()
	p := filepath.Join(dir, a.Path())
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(text), 0o600))
}

func TestReloadRecompiles(t *testing.T) {
	dir := t.TempDir()
	asset := queries.Asset{Language: lang.JavaScript, Kind: queries.Outline}
	writeAsset(t, dir, asset, `(function_declaration name: (identifier) @function.name) @function.definition`)

	e := newEngine(t, Options{Patterns: queries.Layered(queries.Dir(dir), queries.Embedded())})
	src := []byte("function f(x) {}")

	syms, err := e.Outline(lang.JavaScript, src)
	require.NoError(t, err)
	require.Len(t, syms, 1)
	assert.Nil(t, syms[0].Detail)

	before, releaseBefore, err := e.Query(lang.JavaScript, queries.Outline)
	require.NoError(t, err)
	defer releaseBefore()

	writeAsset(t, dir, asset, `(function_declaration name: (identifier) @function.name parameters: (formal_parameters) @function.detail) @function.definition`)
	e.Reload([]queries.Asset{asset})

	after, releaseAfter, err := e.Query(lang.JavaScript, queries.Outline)
	require.NoError(t, err)
	defer releaseAfter()
	assert.NotEqual(t, before.Digest(), after.Digest())

	syms, err = e.Outline(lang.JavaScript, src)
	require.NoError(t, err)
	require.Len(t, syms, 1)
	require.NotNil(t, syms[0].Detail)
	assert.Equal(t, "(x)", *syms[0].Detail)
}

func TestReloadClosesRetiredQueryAfterRelease(t *testing.T) {
	e := newEngine(t, Options{})
	asset := queries.Asset{Language: lang.Go, Kind: queries.Outline}
	tree, err := e.Parse(lang.Go, []byte("package main\n\nfunc main() {}\n"))
	require.NoError(t, err)
	defer tree.Close()

	held, release, err := e.Query(lang.Go, queries.Outline)
	require.NoError(t, err)
	e.Reload([]queries.Asset{asset})

	cur, err := held.Execute(tree.Root())
	require.NoError(t, err, "a query in use survives Reload")
	cur.Close()

	release()
	release()
	_, err = held.Execute(tree.Root())
	assert.ErrorIs(t, err, query.ErrClosed)

	idle, releaseIdle, err := e.Query(lang.Go, queries.Outline)
	require.NoError(t, err)
	releaseIdle()
	assert.NotSame(t, held, idle)
	e.Reload([]queries.Asset{asset})
	_, err = idle.Execute(tree.Root())
	assert.ErrorIs(t, err, query.ErrClosed)
}

func TestLintPatterns(t *testing.T) {
	e := newEngine(t, Options{})
	reports, err := e.LintPatterns()
	require.NoError(t, err)
	assert.Empty(t, reports)

	dir := t.TempDir()
	bad := queries.Asset{Language: lang.Go, Kind: queries.Outline}
	writeAsset(t, dir, bad, "(function_declaration) @function.definition\n(no_such_node) @x\n")

	e = newEngine(t, Options{Patterns: queries.Layered(queries.Dir(dir), queries.Embedded())})
	reports, err = e.LintPatterns()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, bad, reports[0].Asset)
	require.Len(t, reports[0].Diagnostics, 1)
	assert.Equal(t, query.KindUnknownNodeType, reports[0].Diagnostics[0].Kind)
	assert.Equal(t, uint(1), reports[0].Diagnostics[0].Row)
}

func TestOutlineFiles(t *testing.T) {
	dir := t.TempDir()
	goFile := filepath.Join(dir, "main.go")
	jsFile := filepath.Join(dir, "app.js")
	require.NoError(t, os.WriteFile(goFile, []byte("package main\n\nfunc main() {}\n"), 0o600))
	require.NoError(t, os.WriteFile(jsFile, []byte("function f(x) {}\n"), 0o600))

	e := newEngine(t, Options{})
	results, err := e.OutlineFiles(context.Background(), []discover.FileInfo{
		{Path: goFile, RelPath: "main.go", Language: lang.Go},
		{Path: jsFile, RelPath: "app.js", Language: lang.JavaScript},
		{Path: filepath.Join(dir, "gone.go"), RelPath: "gone.go", Language: lang.Go},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "main.go", results[0].Path)
	assert.Equal(t, []string{"main"}, names(results[0].Symbols))
	assert.Equal(t, []string{"f"}, names(results[1].Symbols))
	assert.Empty(t, results[2].Symbols)
	assert.NotEmpty(t, results[2].Error)
}

func TestOutlineFilesWithinInFlightLimit(t *testing.T) {
	dir := t.TempDir()
	var files []discover.FileInfo
	for i := range 16 {
		p := filepath.Join(dir, fmt.Sprintf("f%d.go", i))
		require.NoError(t, os.WriteFile(p, []byte(fmt.Sprintf("package p\n\nfunc F%d() {}\n", i)), 0o600))
		files = append(files, discover.FileInfo{Path: p, Language: lang.Go})
	}

	one := 1
	e := newEngine(t, Options{Config: &config.Config{Pool: config.PoolConfig{MaxInFlight: &one}}})
	results, err := e.OutlineFiles(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, results, len(files))
	for i, r := range results {
		assert.Empty(t, r.Error, "file %d", i)
		assert.Equal(t, []string{fmt.Sprintf("F%d", i)}, names(r.Symbols))
	}
}

func TestOutlineFilesCancelled(t *testing.T) {
	e := newEngine(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.OutlineFiles(ctx, []discover.FileInfo{{Path: "x.go", Language: lang.Go}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOutlineDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkg", "a.go"), []byte("package pkg\n\nfunc A() {}\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# readme\n"), 0o600))

	e := newEngine(t, Options{})
	results, err := e.OutlineDir(context.Background(), dir, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "pkg/a.go", results[0].Path)
	assert.Equal(t, []string{"A"}, names(results[0].Symbols))
}
