package extract

import (
	"iter"
	"slices"
	"testing"

	"github.com/DeusData/syntaxcore/internal/grammar"
	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/parser"
	"github.com/DeusData/syntaxcore/internal/query"
	"github.com/DeusData/syntaxcore/internal/span"
)

// fake builds a capture spanning rows [startRow, endRow] with the given text.
func fake(match uint, last bool, name, text string, startRow, endRow uint) capture {
	return capture{
		match: match,
		last:  last,
		name:  name,
		rng: span.Range{
			StartPoint: span.Point{Row: startRow},
			EndPoint:   span.Point{Row: endRow, Column: 1},
		},
		text: func() string { return text },
	}
}

func stream(cs ...capture) iter.Seq[capture] {
	return slices.Values(cs)
}

var funcRules = lang.StandardRules(lang.KindFunction, lang.KindClass)

func names(syms []Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Name
	}
	return out
}

func TestSymbolEmittedWhenRecordAndNameSeen(t *testing.T) {
	syms := reduceSymbols(stream(
		fake(1, false, "function.definition", "function f() {}", 0, 2),
		fake(1, true, "function.name", "f", 0, 0),
	), funcRules)
	if len(syms) != 1 {
		t.Fatalf("expected 1 symbol, got %d", len(syms))
	}
	s := syms[0]
	if s.Name != "f" || s.Kind != lang.KindFunction {
		t.Errorf("symbol = %+v", s)
	}
	if s.Range.EndPoint.Row != 2 || s.SelectionRange.EndPoint.Row != 0 {
		t.Errorf("ranges = %+v / %+v", s.Range, s.SelectionRange)
	}
	if s.Detail != nil {
		t.Errorf("detail = %q, want nil", *s.Detail)
	}
}

func TestSymbolRequiresRecordAndName(t *testing.T) {
	tests := []struct {
		name     string
		captures []capture
		want     int
	}{
		{"record only", []capture{
			fake(1, true, "function.definition", "x", 0, 1),
		}, 0},
		{"name only", []capture{
			fake(1, true, "function.name", "f", 0, 0),
		}, 0},
		{"unknown last capture", []capture{
			fake(1, false, "function.definition", "x", 0, 1),
			fake(1, false, "function.name", "f", 0, 0),
			fake(1, true, "comment", "// doc", 0, 0),
		}, 0},
		{"conflicting last capture", []capture{
			fake(1, false, "function.definition", "x", 0, 1),
			fake(1, false, "function.name", "f", 0, 0),
			fake(1, true, "class.name", "C", 0, 0),
		}, 1},
		{"no last capture", []capture{
			fake(1, false, "function.definition", "x", 0, 1),
			fake(1, false, "function.name", "f", 0, 0),
		}, 0},
		{"no rule", []capture{
			fake(1, false, "foo", "x", 0, 1),
			fake(1, true, "bar", "f", 0, 0),
		}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syms := reduceSymbols(stream(tt.captures...), funcRules)
			if len(syms) != tt.want {
				t.Errorf("got %d symbols, want %d", len(syms), tt.want)
			}
		})
	}
}

func TestSymbolDetail(t *testing.T) {
	syms := reduceSymbols(stream(
		fake(1, false, "function.definition", "function f(x) {}", 0, 0),
		fake(1, false, "function.name", "f", 0, 0),
		fake(1, true, "function.detail", "(x)", 0, 0),
	), funcRules)
	if len(syms) != 1 || syms[0].Detail == nil || *syms[0].Detail != "(x)" {
		t.Fatalf("symbols = %+v", syms)
	}
}

func TestSymbolsInOrderOfLastCapture(t *testing.T) {
	syms := reduceSymbols(stream(
		fake(1, false, "class.definition", "class A {...}", 0, 9),
		fake(1, false, "class.name", "A", 0, 0),
		fake(2, false, "function.definition", "function g() {}", 2, 4),
		fake(2, true, "function.name", "g", 2, 2),
		fake(3, false, "function.definition", "function h() {}", 5, 7),
		fake(1, true, "class.detail", "extends B", 0, 0),
		fake(3, true, "function.name", "h", 5, 5),
	), funcRules)
	if got := names(syms); !slices.Equal(got, []string{"g", "A", "h"}) {
		t.Fatalf("order = %v", got)
	}
	if syms[1].Kind != lang.KindClass || syms[1].Detail == nil {
		t.Errorf("class symbol = %+v", syms[1])
	}
}

func TestFirstRuleFixesMatch(t *testing.T) {
	syms := reduceSymbols(stream(
		fake(1, false, "function.definition", "function f() {}", 0, 3),
		fake(1, false, "class.name", "C", 0, 0),
		fake(1, true, "function.name", "f", 0, 0),
	), funcRules)
	if len(syms) != 1 || syms[0].Name != "f" || syms[0].Kind != lang.KindFunction {
		t.Fatalf("symbols = %+v", syms)
	}
}

func TestFixedRuleConsultedFirst(t *testing.T) {
	rules := []Rule{
		{Record: "def", Name: "name", Kind: lang.KindFunction},
		{Record: "cls", Name: "name", Kind: lang.KindClass},
	}
	syms := reduceSymbols(stream(
		fake(1, false, "cls", "class C {}", 0, 1),
		fake(1, true, "name", "C", 0, 0),
	), rules)
	if len(syms) != 1 || syms[0].Kind != lang.KindClass {
		t.Fatalf("symbols = %+v", syms)
	}

	// With no rule fixed, the first rule using the name wins.
	syms = reduceSymbols(stream(
		fake(1, false, "name", "f", 0, 0),
		fake(1, true, "cls", "class C {}", 0, 1),
	), rules)
	if len(syms) != 0 {
		t.Fatalf("expected the class record to be ignored, got %+v", syms)
	}
}

func TestMatchStateIsDiscarded(t *testing.T) {
	// Match ids may be reused once a match has ended.
	syms := reduceSymbols(stream(
		fake(1, false, "function.definition", "a", 0, 1),
		fake(1, true, "function.name", "a", 0, 0),
		fake(1, true, "function.name", "b", 3, 3),
	), funcRules)
	if got := names(syms); !slices.Equal(got, []string{"a"}) {
		t.Fatalf("symbols = %v", got)
	}
}

func TestSymbolsFromJavaScript(t *testing.T) {
	source := []byte("function f(x) {}")
	registry := grammar.NewRegistry()
	pool := parser.NewPool(registry, parser.Options{Capacity: 1})
	defer pool.Close()

	var tree *parser.Tree
	if err := pool.Do(lang.JavaScript, func(l *parser.Lease) error {
		var err error
		tree, err = l.Parse(source, nil)
		return err
	}); err != nil {
		t.Fatal(err)
	}
	defer tree.Close()

	q, err := query.Compile(registry, lang.JavaScript,
		`(function_declaration name: (identifier) @function.name) @function.definition`)
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()
	cur, err := q.Execute(tree.Root())
	if err != nil {
		t.Fatal(err)
	}
	defer cur.Close()

	rules := []Rule{{Record: "function.definition", Name: "function.name", Kind: lang.KindFunction}}
	syms := Symbols(cur.All(), rules)
	if len(syms) != 1 {
		t.Fatalf("expected 1 symbol, got %d", len(syms))
	}
	s := syms[0]
	if s.Name != "f" || s.Kind != lang.KindFunction {
		t.Errorf("symbol = %+v", s)
	}
	if s.Range.StartByte != 0 || s.Range.EndByte != uint(len(source)) {
		t.Errorf("range = %d..%d, want the whole declaration", s.Range.StartByte, s.Range.EndByte)
	}
	if s.SelectionRange.StartByte != 9 || s.SelectionRange.EndByte != 10 {
		t.Errorf("selection = %d..%d", s.SelectionRange.StartByte, s.SelectionRange.EndByte)
	}
}
