package extract

import (
	"slices"
	"testing"

	"github.com/DeusData/syntaxcore/internal/grammar"
	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/parser"
	"github.com/DeusData/syntaxcore/internal/query"
)

func TestFoldMinLineSpan(t *testing.T) {
	block := fake(1, true, "fold", "{...}", 0, 2)

	folds := reduceFolds(stream(block), 1)
	if len(folds) != 1 || folds[0].StartLine != 0 || folds[0].EndLine != 2 {
		t.Fatalf("min 1: folds = %+v", folds)
	}
	if folds := reduceFolds(stream(block), 5); len(folds) != 0 {
		t.Fatalf("min 5: folds = %+v", folds)
	}
}

func TestFoldsAreNotGrouped(t *testing.T) {
	folds := reduceFolds(stream(
		fake(1, false, "fold", "", 0, 10),
		fake(1, true, "fold", "", 2, 4),
		fake(2, true, "fold", "", 5, 5),
	), 1)
	if len(folds) != 2 {
		t.Fatalf("folds = %+v", folds)
	}
	if folds[1].StartLine != 2 || folds[1].EndLine != 4 {
		t.Errorf("second fold = %+v", folds[1])
	}
}

func TestFoldsFromJSON(t *testing.T) {
	source := []byte("{\n  \"a\": 1\n}")
	registry := grammar.NewRegistry()
	pool := parser.NewPool(registry, parser.Options{Capacity: 1})
	defer pool.Close()

	var tree *parser.Tree
	if err := pool.Do(lang.JSON, func(l *parser.Lease) error {
		var err error
		tree, err = l.Parse(source, nil)
		return err
	}); err != nil {
		t.Fatal(err)
	}
	defer tree.Close()

	q, err := query.Compile(registry, lang.JSON, `(object) @fold`)
	if err != nil {
		t.Fatal(err)
	}
	defer q.Close()

	caps, err := q.Captures(tree.Root())
	if err != nil {
		t.Fatal(err)
	}
	folds := reduceFolds(fromQuery(slices.Values(caps)), 1)
	if len(folds) != 1 || folds[0].StartLine != 0 || folds[0].EndLine != 2 {
		t.Fatalf("folds = %+v", folds)
	}

	cur, err := q.Execute(tree.Root())
	if err != nil {
		t.Fatal(err)
	}
	defer cur.Close()
	if folds := Folds(cur.All(), 5); len(folds) != 0 {
		t.Fatalf("min 5: folds = %+v", folds)
	}
}
