package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

// run executes the CLI with args against project root and returns stdout.
func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--root", root}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestOutlineFile(t *testing.T) {
	root := t.TempDir()
	p := writeFile(t, root, "app.js", "function f(x) {}\n")

	out, err := run(t, root, "--no-cache", "outline", p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1:1\tfunction\tf (x)") {
		t.Errorf("output = %q", out)
	}
}

func TestOutlineJSON(t *testing.T) {
	root := t.TempDir()
	p := writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	out, err := run(t, root, "--no-cache", "--json", "outline", p)
	if err != nil {
		t.Fatal(err)
	}
	var syms []struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal([]byte(out), &syms); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(syms) != 1 || syms[0].Name != "main" || syms[0].Kind != "function" {
		t.Errorf("symbols = %+v", syms)
	}
}

func TestOutlineDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/a.go", "package a\n\nfunc A() {}\n")
	writeFile(t, root, "b/b.py", "def b():\n    pass\n")

	out, err := run(t, root, "--no-cache", "outline", root)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"a/a.go", "function\tA", "b/b.py", "function\tb"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestOutlineLanguageOverride(t *testing.T) {
	root := t.TempDir()
	p := writeFile(t, root, "script.txt", "function g() {}\n")

	if _, err := run(t, root, "--no-cache", "outline", p); err == nil {
		t.Fatal("expected detection failure for .txt")
	}
	out, err := run(t, root, "--no-cache", "--lang", "js", "outline", p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "function\tg") {
		t.Errorf("output = %q", out)
	}
}

func TestFolds(t *testing.T) {
	root := t.TempDir()
	p := writeFile(t, root, "data.json", "{\n  \"a\": [\n    1\n  ]\n}\n")

	out, err := run(t, root, "--no-cache", "folds", p)
	if err != nil {
		t.Fatal(err)
	}
	if out != "1-5\tfold\n2-4\tfold\n" {
		t.Errorf("output = %q", out)
	}
}

func TestASTSExpr(t *testing.T) {
	root := t.TempDir()
	p := writeFile(t, root, "data.json", "[1]")

	out, err := run(t, root, "--no-cache", "ast", "--sexpr", p)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "(document (array (number)))" {
		t.Errorf("output = %q", out)
	}

	out, err = run(t, root, "--no-cache", "ast", "--named", p)
	if err != nil {
		t.Fatal(err)
	}
	want := "document [1:1-1:4] \"[1]\"\n  array [1:1-1:4] \"[1]\"\n    number [1:2-1:3] \"1\"\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestQuery(t *testing.T) {
	root := t.TempDir()
	p := writeFile(t, root, "main.go", "package main\n\nfunc a() {}\nfunc b() {}\n")

	out, err := run(t, root, "--no-cache", "query", p, "(function_declaration name: (identifier) @name)")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "@name\t\"a\"") || !strings.HasSuffix(lines[1], "@name\t\"b\"") {
		t.Errorf("output = %q", out)
	}

	if _, err := run(t, root, "--no-cache", "query", p, "(no_such_node) @x"); err == nil {
		t.Error("invalid pattern accepted")
	}
	if _, err := run(t, root, "--no-cache", "query", p); err == nil {
		t.Error("missing pattern accepted")
	}
}

func TestLintDirectory(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "good")
	writeFile(t, good, "go/outline.scm", "(function_declaration name: (identifier) @function.name) @function.definition\n")
	if _, err := run(t, root, "--no-cache", "lint", good); err != nil {
		t.Fatalf("good patterns rejected: %v", err)
	}

	bad := filepath.Join(root, "bad")
	writeFile(t, bad, "go/outline.scm", "(function_declaration) @f\n(no_such_node) @x\n")
	out, err := run(t, root, "--no-cache", "lint", bad)
	if err == nil {
		t.Fatal("bad patterns accepted")
	}
	if !strings.Contains(out, "go/outline.scm:2:2: unknown-node-type") {
		t.Errorf("output = %q", out)
	}
}

func TestCacheStats(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".syntaxcore.yaml", "cache:\n  path: cache/outline.db\n")
	p := writeFile(t, root, "app.js", "function f() {}\n")

	if _, err := run(t, root, "outline", p); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, root, "--json", "cache", "stats")
	if err != nil {
		t.Fatal(err)
	}
	var st struct {
		Entries int `json:"entries"`
	}
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if st.Entries != 1 {
		t.Errorf("entries = %d, want 1", st.Entries)
	}

	if _, err := run(t, root, "--no-cache", "cache", "stats"); err == nil {
		t.Error("stats with cache disabled should fail")
	}
}
