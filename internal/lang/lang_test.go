package lang

import "testing"

func TestForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		lang Language
	}{
		{".py", Python},
		{".go", Go},
		{".js", JavaScript},
		{".ts", TypeScript},
		{".tsx", TSX},
		{".rs", Rust},
		{".java", Java},
		{".cpp", CPP},
		{".h", CPP},
		{".cs", CSharp},
		{".php", PHP},
		{".lua", Lua},
		{".scala", Scala},
		{".kt", Kotlin},
		{".kts", Kotlin},
		{".ex", Elixir},
		{".exs", Elixir},
		{".m", ObjectiveC},
		{".json", JSON},
		{".yml", YAML},
		{".JSON", JSON},
	}
	for _, tt := range tests {
		spec := ForExtension(tt.ext)
		if spec == nil {
			t.Errorf("ForExtension(%q) = nil, want %s", tt.ext, tt.lang)
			continue
		}
		if spec.Language != tt.lang {
			t.Errorf("ForExtension(%q).Language = %s, want %s", tt.ext, spec.Language, tt.lang)
		}
	}
}

func TestForLanguage(t *testing.T) {
	for _, lang := range AllLanguages() {
		spec := ForLanguage(lang)
		if spec == nil {
			t.Errorf("ForLanguage(%s) = nil", lang)
		}
	}
}

func TestUnknownExtension(t *testing.T) {
	if spec := ForExtension(".xyz"); spec != nil {
		t.Errorf("ForExtension(.xyz) should be nil, got %v", spec)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Language
		ok   bool
	}{
		{"/src/app/main.go", Go, true},
		{"Rakefile", Ruby, true},
		{"lib/tasks/Rakefile", Ruby, true},
		{"web/index.test.tsx", TSX, true},
		{"README", "", false},
	}
	for _, tt := range tests {
		got, ok := Detect(tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Detect(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseAliases(t *testing.T) {
	for in, want := range map[string]Language{"js": JavaScript, " Go ": Go, "csharp": CSharp, "tsx": TSX, "objective-c": ObjectiveC, "exs": Elixir} {
		got, ok := Parse(in)
		if !ok || got != want {
			t.Errorf("Parse(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := Parse("cobol"); ok {
		t.Error("Parse(cobol) should fail")
	}
}

func TestStandardRules(t *testing.T) {
	r := StandardRule(KindFunction)
	if r.Record != "function.definition" || r.Name != "function.name" || r.Detail != "function.detail" {
		t.Errorf("StandardRule(function) = %+v", r)
	}
	if r.Kind != KindFunction {
		t.Errorf("Kind = %s", r.Kind)
	}
}

func TestGoSpec(t *testing.T) {
	spec := ForLanguage(Go)
	if spec == nil {
		t.Fatal("Go spec not registered")
	}
	if spec.OutlineRules[0].Kind != KindFunction {
		t.Errorf("Go first rule kind = %s, want function", spec.OutlineRules[0].Kind)
	}
	if spec.SymbolName() != "tree_sitter_go" {
		t.Errorf("SymbolName() = %q", spec.SymbolName())
	}
}

func TestGrammarNames(t *testing.T) {
	if got := ForLanguage(TSX).GrammarName(); got != "typescript" {
		t.Errorf("tsx GrammarName() = %q, want typescript", got)
	}
	if got := ForLanguage(CSharp).SymbolName(); got != "tree_sitter_c_sharp" {
		t.Errorf("c-sharp SymbolName() = %q", got)
	}
}
