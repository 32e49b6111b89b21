// Package lang names the languages the module knows about and holds the
// per-language configuration: file extensions and the rule tables the
// structural extractor runs against each language's outline patterns.
//
// Everything here is data. Language differences live in these tables and in
// the pattern assets, not in code paths.
package lang

import (
	"path/filepath"
	"sort"
	"strings"
)

// Language represents a supported programming language.
type Language string

const (
	Bash       Language = "bash"
	C          Language = "c"
	CPP        Language = "cpp"
	CSharp     Language = "c-sharp"
	CSS        Language = "css"
	Elixir     Language = "elixir"
	Go         Language = "go"
	Haskell    Language = "haskell"
	HCL        Language = "hcl"
	HTML       Language = "html"
	Java       Language = "java"
	JavaScript Language = "javascript"
	JSON       Language = "json"
	Kotlin     Language = "kotlin"
	Lua        Language = "lua"
	ObjectiveC Language = "objc"
	OCaml      Language = "ocaml"
	PHP        Language = "php"
	Python     Language = "python"
	Ruby       Language = "ruby"
	Rust       Language = "rust"
	Scala      Language = "scala"
	TOML       Language = "toml"
	TSX        Language = "tsx"
	TypeScript Language = "typescript"
	YAML       Language = "yaml"
	Zig        Language = "zig"
)

// SymbolKind classifies an outline record.
type SymbolKind string

const (
	KindFunction  SymbolKind = "function"
	KindMethod    SymbolKind = "method"
	KindClass     SymbolKind = "class"
	KindStruct    SymbolKind = "struct"
	KindInterface SymbolKind = "interface"
	KindEnum      SymbolKind = "enum"
	KindModule    SymbolKind = "module"
	KindNamespace SymbolKind = "namespace"
	KindVariable  SymbolKind = "variable"
	KindConstant  SymbolKind = "constant"
	KindField     SymbolKind = "field"
	KindProperty  SymbolKind = "property"
	KindType      SymbolKind = "type"
	KindObject    SymbolKind = "object"
	KindKey       SymbolKind = "key"
)

// Rule maps the captures of one outline pattern to a record. Record names
// the capture spanning the whole construct, Name the identifier inside it,
// and Detail (optional, "" for none) an extra span such as a parameter list.
type Rule struct {
	Record string     `yaml:"record" json:"record"`
	Name   string     `yaml:"name" json:"name"`
	Detail string     `yaml:"detail,omitempty" json:"detail,omitempty"`
	Kind   SymbolKind `yaml:"kind" json:"kind"`
}

// StandardRule returns the rule for the conventional capture names
// "<kind>.definition", "<kind>.name" and "<kind>.detail".
func StandardRule(kind SymbolKind) Rule {
	k := string(kind)
	return Rule{Record: k + ".definition", Name: k + ".name", Detail: k + ".detail", Kind: kind}
}

// StandardRules returns StandardRule for each kind, in order.
func StandardRules(kinds ...SymbolKind) []Rule {
	rules := make([]Rule, len(kinds))
	for i, k := range kinds {
		rules[i] = StandardRule(k)
	}
	return rules
}

// LanguageSpec is the static configuration of one language.
type LanguageSpec struct {
	Language       Language
	FileExtensions []string
	// FileNames lists extensionless file names (e.g. "Makefile").
	FileNames []string
	// Grammar is the grammar's library name when it differs from Language
	// (tsx lives in the typescript library).
	Grammar string
	// Symbol overrides the exported constructor, tree_sitter_<name> by default.
	Symbol string
	// OutlineRules drive symbol extraction over the "outline" patterns, in
	// priority order.
	OutlineRules []Rule
}

// GrammarName returns the library base name holding the grammar.
func (s *LanguageSpec) GrammarName() string {
	if s.Grammar != "" {
		return s.Grammar
	}
	return string(s.Language)
}

// SymbolName returns the C constructor exported by the grammar library.
func (s *LanguageSpec) SymbolName() string {
	if s.Symbol != "" {
		return s.Symbol
	}
	return "tree_sitter_" + strings.ReplaceAll(string(s.Language), "-", "_")
}

// registry maps file extensions to language specs.
var (
	registry   = map[string]*LanguageSpec{}
	byLanguage = map[Language]*LanguageSpec{}
)

// Register adds a LanguageSpec to the global registry.
func Register(spec *LanguageSpec) {
	byLanguage[spec.Language] = spec
	for _, ext := range spec.FileExtensions {
		registry[ext] = spec
	}
	for _, name := range spec.FileNames {
		registry[name] = spec
	}
}

// ForExtension returns the LanguageSpec for a file extension (e.g. ".go").
func ForExtension(ext string) *LanguageSpec {
	return registry[strings.ToLower(ext)]
}

// ForLanguage returns the LanguageSpec for a language.
func ForLanguage(lang Language) *LanguageSpec {
	return byLanguage[lang]
}

// LanguageForExtension returns the Language for a file extension.
func LanguageForExtension(ext string) (Language, bool) {
	spec := ForExtension(ext)
	if spec == nil {
		return "", false
	}
	return spec.Language, true
}

// Detect returns the language of a file path, by exact file name first and
// extension second.
func Detect(path string) (Language, bool) {
	if spec, ok := registry[filepath.Base(path)]; ok {
		return spec.Language, true
	}
	return LanguageForExtension(filepath.Ext(path))
}

// AllLanguages returns every registered language, sorted by name.
func AllLanguages() []Language {
	out := make([]Language, 0, len(byLanguage))
	for l := range byLanguage {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Parse converts a user-supplied name or alias to a registered Language.
func Parse(name string) (Language, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[n]; ok {
		n = string(a)
	}
	if _, ok := byLanguage[Language(n)]; ok {
		return Language(n), true
	}
	return "", false
}

var aliases = map[string]Language{
	"js":          JavaScript,
	"ts":          TypeScript,
	"py":          Python,
	"rs":          Rust,
	"rb":          Ruby,
	"sh":          Bash,
	"c++":         CPP,
	"csharp":      CSharp,
	"cs":          CSharp,
	"golang":      Go,
	"yml":         YAML,
	"kt":          Kotlin,
	"hs":          Haskell,
	"ml":          OCaml,
	"ex":          Elixir,
	"exs":         Elixir,
	"objective-c": ObjectiveC,
}
