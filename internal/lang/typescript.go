package lang

// typeScriptRules is shared with tsx, whose grammar is a superset.
var typeScriptRules = StandardRules(
	KindInterface,
	KindClass,
	KindEnum,
	KindType,
	KindFunction,
	KindMethod,
	KindVariable,
)

func init() {
	Register(&LanguageSpec{
		Language:       TypeScript,
		FileExtensions: []string{".ts", ".mts", ".cts"},
		OutlineRules:   typeScriptRules,
	})
}
