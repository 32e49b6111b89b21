package lang

func init() {
	Register(&LanguageSpec{
		Language:       TSX,
		FileExtensions: []string{".tsx"},
		Grammar:        "typescript",
		OutlineRules:   typeScriptRules,
	})
}
