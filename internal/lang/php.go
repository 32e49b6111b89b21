package lang

func init() {
	Register(&LanguageSpec{
		Language:       PHP,
		FileExtensions: []string{".php"},
		OutlineRules:   StandardRules(KindNamespace, KindClass, KindInterface, KindMethod, KindFunction),
	})
}
