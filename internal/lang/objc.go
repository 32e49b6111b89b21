package lang

func init() {
	Register(&LanguageSpec{
		Language:       ObjectiveC,
		FileExtensions: []string{".m"},
		OutlineRules:   StandardRules(KindClass, KindInterface, KindMethod, KindFunction),
	})
}
