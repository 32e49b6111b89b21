package lang

func init() {
	Register(&LanguageSpec{
		Language:       Kotlin,
		FileExtensions: []string{".kt", ".kts"},
		OutlineRules:   StandardRules(KindClass, KindObject, KindFunction, KindProperty),
	})
}
