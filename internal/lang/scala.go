package lang

func init() {
	Register(&LanguageSpec{
		Language:       Scala,
		FileExtensions: []string{".scala", ".sc"},
		OutlineRules:   StandardRules(KindClass, KindObject, KindInterface, KindFunction),
	})
}
