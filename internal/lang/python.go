package lang

func init() {
	Register(&LanguageSpec{
		Language:       Python,
		FileExtensions: []string{".py", ".pyi"},
		OutlineRules:   StandardRules(KindClass, KindFunction, KindVariable),
	})
}
