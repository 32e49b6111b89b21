package lang

func init() {
	Register(&LanguageSpec{
		Language:       Java,
		FileExtensions: []string{".java"},
		OutlineRules: StandardRules(
			KindClass,
			KindInterface,
			KindEnum,
			KindMethod,
			KindField,
		),
	})
}
