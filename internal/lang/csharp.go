package lang

func init() {
	Register(&LanguageSpec{
		Language:       CSharp,
		FileExtensions: []string{".cs"},
		OutlineRules: StandardRules(
			KindNamespace,
			KindClass,
			KindInterface,
			KindStruct,
			KindEnum,
			KindMethod,
			KindProperty,
		),
	})
}
