package lang

func init() {
	Register(&LanguageSpec{
		Language:       Rust,
		FileExtensions: []string{".rs"},
		OutlineRules: StandardRules(
			KindModule,
			KindStruct,
			KindEnum,
			KindInterface,
			KindObject,
			KindFunction,
			KindConstant,
		),
	})
}
