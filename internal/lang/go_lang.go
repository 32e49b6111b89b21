package lang

func init() {
	Register(&LanguageSpec{
		Language:       Go,
		FileExtensions: []string{".go"},
		OutlineRules: StandardRules(
			KindFunction,
			KindMethod,
			KindStruct,
			KindInterface,
			KindType,
			KindConstant,
			KindVariable,
		),
	})
}
