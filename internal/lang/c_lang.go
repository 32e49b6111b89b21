package lang

func init() {
	Register(&LanguageSpec{
		Language:       C,
		FileExtensions: []string{".c"},
		OutlineRules:   StandardRules(KindFunction, KindStruct, KindEnum, KindType),
	})
}
