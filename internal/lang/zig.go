package lang

func init() {
	Register(&LanguageSpec{
		Language:       Zig,
		FileExtensions: []string{".zig"},
		OutlineRules:   StandardRules(KindFunction, KindStruct, KindVariable),
	})
}
