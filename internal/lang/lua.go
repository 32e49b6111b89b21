package lang

func init() {
	Register(&LanguageSpec{
		Language:       Lua,
		FileExtensions: []string{".lua"},
		OutlineRules:   StandardRules(KindFunction, KindVariable),
	})
}
