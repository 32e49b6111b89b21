package lang

func init() {
	Register(&LanguageSpec{
		Language:       Haskell,
		FileExtensions: []string{".hs"},
		OutlineRules:   StandardRules(KindFunction, KindType, KindClass),
	})
}
