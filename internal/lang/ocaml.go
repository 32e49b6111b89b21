package lang

func init() {
	Register(&LanguageSpec{
		Language:       OCaml,
		FileExtensions: []string{".ml"},
		OutlineRules:   StandardRules(KindModule, KindType, KindFunction),
	})
}
