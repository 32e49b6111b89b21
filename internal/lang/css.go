package lang

func init() {
	Register(&LanguageSpec{
		Language:       CSS,
		FileExtensions: []string{".css"},
		OutlineRules:   StandardRules(KindObject),
	})
}
