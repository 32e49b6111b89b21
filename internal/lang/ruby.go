package lang

func init() {
	Register(&LanguageSpec{
		Language:       Ruby,
		FileExtensions: []string{".rb", ".rake"},
		FileNames:      []string{"Rakefile", "Gemfile"},
		OutlineRules:   StandardRules(KindModule, KindClass, KindMethod),
	})
}
