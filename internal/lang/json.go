package lang

func init() {
	Register(&LanguageSpec{
		Language:       JSON,
		FileExtensions: []string{".json"},
		FileNames:      []string{".babelrc", ".eslintrc"},
		OutlineRules:   []Rule{{Record: "key.definition", Name: "key.name", Kind: KindKey}},
	})
}
