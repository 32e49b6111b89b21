package lang

func init() {
	Register(&LanguageSpec{
		Language:       YAML,
		FileExtensions: []string{".yaml", ".yml"},
		OutlineRules:   StandardRules(KindKey),
	})
}
