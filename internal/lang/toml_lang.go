package lang

func init() {
	Register(&LanguageSpec{
		Language:       TOML,
		FileExtensions: []string{".toml"},
		OutlineRules:   StandardRules(KindObject, KindKey),
	})
}
