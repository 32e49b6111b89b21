package lang

func init() {
	Register(&LanguageSpec{
		Language:       HCL,
		FileExtensions: []string{".tf", ".hcl", ".tfvars"},
		OutlineRules:   StandardRules(KindObject, KindProperty),
	})
}
