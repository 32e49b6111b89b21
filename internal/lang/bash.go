package lang

func init() {
	Register(&LanguageSpec{
		Language:       Bash,
		FileExtensions: []string{".sh", ".bash"},
		FileNames:      []string{".bashrc", ".bash_profile"},
		OutlineRules:   StandardRules(KindFunction, KindVariable),
	})
}
