package lang

func init() {
	Register(&LanguageSpec{
		Language:       CPP,
		FileExtensions: []string{".cpp", ".h", ".hpp", ".cc", ".cxx", ".hxx", ".hh", ".ixx", ".cppm", ".ccm"},
		OutlineRules: StandardRules(
			KindNamespace,
			KindClass,
			KindStruct,
			KindEnum,
			KindFunction,
			KindMethod,
		),
	})
}
