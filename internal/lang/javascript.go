package lang

func init() {
	Register(&LanguageSpec{
		Language:       JavaScript,
		FileExtensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		OutlineRules: StandardRules(
			KindClass,
			KindFunction,
			KindMethod,
			KindVariable,
		),
	})
}
