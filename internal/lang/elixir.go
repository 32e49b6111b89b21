package lang

func init() {
	Register(&LanguageSpec{
		Language:       Elixir,
		FileExtensions: []string{".ex", ".exs"},
		// Definitions are ordinary calls; the defining keyword (def, defp,
		// defmodule, ...) is reported as the detail.
		OutlineRules: StandardRules(KindModule, KindFunction),
	})
}
