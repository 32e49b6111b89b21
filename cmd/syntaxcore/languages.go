package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/queries"
)

func newLanguagesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List languages with a grammar and the patterns shipped for each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, _, err := g.openEngine(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			type row struct {
				Name       lang.Language `json:"name"`
				Extensions []string      `json:"extensions,omitempty"`
				Patterns   []string      `json:"patterns"`
			}
			var rows []row
			for _, l := range e.Registry().Available() {
				r := row{Name: l, Patterns: []string{}}
				if spec := lang.ForLanguage(l); spec != nil {
					r.Extensions = spec.FileExtensions
				}
				for _, k := range queries.Kinds() {
					_, err := e.Patterns().Pattern(l, k)
					if err == nil {
						r.Patterns = append(r.Patterns, string(k))
					} else if !errors.Is(err, queries.ErrNotFound) {
						return err
					}
				}
				rows = append(rows, r)
			}

			out := cmd.OutOrStdout()
			if g.jsonOut {
				return writeJSON(out, rows)
			}
			for _, r := range rows {
				fmt.Fprintf(out, "%-12s %-30s %s\n", r.Name, strings.Join(r.Extensions, " "), strings.Join(r.Patterns, ","))
			}
			return nil
		},
	}
}
