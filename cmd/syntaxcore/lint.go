package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DeusData/syntaxcore/internal/engine"
	"github.com/DeusData/syntaxcore/internal/queries"
)

func newLintCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [dir]",
		Short: "Check that pattern files compile",
		Long: "Compiles every <language>/<kind>.scm file under dir, or every pattern the " +
			"project sees when dir is omitted, and reports each failing pattern.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := g.openEngine(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if len(args) == 1 {
				scoped := engine.New(engine.Options{
					Config:   e.Config(),
					Registry: e.Registry(),
					Patterns: queries.Dir(args[0]),
				})
				defer scoped.Close()
				e = scoped
			}

			reports, err := e.LintPatterns()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if g.jsonOut {
				if err := writeJSON(out, reports); err != nil {
					return err
				}
			} else {
				for _, r := range reports {
					if r.Error != "" {
						fmt.Fprintf(out, "%s: %s\n", r.Asset.Path(), r.Error)
						continue
					}
					for _, d := range r.Diagnostics {
						fmt.Fprintf(out, "%s:%d:%d: %s", r.Asset.Path(), d.Row+1, d.Column+1, d.Kind)
						if d.Message != "" {
							fmt.Fprintf(out, ": %s", d.Message)
						}
						fmt.Fprintln(out)
					}
				}
			}
			if len(reports) > 0 {
				return fmt.Errorf("%d pattern files with errors", len(reports))
			}
			return nil
		},
	}
}
