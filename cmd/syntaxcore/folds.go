package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFoldsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "folds <file>",
		Short: "List the collapsible line ranges of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := g.openEngine(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			l, src, err := g.readSource(args[0])
			if err != nil {
				return err
			}
			folds, err := e.Folds(l, src)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if g.jsonOut {
				return writeJSON(out, folds)
			}
			for _, f := range folds {
				fmt.Fprintf(out, "%d-%d\t%s\n", f.StartLine+1, f.EndLine+1, f.Kind)
			}
			return nil
		},
	}
}

func newHighlightsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "highlights <file>",
		Short: "Classify the spans of a file for syntax highlighting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := g.openEngine(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			l, src, err := g.readSource(args[0])
			if err != nil {
				return err
			}
			hl, err := e.Highlights(l, src)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if g.jsonOut {
				return writeJSON(out, hl)
			}
			for _, h := range hl {
				r := h.Range
				fmt.Fprintf(out, "%d:%d-%d:%d\t%s\t%q\n",
					r.StartPoint.Row+1, r.StartPoint.Column+1, r.EndPoint.Row+1, r.EndPoint.Column+1,
					h.Class, src[r.StartByte:r.EndByte])
			}
			return nil
		},
	}
}
