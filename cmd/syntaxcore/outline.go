package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DeusData/syntaxcore/internal/discover"
	"github.com/DeusData/syntaxcore/internal/engine"
	"github.com/DeusData/syntaxcore/internal/extract"
)

func newOutlineCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "outline <file|dir>",
		Short: "List the symbols defined in a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := g.openEngine(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if info.IsDir() {
				return g.outlineDir(cmd, e, args[0])
			}

			l, src, err := g.readSource(args[0])
			if err != nil {
				return err
			}
			syms, err := e.Outline(l, src)
			if err != nil {
				return err
			}
			if g.jsonOut {
				return writeJSON(out, syms)
			}
			printSymbols(out, syms, "")
			return nil
		},
	}
}

func (g *globals) outlineDir(cmd *cobra.Command, e *engine.Engine, dir string) error {
	opts := &discover.Options{}
	if g.language != "" {
		l, err := g.languageFor("")
		if err != nil {
			return err
		}
		opts.Languages = append(opts.Languages, l)
	}
	files, err := e.OutlineDir(cmd.Context(), dir, opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if g.jsonOut {
		return writeJSON(out, files)
	}
	failed := 0
	for _, f := range files {
		if f.Error != "" {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", f.Path, f.Error)
			continue
		}
		fmt.Fprintln(out, f.Path)
		printSymbols(out, f.Symbols, "  ")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func printSymbols(w io.Writer, syms []extract.Symbol, indent string) {
	for _, s := range syms {
		var b strings.Builder
		fmt.Fprintf(&b, "%s%d:%d\t%s\t%s", indent, s.Range.StartPoint.Row+1, s.Range.StartPoint.Column+1, s.Kind, s.Name)
		if s.Detail != nil {
			b.WriteString(" " + *s.Detail)
		}
		fmt.Fprintln(w, b.String())
	}
}
