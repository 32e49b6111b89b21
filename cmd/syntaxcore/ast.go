package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DeusData/syntaxcore/internal/parser"
)

// maxNodeText truncates node text in the tree dump.
const maxNodeText = 60

func newASTCmd(g *globals) *cobra.Command {
	var sexpr, named bool
	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Print the syntax tree of a file",
		Long:  "Prints one node per line with its field name and text. Use it to find node types and fields when writing patterns.",
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
			tree, err := e.Parse(l, src)
			if err != nil {
				return err
			}
			defer tree.Close()

			out := cmd.OutOrStdout()
			if sexpr {
				fmt.Fprintln(out, tree.Root().SExpr())
				return nil
			}
			printAST(out, tree.Root(), 0, named)
			return nil
		},
	}
	cmd.Flags().BoolVar(&sexpr, "sexpr", false, "Print an S-expression instead")
	cmd.Flags().BoolVar(&named, "named", false, "Skip anonymous nodes")
	return cmd
}

func printAST(w io.Writer, n parser.Node, indent int, namedOnly bool) {
	if namedOnly && !n.IsNamed() {
		return
	}
	text := n.Text()
	if len(text) > maxNodeText {
		text = text[:maxNodeText] + "..."
	}
	marker := ""
	switch {
	case n.IsError():
		marker = " ERROR"
	case n.IsMissing():
		marker = " MISSING"
	}
	r := n.Range()
	fmt.Fprintf(w, "%s%s%s [%d:%d-%d:%d] %q\n", strings.Repeat("  ", indent), n.Kind(), marker,
		r.StartPoint.Row+1, r.StartPoint.Column+1, r.EndPoint.Row+1, r.EndPoint.Column+1, text)
	for i := range n.ChildCount() {
		if c, ok := n.Child(i); ok {
			printAST(w, c, indent+1, namedOnly)
		}
	}
}
