package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DeusData/syntaxcore/internal/query"
)

func newQueryCmd(g *globals) *cobra.Command {
	var patternFile string
	var startByte, endByte uint
	cmd := &cobra.Command{
		Use:   "query <file> [pattern]",
		Short: "Run a query pattern over a file and print its captures",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, err := patternArg(args[1:], patternFile)
			if err != nil {
				return err
			}
			e, _, err := g.openEngine(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			l, src, err := g.readSource(args[0])
			if err != nil {
				return err
			}
			q, err := e.Compile(l, pattern)
			if err != nil {
				return err
			}
			defer q.Close()
			tree, err := e.Parse(l, src)
			if err != nil {
				return err
			}
			defer tree.Close()

			var opts []query.Option
			if endByte > 0 {
				opts = append(opts, query.WithByteRange(startByte, endByte))
			}
			if limit := e.Config().EffectiveMatchLimit(); limit > 0 {
				opts = append(opts, query.WithMatchLimit(limit))
			}
			caps, err := q.Captures(tree.Root(), opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if g.jsonOut {
				type row struct {
					Match uint   `json:"match"`
					Name  string `json:"name"`
					Kind  string `json:"kind"`
					Text  string `json:"text"`
				}
				rows := make([]row, 0, len(caps))
				for _, c := range caps {
					rows = append(rows, row{c.MatchID, c.Name, c.Node.Kind(), c.Node.Text()})
				}
				return writeJSON(out, rows)
			}
			for _, c := range caps {
				p := c.Node.StartPoint()
				fmt.Fprintf(out, "%d\t%d:%d\t@%s\t%q\n", c.MatchID, p.Row+1, p.Column+1, c.Name, c.Node.Text())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&patternFile, "file", "f", "", "Read the pattern from a file")
	cmd.Flags().UintVar(&startByte, "start-byte", 0, "Restrict matches to nodes ending after this offset")
	cmd.Flags().UintVar(&endByte, "end-byte", 0, "Restrict matches to nodes starting before this offset (0: no restriction)")
	return cmd
}

func patternArg(args []string, file string) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", errors.New("pass a pattern or --file, not both")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read pattern: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return args[0], nil
	}
	return "", errors.New("missing pattern")
}
