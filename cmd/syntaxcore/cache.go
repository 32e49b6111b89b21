package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCacheCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or prune the result cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, _, err := g.openEngine(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			if e.Cache() == nil {
				return errors.New("cache is disabled")
			}
			st, err := e.Cache().Stats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if g.jsonOut {
				return writeJSON(out, st)
			}
			fmt.Fprintf(out, "path:    %s\nentries: %d\nbytes:   %d\n", e.Cache().Path(), st.Entries, st.Bytes)
			return nil
		},
	})

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete entries not used recently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, _, err := g.openEngine(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			if e.Cache() == nil {
				return errors.New("cache is disabled")
			}
			n, err := e.Cache().Prune(olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d entries\n", n)
			return nil
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Delete entries unused for this long")
	cmd.AddCommand(prune)
	return cmd
}
