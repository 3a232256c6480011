package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// nowFunc is replaced in tests.
var nowFunc = time.Now

func newStatsCmd(holder *appHolder) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show library statistics",
		Long:  "Show how many words are due, learned and on each stage of the ladder.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			st := holder.app.library.Stats()
			if done, err := writeStructured(cmd.OutOrStdout(), output, st); done {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Groups:  %d\n", st.Groups)
			fmt.Fprintf(w, "Words:   %d\n", st.Total)
			fmt.Fprintf(w, "Due:     %d\n", st.Due)
			fmt.Fprintf(w, "Learned: %d\n\n", st.Learned)

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "STAGE\tINTERVAL\tWORDS")
			for _, s := range st.Stages {
				fmt.Fprintf(tw, "%d\t%s\t%d\n", s.Stage, s.Label, s.Count)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")
	return cmd
}
