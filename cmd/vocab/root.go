package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd creates the vocab command tree. Subcommands read the
// application from holder, which is filled in before any of them runs.
func newRootCmd(holder *appHolder) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "vocab",
		Short: "Learn vocabulary with spaced repetition",
		Long: `Organize words into groups and review them on a fixed retention ladder.

vocab provides tools to:
- Review due words, a single group, or everything in random order
- Add, edit and delete groups and words
- Show progress across the ladder
- Export and import backups`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return holder.init(cmd.Context(), configPath, cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Config file (default: ./vocab.yaml or the user config directory)")

	root.AddCommand(newReviewCmd(holder))
	root.AddCommand(newGroupCmd(holder))
	root.AddCommand(newWordCmd(holder))
	root.AddCommand(newStatsCmd(holder))
	root.AddCommand(newExportCmd(holder))
	root.AddCommand(newImportCmd(holder))

	return root
}
