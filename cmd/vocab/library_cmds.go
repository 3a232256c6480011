package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return id, nil
}

func newGroupCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage word groups",
	}

	cmd.AddCommand(newGroupListCmd(holder))
	cmd.AddCommand(newGroupAddCmd(holder))
	cmd.AddCommand(newGroupRenameCmd(holder))
	cmd.AddCommand(newGroupDeleteCmd(holder))

	return cmd
}

type groupSummary struct {
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Words int    `json:"words" yaml:"words"`
	Due   int    `json:"due" yaml:"due"`
}

func newGroupListCmd(holder *appHolder) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List groups with word and due counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			lib := holder.app.library
			params := lib.Params()
			now := nowFunc()

			summaries := make([]groupSummary, 0)
			for _, g := range lib.Snapshot().Groups {
				s := groupSummary{ID: g.ID, Name: g.Name, Words: len(g.Words)}
				for _, w := range g.Words {
					if params.IsDue(w, now) {
						s.Due++
					}
				}
				summaries = append(summaries, s)
			}

			if done, err := writeStructured(cmd.OutOrStdout(), output, summaries); done {
				return err
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No groups yet. Add one with: vocab group add NAME")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tWORDS\tDUE")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", s.ID, s.Name, s.Words, s.Due)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")
	return cmd
}

func newGroupAddCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := holder.app.library.CreateGroup(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("create group: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Group created: %d %s\n", g.ID, g.Name)
			return nil
		},
	}
}

func newGroupRenameCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "group")
			if err != nil {
				return err
			}
			if err := holder.app.library.RenameGroup(cmd.Context(), id, args[1]); err != nil {
				return fmt.Errorf("rename group: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Group %d renamed\n", id)
			return nil
		},
	}
}

func newGroupDeleteCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a group and all of its words",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "group")
			if err != nil {
				return err
			}
			if err := holder.app.library.DeleteGroup(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete group: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Group %d deleted\n", id)
			return nil
		},
	}
}

func newWordCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "word",
		Short: "Manage words",
	}

	cmd.AddCommand(newWordListCmd(holder))
	cmd.AddCommand(newWordAddCmd(holder))
	cmd.AddCommand(newWordEditCmd(holder))
	cmd.AddCommand(newWordDeleteCmd(holder))

	return cmd
}

func newWordListCmd(holder *appHolder) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list GROUP_ID",
		Short: "List the words of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			id, err := parseID(args[0], "group")
			if err != nil {
				return err
			}
			g := holder.app.library.Snapshot().FindGroup(id)
			if g == nil {
				return fmt.Errorf("group not found: %d", id)
			}

			if done, err := writeStructured(cmd.OutOrStdout(), output, g.Words); done {
				return err
			}
			params := holder.app.library.Params()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTERM\tDEFINITION\tSTAGE\tNEXT REVIEW")
			for _, w := range g.Words {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", w.ID, w.Term, w.Definition,
					params.Label(w.StageIndex), w.NextReviewAt.Local().Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")
	return cmd
}

func newWordAddCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "add GROUP_ID TERM DEFINITION",
		Short: "Add a word to a group",
		Long:  "Add a word. The definition may list several accepted answers separated by ',', ';' or '/'.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID, err := parseID(args[0], "group")
			if err != nil {
				return err
			}
			w, err := holder.app.library.AddWord(cmd.Context(), groupID, args[1], args[2])
			if err != nil {
				return fmt.Errorf("add word: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Word created: %d %s = %s\n", w.ID, w.Term, w.Definition)
			return nil
		},
	}
}

func newWordEditCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "edit ID TERM DEFINITION",
		Short: "Change the term and definition of a word",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "word")
			if err != nil {
				return err
			}
			w, err := holder.app.library.EditWord(cmd.Context(), id, args[1], args[2])
			if err != nil {
				return fmt.Errorf("edit word: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Word updated: %d %s = %s\n", w.ID, w.Term, w.Definition)
			return nil
		},
	}
}

func newWordDeleteCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "word")
			if err != nil {
				return err
			}
			if err := holder.app.library.DeleteWord(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete word: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Word %d deleted\n", id)
			return nil
		},
	}
}
