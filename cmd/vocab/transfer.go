package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/phrazzld/scry-vocab/internal/archive"
	"github.com/spf13/cobra"
)

func newExportCmd(holder *appHolder) *cobra.Command {
	var (
		groupID int64
		out     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export groups to a backup file",
		Long: `Export one group (--group) or the whole library.

With archive compression enabled the backup is a zip bundle with one JSON
document per group; otherwise it is a single JSON document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := holder.app.library

			var (
				data   []byte
				format archive.Format
				err    error
				name   = "vocab-backup"
			)
			if cmd.Flags().Changed("group") {
				g := lib.Snapshot().FindGroup(groupID)
				if g == nil {
					return fmt.Errorf("group not found: %d", groupID)
				}
				name = archive.EntryName(*g)
				name = name[:len(name)-len(".json")]
				data, format, err = lib.ExportGroup(cmd.Context(), groupID)
			} else {
				data, format, err = lib.ExportAll(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			if out == "" {
				out = name + format.Extension()
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%s, %d bytes)\n", out, format, len(data))
			return nil
		},
	}

	cmd.Flags().Int64VarP(&groupID, "group", "g", 0, "Export only this group")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default: derived from the group name)")
	return cmd
}

func newImportCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "import PATH",
		Short: "Import groups from a backup file",
		Long: `Import a backup produced by export: a zip bundle, a group document, a
bundle document or an array of groups. Imported groups are added next to the
existing ones; colliding ids are renumbered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}

			report, err := holder.app.library.Import(cmd.Context(), data)
			var skipped *multierror.Error
			if err != nil && !errors.As(err, &skipped) {
				return fmt.Errorf("import: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Imported %d groups, %d words\n", report.GroupsAdded, report.WordsAdded)
			if n := len(report.GroupsRenumbered) + len(report.WordsRenumbered); n > 0 {
				fmt.Fprintf(w, "Renumbered %d colliding ids\n", n)
			}
			if skipped != nil {
				fmt.Fprintf(w, "Skipped %d entries:\n", len(skipped.Errors))
				for _, e := range skipped.Errors {
					fmt.Fprintf(w, "  - %v\n", e)
				}
				if report.GroupsAdded == 0 {
					return errors.New("import: nothing could be imported")
				}
			}
			return nil
		},
	}
}
