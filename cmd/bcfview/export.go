package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bcfview/bcfview/internal/config"
	"github.com/bcfview/bcfview/internal/export"
	"github.com/bcfview/bcfview/internal/usecase"
)

func newExportCmd(a *app) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "export [dir]",
		Short: "Write every snapshot and camera of the session to a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := config.GetExportDir()
			if len(args) == 1 {
				dir = args[0]
			}

			if verify {
				m, err := export.ReadManifest(dir)
				if err != nil {
					return err
				}
				bad, err := m.Verify()
				if err != nil {
					return err
				}
				for _, p := range bad {
					fmt.Fprintf(cmd.OutOrStdout(), "modified or missing: %s\n", p)
				}
				if len(bad) > 0 {
					return fmt.Errorf("%d of %d exported files do not match the manifest", len(bad), len(m.Files))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d files verified\n", len(m.Files))
				return nil
			}

			return a.withSession(cmd.Context(), func(s *usecase.Session) error {
				m, err := export.Write(dir, s.Set().Files())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d files to %s\n", len(m.Files), dir)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "Check a previous export against its manifest instead of writing")

	return cmd
}
