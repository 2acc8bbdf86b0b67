package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bcfview/bcfview/internal/bcf"
	"github.com/bcfview/bcfview/internal/usecase"
)

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Replace the session with one BCF archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *usecase.Session) error {
				archive, err := s.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printLoaded(cmd, archive)
				return nil
			})
		},
	}
}

func newAppendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "append <file>",
		Short: "Add a BCF archive to the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *usecase.Session) error {
				archive, err := s.Append(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printLoaded(cmd, archive)
				return nil
			})
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every archive from the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *usecase.Session) error {
				if err := s.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Session cleared")
				return nil
			})
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove one archive from the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index: %s", args[0])
			}
			return a.withSession(cmd.Context(), func(s *usecase.Session) error {
				if err := s.Remove(cmd.Context(), index); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed archive %d\n", index)
				return nil
			})
		},
	}
}

func printLoaded(cmd *cobra.Command, archive *bcf.Archive) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loaded %s (BCF %s, %d topics, %s)\n",
		archive.Name,
		archive.Version.VersionID,
		len(archive.Markups),
		bcf.ViewpointSummary(archive.ViewpointCount()),
	)
	for _, s := range archive.Skipped {
		fmt.Fprintf(out, "  skipped %s: %s\n", s.Path, s.Reason)
	}
}
