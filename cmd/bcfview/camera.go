package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bcfview/bcfview/internal/host"
	"github.com/bcfview/bcfview/internal/usecase"
)

func newCameraCmd(a *app) *cobra.Command {
	var (
		viewpoint string
		unit      string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "camera <topic>",
		Short: "Show the camera and selection of a topic's viewpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(s *usecase.Session) error {
				ref, err := usecase.ResolveTopic(s.Set(), args[0])
				if err != nil {
					return err
				}
				vp, err := usecase.ResolveViewpoint(ref.Markup, viewpoint)
				if err != nil {
					return err
				}

				view := usecase.NewViewpointView(vp)
				if view.Move != nil && unit != "" {
					move, err := host.ToHostUnits(*view.Move, unit)
					if err != nil {
						return err
					}
					view.Move = &move
				}

				if format == formatJSON {
					return outputJSON(cmd, view)
				}
				outputCamera(cmd, view, unit)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&viewpoint, "viewpoint", "", "Viewpoint GUID (defaults to the first viewpoint)")
	cmd.Flags().StringVar(&unit, "unit", "", "Convert positions to host units: mm, cm, m, inch, or feet")
	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")

	return cmd
}

func outputCamera(cmd *cobra.Command, v usecase.ViewpointView, unit string) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Viewpoint: %s\n", v.GUID)
	fmt.Fprintf(out, "Camera:    %s\n", v.Camera)
	fmt.Fprintln(out, v.Summary)
	if v.Move != nil && unit != "" {
		p := v.Move.ViewPoint
		fmt.Fprintf(out, "Host :\t%.3f,\t%.3f,\t%.3f (%s)\n", p[0], p[1], p[2], unit)
	}
	if v.Snapshot != "" {
		fmt.Fprintf(out, "Snapshot:  %s\n", v.Snapshot)
	}
	if v.Image != "" {
		fmt.Fprintf(out, "Image:     %s %dx%d (ratio %.2f)\n", v.Image, v.Width, v.Height, v.Ratio)
	}
	if len(v.Selection) > 0 {
		fmt.Fprintln(out, "Selection:")
		for _, guid := range v.Selection {
			fmt.Fprintf(out, "  %s\n", guid)
		}
	}
}
