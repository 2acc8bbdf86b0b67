package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/bcfview/bcfview/internal/bcf"
	"github.com/bcfview/bcfview/internal/usecase"
)

func newTopicCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "topic <guid|number>",
		Short: "Show a topic with its comments and viewpoints",
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
				detail := usecase.NewTopicDetail(usecase.TopicNumber(s.Set(), ref), ref)

				if format == formatJSON {
					return outputJSON(cmd, detail)
				}
				outputTopicDetail(cmd, detail)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")

	return cmd
}

func outputTopicDetail(cmd *cobra.Command, d usecase.TopicDetail) {
	out := cmd.OutOrStdout()
	t := d.Topic

	fmt.Fprintf(out, "Title:       %s\n", t.Title)
	fmt.Fprintf(out, "GUID:        %s\n", t.GUID)
	fmt.Fprintf(out, "File:        %s\n", t.Archive)
	fmt.Fprintf(out, "Index:       %d\n", t.Index)
	fmt.Fprintf(out, "Type:        %s\n", t.Type)
	fmt.Fprintf(out, "Status:      %s\n", t.Status)
	fmt.Fprintf(out, "Priority:    %s\n", t.Priority)
	fmt.Fprintf(out, "Labels:      %s\n", bcf.FormatLabels(t.Labels))
	fmt.Fprintf(out, "Assigned To: %s\n", t.AssignedTo)
	fmt.Fprintf(out, "Created:     %s %s\n", t.Author, t.CreationDate)
	if t.Modified != "" {
		fmt.Fprintf(out, "Modified:    %s\n", t.Modified)
	}
	if t.DueDate != "" {
		fmt.Fprintf(out, "Due:         %s\n", t.DueDate)
	}
	fmt.Fprintf(out, "Viewpoints:  %s\n", t.Viewpoints)
	if d.Description != "" {
		fmt.Fprintf(out, "\n%s\n", d.Description)
	}

	if len(d.Comments) > 0 {
		fmt.Fprintln(out)
		outputCommentsTable(out, d.Comments)
	}
}

func outputCommentsTable(w io.Writer, comments []usecase.CommentView) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	textWidth := getTerminalWidth() - 19 - 20 - 14 - 12
	if textWidth < 20 {
		textWidth = 20
	}

	t.AppendHeader(table.Row{"Date", "Author", "Comment", "Viewpoint"})
	for _, c := range comments {
		t.AppendRow(table.Row{
			c.Date,
			wrapString(c.Author, 20),
			wrapString(c.Text, textWidth),
			c.Viewpoint,
		})
	}

	t.Render()
}
