package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/bcfview/bcfview/internal/usecase"
)

func newShowCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the session's files and topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(s *usecase.Session) error {
				files := s.Set().Files()
				out := showOutput{
					Files:  make([]usecase.FileView, 0, len(files)),
					Topics: usecase.TopicViews(s.Set()),
				}
				for _, f := range files {
					out.Files = append(out.Files, usecase.NewFileView(f))
				}

				if format == formatJSON {
					return outputJSON(cmd, out)
				}
				outputFilesTable(cmd, out.Files)
				outputTopicsTable(cmd, out.Topics)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")

	return cmd
}

type showOutput struct {
	Files  []usecase.FileView  `json:"files"`
	Topics []usecase.TopicView `json:"topics"`
}

func outputFilesTable(cmd *cobra.Command, files []usecase.FileView) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"#", "File", "Version", "Topics", "Viewpoints", "Skipped"})
	for _, f := range files {
		t.AppendRow(table.Row{
			f.Index,
			f.Name,
			f.Version,
			f.Topics,
			f.Viewpoints,
			len(f.Skipped),
		})
	}

	t.Render()
}

// topicColumnWidths holds the widths of the wrapped topic columns
type topicColumnWidths struct {
	archive int
	title   int
	status  int
	author  int
}

// calculateTopicColumnWidths gives the title whatever the fixed columns leave
func calculateTopicColumnWidths(termWidth int, topics []usecase.TopicView) topicColumnWidths {
	const numColumns = 8
	available := termWidth - numColumns*3

	archiveWidth := 4
	statusWidth := 6
	authorWidth := 6
	for _, t := range topics {
		archiveWidth = max(archiveWidth, runewidth.StringWidth(t.Archive))
		statusWidth = max(statusWidth, runewidth.StringWidth(t.Status))
		authorWidth = max(authorWidth, runewidth.StringWidth(t.Author))
	}
	archiveWidth = min(archiveWidth, 24)
	statusWidth = min(statusWidth, 12)
	authorWidth = min(authorWidth, 24)

	// number, index, created (19), viewpoints (12)
	fixed := 3 + 5 + 19 + 12
	titleWidth := available - fixed - archiveWidth - statusWidth - authorWidth
	if titleWidth < 15 {
		titleWidth = 15
	}

	return topicColumnWidths{
		archive: archiveWidth,
		title:   titleWidth,
		status:  statusWidth,
		author:  authorWidth,
	}
}

func outputTopicsTable(cmd *cobra.Command, topics []usecase.TopicView) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	widths := calculateTopicColumnWidths(getTerminalWidth(), topics)

	t.AppendHeader(table.Row{"#", "File", "Index", "Title", "Status", "Author", "Created", "Viewpoints"})
	for _, topic := range topics {
		created := topic.CreationDate
		if created == "" {
			created = "-"
		}
		t.AppendRow(table.Row{
			topic.Number,
			wrapString(topic.Archive, widths.archive),
			strconv.Itoa(topic.Index),
			runewidth.Truncate(topic.Title, widths.title, "..."),
			wrapString(topic.Status, widths.status),
			wrapString(topic.Author, widths.author),
			created,
			topic.Viewpoints,
		})
	}

	t.Render()
}
