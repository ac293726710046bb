package commands

import (
	"io"
	"musicpal/internal/scrapers/musicpal"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the commands the device understands.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Command", "Endpoint", "Method", "Usage", "Description"})
			for _, c := range musicpal.Commands() {
				t.AppendRow(table.Row{
					c.Name,
					c.Endpoint.String(),
					c.HTTPMethod(),
					c.Usage,
					c.Description,
				})
			}
			t.Render()
		},
	}
}
