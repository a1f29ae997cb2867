package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ListRow is one row of the discovery listing: an invocable operation and
// where it goes.
type ListRow struct {
	Resource  string `json:"resource"`
	Operation string `json:"operation"`
	Method    string `json:"method"`
	Path      string `json:"path"`
}

// RenderListTable renders discovery rows as a table for human reading.
// Rows are emitted in the order given, which follows command-tree order.
func RenderListTable(rows []ListRow) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("RESOURCE"),
		text.FgHiCyan.Sprint("OPERATION"),
		text.FgHiCyan.Sprint("METHOD"),
		text.FgHiCyan.Sprint("PATH"),
	})
	for _, row := range rows {
		t.AppendRow(table.Row{row.Resource, row.Operation, row.Method, row.Path})
	}
	return t.Render()
}
