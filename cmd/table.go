package cmd

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

func newTableWriter(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	return table
}
