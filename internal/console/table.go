package console

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var headerCaser = cases.Title(language.English)

// tableSpec describes one rendered listing. Column indexes in rightAligned
// are zero-based.
type tableSpec struct {
	title        string
	headers      []string
	rows         [][]string
	rightAligned []int
}

func renderTable(spec tableSpec) string {
	if len(spec.headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if spec.title != "" {
		tw.SetTitle(headerCaser.String(spec.title))
	}

	header := make(table.Row, len(spec.headers))
	for i, name := range spec.headers {
		header[i] = headerCaser.String(name)
	}
	tw.AppendHeader(header)

	for _, row := range spec.rows {
		r := make(table.Row, len(spec.headers))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	right := make(map[int]bool, len(spec.rightAligned))
	for _, idx := range spec.rightAligned {
		right[idx] = true
	}
	configs := make([]table.ColumnConfig, 0, len(spec.headers))
	for i := range spec.headers {
		align := text.AlignLeft
		if right[i] {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

func shouldColorize(writer io.Writer) bool {
	if locked, ok := writer.(*LockedWriter); ok {
		writer = locked.Unwrap()
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
