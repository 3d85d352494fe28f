package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
)

// FormatText returns an aligned plain-text rendering of every sheet.
func FormatText(wb Workbook) string {
	var sb strings.Builder

	for i, sheet := range wb.Sheets {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("== %s ==\n", sheet.Name))

		for _, block := range sheet.Blocks {
			if block.Title != "" {
				sb.WriteString(fmt.Sprintf("[%s]\n", block.Title))
			}
			tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, strings.Join(columnNames(block.Columns), "\t"))
			for _, row := range block.Rows {
				fmt.Fprintln(tw, strings.Join(cellTexts(row), "\t"))
			}
			tw.Flush()
		}
	}

	return sb.String()
}

// FormatJSON returns the JSON representation of the workbook
func FormatJSON(wb Workbook) string {
	jsonBytes, _ := json.MarshalIndent(wb, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns every sheet as CSV. Sheets are introduced by a
// "# <name>" line and blocks are separated by an empty record.
func FormatCSV(wb Workbook) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	for i, sheet := range wb.Sheets {
		if i > 0 {
			writer.Write([]string{""})
		}
		writer.Write([]string{"# " + sheet.Name})
		for j, block := range sheet.Blocks {
			writeBlockToCSV(writer, block, j > 0)
		}
	}

	writer.Flush()
	return sb.String()
}

// writeBlockToCSV writes a single block's title, header and rows
func writeBlockToCSV(writer *csv.Writer, block Block, spaced bool) {
	if spaced {
		writer.Write([]string{""})
	}
	if block.Title != "" {
		writer.Write([]string{block.Title})
	}
	writer.Write(columnNames(block.Columns))
	for _, row := range block.Rows {
		writer.Write(cellTexts(row))
	}
}

func columnNames(cols []Column) []string {
	return lo.Map(cols, func(c Column, _ int) string { return c.Name })
}

func cellTexts(row []Cell) []string {
	return lo.Map(row, func(c Cell, _ int) string { return c.Text })
}
