package formatter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	defaultColWidth = 14
	firstColWidth   = 28
)

// styleIDs are the excelize handles created from one Styles value.
type styleIDs struct {
	header      int
	title       int
	good        int
	warn        int
	bad         int
	achieved    int
	notAchieved int
}

// WriteXLSX renders the workbook as a spreadsheet document.
func WriteXLSX(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	ids, err := registerStyles(f, wb.Styles)
	if err != nil {
		return fmt.Errorf("registering styles: %w", err)
	}

	defaultSheet := f.GetSheetName(0)
	for i, sheet := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return err
		}
		if err := writeSheet(f, sheet, wb.Styles, ids); err != nil {
			return fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      "Final Performance Report",
		Creator:    "aht-report",
		Identifier: wb.RunID,
		Created:    time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return err
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet Sheet, styles Styles, ids styleIDs) error {
	row := 1
	widest := 1
	for i, block := range sheet.Blocks {
		if i > 0 {
			row++
		}
		widest = max(widest, len(block.Columns))

		if block.Title != "" {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetCellStr(sheet.Name, cell, block.Title); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet.Name, cell, cell, ids.title); err != nil {
				return err
			}
			row++
		}

		header := make([]interface{}, len(block.Columns))
		for j, c := range block.Columns {
			header[j] = c.Name
		}
		if err := setRow(f, sheet.Name, row, header); err != nil {
			return err
		}
		if len(block.Columns) > 0 {
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(len(block.Columns), row)
			if err := f.SetCellStyle(sheet.Name, first, last, ids.header); err != nil {
				return err
			}
		}
		row++

		firstData := row
		for _, cells := range block.Rows {
			values := make([]interface{}, len(cells))
			for j, c := range cells {
				if c.Numeric {
					values[j] = c.Number
				} else {
					values[j] = c.Text
				}
			}
			if err := setRow(f, sheet.Name, row, values); err != nil {
				return err
			}
			row++
		}
		lastData := row - 1

		if lastData >= firstData {
			for j, col := range block.Columns {
				if err := applyRule(f, sheet.Name, j+1, firstData, lastData, col.Rule, styles, ids); err != nil {
					return err
				}
			}
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(widest)
	if err := f.SetColWidth(sheet.Name, "A", lastCol, defaultColWidth); err != nil {
		return err
	}
	return f.SetColWidth(sheet.Name, "A", "A", firstColWidth)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// applyRule attaches the column's conditional format to rows first..last.
// Band rules are formula based so placeholder text never gets colored.
func applyRule(f *excelize.File, sheet string, col, first, last int, rule Rule, styles Styles, ids styleIDs) error {
	if rule == RuleNone {
		return nil
	}
	topLeft, err := excelize.CoordinatesToCellName(col, first)
	if err != nil {
		return err
	}
	bottom, err := excelize.CoordinatesToCellName(col, last)
	if err != nil {
		return err
	}
	ref := topLeft + ":" + bottom

	var opts []excelize.ConditionalFormatOptions
	switch rule {
	case RuleBand:
		// Rules come back in Good, Warn, Bad order.
		formats := []int{ids.good, ids.warn, ids.bad}
		for i, r := range styles.AHT.Rules(topLeft) {
			opts = append(opts, excelize.ConditionalFormatOptions{Type: "formula", Criteria: r.Formula, Format: formats[i]})
		}
	case RuleStatus:
		opts = []excelize.ConditionalFormatOptions{
			{Type: "cell", Criteria: "==", Value: `"Achieved"`, Format: ids.achieved},
			{Type: "cell", Criteria: "==", Value: `"Not Achieved"`, Format: ids.notAchieved},
		}
	case RuleGradient:
		g := styles.Readiness
		opts = []excelize.ConditionalFormatOptions{{
			Type:     "3_color_scale",
			Criteria: "=",
			MinType:  "num",
			MidType:  "num",
			MaxType:  "num",
			MinValue: strconv.FormatFloat(g.Min, 'f', -1, 64),
			MidValue: strconv.FormatFloat(g.Mid, 'f', -1, 64),
			MaxValue: strconv.FormatFloat(g.Max, 'f', -1, 64),
			MinColor: g.MinColor,
			MidColor: g.MidColor,
			MaxColor: g.MaxColor,
		}}
	}
	return f.SetConditionalFormat(sheet, ref, opts)
}

func registerStyles(f *excelize.File, s Styles) (styleIDs, error) {
	var ids styleIDs
	var err error

	if ids.header, err = f.NewStyle(cellStyle(s.Header, true)); err != nil {
		return ids, err
	}
	if ids.title, err = f.NewStyle(cellStyle(s.Title, false)); err != nil {
		return ids, err
	}

	conditional := []struct {
		dst   *int
		style Style
	}{
		{&ids.good, s.AHT.Good},
		{&ids.warn, s.AHT.Warn},
		{&ids.bad, s.AHT.Bad},
		{&ids.achieved, s.Achieved},
		{&ids.notAchieved, s.NotAchieved},
	}
	for _, c := range conditional {
		if *c.dst, err = f.NewConditionalStyle(cellStyle(c.style, false)); err != nil {
			return ids, err
		}
	}
	return ids, nil
}

func cellStyle(s Style, centered bool) *excelize.Style {
	style := &excelize.Style{
		Font: &excelize.Font{Bold: s.Bold, Color: s.FontColor},
	}
	if s.Fill != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{s.Fill}, Pattern: 1}
	}
	if centered {
		style.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	}
	return style
}
