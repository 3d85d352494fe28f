package formatter

import (
	"fmt"
	"strconv"
)

// Style describes font and fill for a cell class. Colors are "#RRGGBB".
type Style struct {
	Bold      bool
	FontColor string
	Fill      string
}

// Band classifies numeric AHT cells: Good at or below Low, Warn up to High,
// Bad above High.
type Band struct {
	Low  float64
	High float64
	Good Style
	Warn Style
	Bad  Style
}

// BandRule is one band condition written as a spreadsheet formula relative
// to the top-left cell of a range. Non-numeric cells never match.
type BandRule struct {
	Formula string
	Style   Style
}

// Rules returns the Good, Warn and Bad conditions for a range whose top-left
// cell is cell.
func (b Band) Rules(cell string) []BandRule {
	low := strconv.FormatFloat(b.Low, 'f', -1, 64)
	high := strconv.FormatFloat(b.High, 'f', -1, 64)
	return []BandRule{
		{Formula: fmt.Sprintf("AND(ISNUMBER(%s),%s<=%s)", cell, cell, low), Style: b.Good},
		{Formula: fmt.Sprintf("AND(ISNUMBER(%s),%s>%s,%s<=%s)", cell, cell, low, cell, high), Style: b.Warn},
		{Formula: fmt.Sprintf("AND(ISNUMBER(%s),%s>%s)", cell, cell, high), Style: b.Bad},
	}
}

// Gradient is a continuous three-color scale between Min and Max.
type Gradient struct {
	Min      float64
	Mid      float64
	Max      float64
	MinColor string
	MidColor string
	MaxColor string
}

// Styles is the full set of presentation rules for one document. It is a
// plain value: writers receive a copy and never change it.
type Styles struct {
	Header      Style
	Title       Style
	Achieved    Style
	NotAchieved Style
	AHT         Band
	Readiness   Gradient
}

var (
	styleGood = Style{FontColor: "#006100", Fill: "#C6EFCE"}
	styleWarn = Style{FontColor: "#9C5700", Fill: "#FFEB9C"}
	styleBad  = Style{FontColor: "#9C0006", Fill: "#FFC7CE"}
)

// DefaultStyles builds the standard rule set for the given AHT band.
func DefaultStyles(low, high float64) Styles {
	return Styles{
		Header:      Style{Bold: true, FontColor: "#FFFFFF", Fill: "#1F4E78"},
		Title:       Style{Bold: true, FontColor: "#1F4E78", Fill: "#DDEBF7"},
		Achieved:    styleGood,
		NotAchieved: styleBad,
		AHT: Band{
			Low:  low,
			High: high,
			Good: styleGood,
			Warn: styleWarn,
			Bad:  styleBad,
		},
		Readiness: Gradient{
			Min:      0,
			Mid:      0.5,
			Max:      1,
			MinColor: "#F8696B",
			MidColor: "#FFEB84",
			MaxColor: "#63BE7B",
		},
	}
}
