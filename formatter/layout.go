package formatter

import (
	"aht-report/models"
	"encoding/json"

	"github.com/samber/lo"
)

// Sheet names in the output document.
const (
	SheetView   = "View"
	SheetAgents = "Agents"
	SheetRoster = "HC"
)

// Rule is the visual classification applied to a column.
type Rule int

const (
	RuleNone Rule = iota
	RuleBand
	RuleStatus
	RuleGradient
)

// Column is one output column and its styling rule.
type Column struct {
	Name string `json:"name"`
	Rule Rule   `json:"-"`
}

// Cell is a rendered value: numeric cells keep their number so the
// spreadsheet can classify them.
type Cell struct {
	Text    string
	Number  float64
	Numeric bool
}

// MarshalJSON writes numbers as numbers and everything else as strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Numeric {
		return json.Marshal(c.Number)
	}
	return json.Marshal(c.Text)
}

// Block is a header row plus data rows, optionally preceded by a title row.
type Block struct {
	Title   string   `json:"title,omitempty"`
	Columns []Column `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// Sheet is a named table of stacked blocks.
type Sheet struct {
	Name   string  `json:"name"`
	Blocks []Block `json:"blocks"`
}

// Workbook is the laid-out report ready for any writer.
type Workbook struct {
	RunID  string  `json:"run_id,omitempty"`
	Sheets []Sheet `json:"sheets"`
	Styles Styles  `json:"-"`
}

// TeamLeaderColumns is the canonical team-leader column order. Country
// columns sit between FRT and Releasing.
func TeamLeaderColumns(countries []string) []Column {
	cols := []Column{
		{Name: "Team leader"},
		{Name: "Urdu", Rule: RuleBand},
		{Name: "Arabic", Rule: RuleBand},
		{Name: "Over all AHT Score", Rule: RuleBand},
		{Name: "Tenured AHT", Rule: RuleBand},
		{Name: "Nesting AHT", Rule: RuleBand},
		{Name: "# Chats Arabic"},
		{Name: "# Chats Urdu"},
		{Name: "Var From Target"},
		{Name: "Status", Rule: RuleStatus},
		{Name: "Readiness", Rule: RuleGradient},
		{Name: "FRT"},
	}
	for _, c := range countries {
		cols = append(cols, Column{Name: c, Rule: RuleBand})
	}
	return append(cols,
		Column{Name: "Releasing"},
		Column{Name: "ZTP"},
		Column{Name: "Missed"},
		Column{Name: "Chats"},
		Column{Name: "Pass"},
		Column{Name: "Fail"},
	)
}

// AgentColumns is the canonical agent column order.
func AgentColumns() []Column {
	return []Column{
		{Name: "HR ID"},
		{Name: "Full Name"},
		{Name: "Email"},
		{Name: "TL"},
		{Name: "SPV"},
		{Name: "AHT Score", Rule: RuleBand},
		{Name: "FRT"},
		{Name: "# Chats"},
		{Name: "Var From Target"},
		{Name: "Status", Rule: RuleStatus},
		{Name: "Pass"},
		{Name: "Fail"},
		{Name: "Readiness", Rule: RuleGradient},
	}
}

// Layout arranges a report into the View, Agents and HC sheets.
func Layout(report *models.Report, styles Styles) Workbook {
	placeholder := report.Placeholder
	if placeholder == "" {
		placeholder = models.Placeholder
	}
	return Workbook{
		RunID: report.RunID,
		Sheets: []Sheet{
			{Name: SheetView, Blocks: teamLeaderBlocks(report, placeholder)},
			{Name: SheetAgents, Blocks: []Block{agentBlock(report, placeholder)}},
			{Name: SheetRoster, Blocks: []Block{rosterBlock(report.Roster)}},
		},
		Styles: styles,
	}
}

// teamLeaderBlocks stacks one block per section when the roster carries
// sections, otherwise a single untitled block.
func teamLeaderBlocks(report *models.Report, placeholder string) []Block {
	columns := TeamLeaderColumns(report.Countries)
	sectioned := lo.SomeBy(report.TeamLeaders, func(s models.TeamLeaderSummary) bool {
		return s.Section != ""
	})
	if !sectioned {
		return []Block{{
			Columns: columns,
			Rows:    lo.Map(report.TeamLeaders, func(s models.TeamLeaderSummary, _ int) []Cell { return teamLeaderRow(s, report.Countries, placeholder) }),
		}}
	}

	order := lo.Uniq(lo.Map(report.TeamLeaders, func(s models.TeamLeaderSummary, _ int) string { return s.Section }))
	groups := lo.GroupBy(report.TeamLeaders, func(s models.TeamLeaderSummary) string { return s.Section })
	blocks := make([]Block, 0, len(order))
	for _, section := range order {
		title := section
		if title == "" {
			title = placeholder
		}
		blocks = append(blocks, Block{
			Title:   title,
			Columns: columns,
			Rows:    lo.Map(groups[section], func(s models.TeamLeaderSummary, _ int) []Cell { return teamLeaderRow(s, report.Countries, placeholder) }),
		})
	}
	return blocks
}

func teamLeaderRow(s models.TeamLeaderSummary, countries []string, placeholder string) []Cell {
	row := []Cell{
		text(s.TeamLeader, placeholder),
		metric(s.Urdu, placeholder),
		metric(s.Arabic, placeholder),
		metric(s.Overall, placeholder),
		metric(s.Tenured, placeholder),
		metric(s.Nesting, placeholder),
		metric(s.ChatsArabic, placeholder),
		metric(s.ChatsUrdu, placeholder),
		metric(s.Variance, placeholder),
		text(s.Status, placeholder),
		metric(s.Readiness, placeholder),
		metric(s.FRT, placeholder),
	}
	for _, c := range countries {
		m, ok := s.Countries[c]
		if !ok {
			m = models.Unavailable()
		}
		row = append(row, metric(m, placeholder))
	}
	return append(row,
		metric(s.Releasing, placeholder),
		metric(s.ZTP, placeholder),
		metric(s.Missed, placeholder),
		metric(s.Chats, placeholder),
		metric(s.Pass, placeholder),
		metric(s.Fail, placeholder),
	)
}

func agentBlock(report *models.Report, placeholder string) Block {
	rows := make([][]Cell, 0, len(report.Agents))
	for _, a := range report.Agents {
		rows = append(rows, []Cell{
			text(a.HRID, placeholder),
			text(a.FullName, placeholder),
			text(a.AgentID, placeholder),
			text(a.TeamLeader, placeholder),
			text(a.Supervisor, placeholder),
			metric(a.AHT, placeholder),
			metric(a.FRT, placeholder),
			metric(a.Chats, placeholder),
			metric(a.Variance, placeholder),
			text(a.Status, placeholder),
			metric(a.Pass, placeholder),
			metric(a.Fail, placeholder),
			metric(a.Readiness, placeholder),
		})
	}
	return Block{Columns: AgentColumns(), Rows: rows}
}

// rosterBlock copies the HC upload cell for cell.
func rosterBlock(t models.Table) Block {
	columns := lo.Map(t.Headers, func(h string, _ int) Column { return Column{Name: h} })
	rows := make([][]Cell, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make([]Cell, max(len(t.Headers), len(r)))
		for i, v := range r {
			row[i] = Cell{Text: v}
		}
		rows = append(rows, row)
	}
	return Block{Columns: columns, Rows: rows}
}

func metric(m models.Metric, placeholder string) Cell {
	v, ok := m.Value()
	if !ok {
		return Cell{Text: placeholder}
	}
	return Cell{Text: m.Format(placeholder), Number: v, Numeric: true}
}

func text(s, placeholder string) Cell {
	if s == "" {
		return Cell{Text: placeholder}
	}
	return Cell{Text: s}
}
