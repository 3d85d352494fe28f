package models

import (
	"math"
	"strconv"
	"strings"
)

// Placeholder is the default token rendered for cells with no data.
const Placeholder = "-"

// Table is a parsed upload: named columns over string cells.
// Rows are never modified after parsing; use Clone for an independent copy.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = append([]string(nil), row...)
	}
	return Table{
		Name:    t.Name,
		Headers: append([]string(nil), t.Headers...),
		Rows:    rows,
	}
}

// Index returns the position of the header equal to name, or -1.
func (t Table) Index(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Value returns the trimmed cell at row/column, or "" when the row is short.
func (t Table) Value(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// Field is a canonical column name.
type Field string

const (
	FieldAgentID        Field = "agent_id"
	FieldHandleTime     Field = "handle_time"
	FieldWrapTime       Field = "wrap_time"
	FieldFirstReplyTime Field = "first_reply_time"
	FieldLanguage       Field = "language"
	FieldCountry        Field = "country"
	FieldAgentStatus    Field = "agent_status"
	FieldQualityOutcome Field = "quality_outcome"
	FieldFlag           Field = "flag"

	FieldTeamLeader Field = "team_leader"
	FieldSupervisor Field = "supervisor"
	FieldHRID       Field = "hr_id"
	FieldFullName   Field = "full_name"
	FieldSection    Field = "section"
)

// InteractionRecord is one handled customer contact.
type InteractionRecord struct {
	AgentID    string
	HandleTime float64
	WrapTime   float64
	// FirstReplyTime is nil when the source file has no first-reply column.
	FirstReplyTime *float64
	Language       string
	Country        string
	Status         string
	Outcome        string
	Flags          []string
}

// TotalTime is the handling plus wrap-up duration in seconds.
func (r InteractionRecord) TotalTime() float64 {
	return r.HandleTime + r.WrapTime
}

// RosterEntry places one agent in the organization.
type RosterEntry struct {
	AgentID    string
	TeamLeader string
	Supervisor string
	HRID       string
	FullName   string
	Status     string
	Section    string
}

// EnrichedRecord is an interaction left-joined with its roster entry.
type EnrichedRecord struct {
	InteractionRecord
	TeamLeader string
	Supervisor string
	Section    string
	Matched    bool
}

// Dataset is the joined record set together with the canonical fields that
// were present in at least one of the source tables.
type Dataset struct {
	Records []EnrichedRecord
	Fields  map[Field]bool
}

// Has reports whether any source table carried the field.
func (d Dataset) Has(f Field) bool {
	return d.Fields[f]
}

// Metric is either a computed value or unavailable ("no data").
type Metric struct {
	value     float64
	available bool
}

// Computed wraps a value. NaN and Inf are treated as unavailable.
func Computed(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{}
	}
	return Metric{value: v, available: true}
}

// Unavailable is the metric with no data.
func Unavailable() Metric {
	return Metric{}
}

// Value returns the metric value and whether it was computed.
func (m Metric) Value() (float64, bool) {
	return m.value, m.available
}

// Available reports whether the metric carries a value.
func (m Metric) Available() bool {
	return m.available
}

// Format renders the value with at most two decimals, or placeholder.
func (m Metric) Format(placeholder string) string {
	if !m.available {
		return placeholder
	}
	return strconv.FormatFloat(m.value, 'f', -1, 64)
}

// Status values for target achievement.
const (
	StatusAchieved    = "Achieved"
	StatusNotAchieved = "Not Achieved"
)

// TeamLeaderSummary is one row of the team-leader view.
type TeamLeaderSummary struct {
	TeamLeader  string
	Section     string
	Urdu        Metric
	Arabic      Metric
	Overall     Metric
	Tenured     Metric
	Nesting     Metric
	ChatsArabic Metric
	ChatsUrdu   Metric
	Variance    Metric
	Status      string
	Readiness   Metric
	FRT         Metric
	// Countries is keyed by country code; Report.Countries fixes the order.
	Countries map[string]Metric
	Releasing Metric
	ZTP       Metric
	Missed    Metric
	Chats     Metric
	Pass      Metric
	Fail      Metric
}

// AgentSummary is one row of the agent view.
type AgentSummary struct {
	HRID       string
	FullName   string
	AgentID    string
	TeamLeader string
	Supervisor string
	AHT        Metric
	FRT        Metric
	Chats      Metric
	Variance   Metric
	Status     string
	Pass       Metric
	Fail       Metric
	Readiness  Metric
}

// Report is everything the formatter needs to lay out the output document.
type Report struct {
	RunID       string
	Target      float64
	MinAHT      float64
	MaxAHT      float64
	Placeholder string
	TeamLeaders []TeamLeaderSummary
	Agents      []AgentSummary
	Countries   []string
	// Roster is the HC upload exactly as read, before normalization.
	Roster    Table
	Unmatched int
}
