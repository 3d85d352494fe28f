// Package joiner turns normalized tables into typed records and left-joins
// interactions against the headcount roster.
package joiner

import (
	"aht-report/errors"
	"aht-report/models"
	"strings"

	"github.com/samber/lo"
)

var interactionFields = []models.Field{
	models.FieldAgentID,
	models.FieldHandleTime,
	models.FieldWrapTime,
	models.FieldFirstReplyTime,
	models.FieldLanguage,
	models.FieldCountry,
	models.FieldAgentStatus,
	models.FieldQualityOutcome,
	models.FieldFlag,
}

// Batch is the coerced content of one or more interaction tables.
type Batch struct {
	Records  []models.InteractionRecord
	Fields   map[models.Field]bool
	Warnings []errors.TypeCoercionWarning
}

// Interactions coerces a normalized interaction table into records.
// Numeric cells that fail coercion become 0 and produce a warning.
// When the table has no language column, defaultLanguage (if set) is applied
// to every record.
func Interactions(t models.Table, defaultLanguage string) Batch {
	col := columns(t)
	b := Batch{Fields: make(map[models.Field]bool)}
	for _, f := range interactionFields {
		if _, ok := col[f]; ok {
			b.Fields[f] = true
		}
	}

	langIdx, hasLang := col[models.FieldLanguage]
	if !hasLang && defaultLanguage != "" {
		b.Fields[models.FieldLanguage] = true
	}

	b.Records = make([]models.InteractionRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		rowNum := i + 1
		get := func(f models.Field) string {
			idx, ok := col[f]
			if !ok {
				return ""
			}
			return t.Value(row, idx)
		}
		num := func(f models.Field) float64 {
			raw := get(f)
			v, ok := parseSeconds(raw)
			if !ok {
				b.Warnings = append(b.Warnings, errors.TypeCoercionWarning{
					File: t.Name, Row: rowNum, Column: string(f), Value: raw,
				})
			}
			return v
		}

		rec := models.InteractionRecord{
			AgentID:    get(models.FieldAgentID),
			HandleTime: num(models.FieldHandleTime),
			WrapTime:   num(models.FieldWrapTime),
			Country:    get(models.FieldCountry),
			Status:     get(models.FieldAgentStatus),
			Outcome:    get(models.FieldQualityOutcome),
			Flags:      splitFlags(get(models.FieldFlag)),
		}
		if hasLang {
			rec.Language = t.Value(row, langIdx)
		}
		if rec.Language == "" {
			rec.Language = defaultLanguage
		}
		if _, ok := col[models.FieldFirstReplyTime]; ok && get(models.FieldFirstReplyTime) != "" {
			frt := num(models.FieldFirstReplyTime)
			rec.FirstReplyTime = &frt
		}
		b.Records = append(b.Records, rec)
	}
	return b
}

// Concat appends batches in order.
func Concat(batches ...Batch) Batch {
	out := Batch{Fields: make(map[models.Field]bool)}
	for _, b := range batches {
		out.Records = append(out.Records, b.Records...)
		out.Warnings = append(out.Warnings, b.Warnings...)
		for f, ok := range b.Fields {
			out.Fields[f] = out.Fields[f] || ok
		}
	}
	return out
}

// Join left-joins every record against the roster by agent identifier.
// Records with no roster match are kept with empty organizational fields.
func Join(b Batch, roster *RosterIndex) models.Dataset {
	ds := models.Dataset{
		Records: make([]models.EnrichedRecord, 0, len(b.Records)),
		Fields:  make(map[models.Field]bool, len(b.Fields)+1),
	}
	for f, ok := range b.Fields {
		ds.Fields[f] = ok
	}
	if roster.Has(models.FieldAgentStatus) {
		ds.Fields[models.FieldAgentStatus] = true
	}

	for _, rec := range b.Records {
		enriched := models.EnrichedRecord{InteractionRecord: rec}
		if entry, ok := roster.Lookup(rec.AgentID); ok {
			enriched.Matched = true
			enriched.TeamLeader = entry.TeamLeader
			enriched.Supervisor = entry.Supervisor
			enriched.Section = entry.Section
			if enriched.Status == "" {
				enriched.Status = entry.Status
			}
		}
		ds.Records = append(ds.Records, enriched)
	}
	return ds
}

// JoinAll concatenates the batches and joins them once. The result holds the
// same records as joining each batch and concatenating the datasets.
func JoinAll(batches []Batch, roster *RosterIndex) models.Dataset {
	return Join(Concat(batches...), roster)
}

// ConcatDatasets appends joined datasets in order.
func ConcatDatasets(sets ...models.Dataset) models.Dataset {
	out := models.Dataset{Fields: make(map[models.Field]bool)}
	for _, ds := range sets {
		out.Records = append(out.Records, ds.Records...)
		for f, ok := range ds.Fields {
			out.Fields[f] = out.Fields[f] || ok
		}
	}
	return out
}

// Unmatched counts records that found no roster entry.
func Unmatched(ds models.Dataset) int {
	return lo.CountBy(ds.Records, func(r models.EnrichedRecord) bool {
		return !r.Matched
	})
}

func columns(t models.Table) map[models.Field]int {
	col := make(map[models.Field]int, len(t.Headers))
	for i, h := range t.Headers {
		f := models.Field(h)
		if _, seen := col[f]; !seen {
			col[f] = i
		}
	}
	return col
}

func splitFlags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == '/'
	})
	flags := lo.FilterMap(parts, func(p string, _ int) (string, bool) {
		p = strings.TrimSpace(p)
		return p, p != ""
	})
	if len(flags) == 0 {
		return nil
	}
	return flags
}
