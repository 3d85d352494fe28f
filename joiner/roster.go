package joiner

import (
	"aht-report/models"
	"strings"
)

// RosterIndex is the headcount keyed by agent identifier. Keys compare
// case-insensitively after trimming; a repeated identifier overwrites the
// earlier entry but keeps its original position.
type RosterIndex struct {
	entries    []models.RosterEntry
	byID       map[string]int
	fields     map[models.Field]bool
	Duplicates int
	Skipped    int
}

// Roster builds the index from a normalized roster table.
// Rows without an agent identifier cannot be joined and are skipped.
func Roster(t models.Table) *RosterIndex {
	col := columns(t)
	idx := &RosterIndex{
		byID:   make(map[string]int, len(t.Rows)),
		fields: make(map[models.Field]bool),
	}
	for _, f := range []models.Field{models.FieldAgentStatus, models.FieldSection, models.FieldHRID, models.FieldFullName} {
		if _, ok := col[f]; ok {
			idx.fields[f] = true
		}
	}

	for _, row := range t.Rows {
		get := func(f models.Field) string {
			i, ok := col[f]
			if !ok {
				return ""
			}
			return t.Value(row, i)
		}
		entry := models.RosterEntry{
			AgentID:    get(models.FieldAgentID),
			TeamLeader: get(models.FieldTeamLeader),
			Supervisor: get(models.FieldSupervisor),
			HRID:       get(models.FieldHRID),
			FullName:   get(models.FieldFullName),
			Status:     get(models.FieldAgentStatus),
			Section:    get(models.FieldSection),
		}
		key := Key(entry.AgentID)
		if key == "" {
			idx.Skipped++
			continue
		}
		if pos, exists := idx.byID[key]; exists {
			idx.entries[pos] = entry
			idx.Duplicates++
			continue
		}
		idx.byID[key] = len(idx.entries)
		idx.entries = append(idx.entries, entry)
	}
	return idx
}

// Lookup finds the entry for an agent identifier.
func (r *RosterIndex) Lookup(agentID string) (models.RosterEntry, bool) {
	if r == nil {
		return models.RosterEntry{}, false
	}
	pos, ok := r.byID[Key(agentID)]
	if !ok {
		return models.RosterEntry{}, false
	}
	return r.entries[pos], true
}

// Entries returns the de-duplicated roster in first-appearance order.
func (r *RosterIndex) Entries() []models.RosterEntry {
	if r == nil {
		return nil
	}
	return append([]models.RosterEntry(nil), r.entries...)
}

// Has reports whether the roster table carried the optional field.
func (r *RosterIndex) Has(f models.Field) bool {
	return r != nil && r.fields[f]
}

// Len is the number of unique agents.
func (r *RosterIndex) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Key is the normalized join key for an agent identifier.
func Key(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
