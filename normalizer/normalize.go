// Package normalizer maps arbitrary upload headers onto the canonical field
// names used by the rest of the report pipeline.
package normalizer

import (
	"aht-report/errors"
	"aht-report/models"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FieldSpec declares how one canonical field is found in an upload.
// Aliases are tried in order; Position is a spreadsheet column letter used
// only when no alias matched.
type FieldSpec struct {
	Field    models.Field
	Aliases  []string
	Position string
	Required bool
}

// Mapping is resolved in order; each source column is claimed at most once.
type Mapping []FieldSpec

// WithPosition returns a copy of the mapping with a positional fallback for
// field. Fields not already declared are appended as optional.
func (m Mapping) WithPosition(field models.Field, letter string) Mapping {
	out := make(Mapping, len(m))
	copy(out, m)
	for i := range out {
		if out[i].Field == field {
			out[i].Position = letter
			return out
		}
	}
	return append(out, FieldSpec{Field: field, Position: letter})
}

// Has reports whether the mapping declares field.
func (m Mapping) Has(field models.Field) bool {
	for _, spec := range m {
		if spec.Field == field {
			return true
		}
	}
	return false
}

// Resolution is the concrete rename plan for one header row.
type Resolution struct {
	// Columns maps source column index to canonical field.
	Columns map[int]models.Field
	// Notes explains positional fallbacks that were applied or skipped.
	Notes []string
}

// Field returns the canonical field claimed for column idx, if any.
func (r Resolution) Field(idx int) (models.Field, bool) {
	f, ok := r.Columns[idx]
	return f, ok
}

// Resolve matches headers against the mapping without touching the table.
func Resolve(headers []string, m Mapping) Resolution {
	res := Resolution{Columns: make(map[int]models.Field)}
	claimed := make(map[models.Field]bool)

	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = aliasKey(h)
	}

	for _, spec := range m {
		names := append([]string{string(spec.Field)}, spec.Aliases...)
	aliases:
		for _, name := range names {
			want := aliasKey(name)
			for idx, key := range keys {
				if key == "" || key != want {
					continue
				}
				if _, taken := res.Columns[idx]; taken {
					continue
				}
				res.Columns[idx] = spec.Field
				claimed[spec.Field] = true
				break aliases
			}
		}
	}

	for _, spec := range m {
		if spec.Position == "" || claimed[spec.Field] {
			continue
		}
		idx, err := ColumnIndex(spec.Position)
		if err != nil {
			res.Notes = append(res.Notes, fmt.Sprintf("%s: %v", spec.Field, err))
			continue
		}
		if idx >= len(headers) {
			res.Notes = append(res.Notes, fmt.Sprintf("%s: %v: column %s, only %d columns present",
				spec.Field, errors.ErrColumnOutOfRange, strings.ToUpper(spec.Position), len(headers)))
			continue
		}
		if other, taken := res.Columns[idx]; taken {
			res.Notes = append(res.Notes, fmt.Sprintf("%s: column %s already mapped to %s",
				spec.Field, strings.ToUpper(spec.Position), other))
			continue
		}
		res.Columns[idx] = spec.Field
		claimed[spec.Field] = true
		res.Notes = append(res.Notes, fmt.Sprintf("%s: using column %s (%q)",
			spec.Field, strings.ToUpper(spec.Position), strings.TrimSpace(headers[idx])))
	}

	return res
}

// Normalize returns a copy of t whose headers are renamed to canonical
// fields. Unmapped headers are kept, whitespace-trimmed. The input table is
// not modified.
func Normalize(t models.Table, m Mapping) (models.Table, error) {
	res := Resolve(t.Headers, m)

	out := t.Clone()
	present := make(map[models.Field]bool, len(res.Columns))
	for i, h := range out.Headers {
		if f, ok := res.Columns[i]; ok {
			out.Headers[i] = string(f)
			present[f] = true
			continue
		}
		out.Headers[i] = strings.TrimSpace(h)
	}

	var missing []string
	for _, spec := range m {
		if spec.Required && !present[spec.Field] {
			missing = append(missing, string(spec.Field))
		}
	}
	if len(missing) > 0 {
		return models.Table{}, &errors.MissingColumnError{
			File:    t.Name,
			Missing: missing,
			Found:   append([]string(nil), t.Headers...),
		}
	}
	return out, nil
}

// ColumnIndex converts a spreadsheet column letter to a zero-based index:
// A=0, Z=25, AA=26, AD=29.
func ColumnIndex(letter string) (int, error) {
	letter = strings.TrimSpace(letter)
	for _, r := range letter {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return 0, fmt.Errorf("%w: %q", errors.ErrInvalidColumnRef, letter)
		}
	}
	n, err := excelize.ColumnNameToNumber(letter)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", errors.ErrInvalidColumnRef, letter, err)
	}
	return n - 1, nil
}

// aliasKey folds case and drops whitespace, underscores and dashes so that
// "Agent Email", "agent_email" and " AGENT-EMAIL " compare equal.
func aliasKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '_', '-':
			return -1
		}
		return r
	}, s)
}
