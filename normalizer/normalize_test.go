package normalizer_test

import (
	"errors"
	"testing"

	customerrors "aht-report/errors"
	"aht-report/models"
	"aht-report/normalizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnIndex(t *testing.T) {
	tests := map[string]struct {
		letter   string
		expected int
		wantErr  bool
	}{
		"A":          {letter: "A", expected: 0},
		"Z":          {letter: "Z", expected: 25},
		"AA":         {letter: "AA", expected: 26},
		"AB":         {letter: "AB", expected: 27},
		"AD":         {letter: "AD", expected: 29},
		"Lowercase":  {letter: "ad", expected: 29},
		"Whitespace": {letter: " L ", expected: 11},
		"Empty":      {letter: "", wantErr: true},
		"Digits":     {letter: "A1", wantErr: true},
		"Symbol":     {letter: "$", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := normalizer.ColumnIndex(tt.letter)
			if tt.wantErr {
				assert.ErrorIs(t, err, customerrors.ErrInvalidColumnRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]struct {
		headers  []string
		mapping  normalizer.Mapping
		expected []string
		missing  []string
	}{
		"RosterAliases": {
			headers:  []string{" Email ", "TL", "SPV", "Full Name"},
			mapping:  normalizer.RosterMapping(),
			expected: []string{"agent_id", "team_leader", "supervisor", "full_name"},
		},
		"CaseAndSeparatorInsensitive": {
			headers:  []string{"AGENT_EMAIL", "team-leader", "Supervisor"},
			mapping:  normalizer.RosterMapping(),
			expected: []string{"agent_id", "team_leader", "supervisor"},
		},
		"ArabicAliases": {
			headers:  []string{"رقم الموظف", "قائد الفريق", "المشرف"},
			mapping:  normalizer.RosterMapping(),
			expected: []string{"agent_id", "team_leader", "supervisor"},
		},
		"EmailPreferredOverHRID": {
			headers:  []string{"HR ID", "Email", "TL", "SPV"},
			mapping:  normalizer.RosterMapping(),
			expected: []string{"hr_id", "agent_id", "team_leader", "supervisor"},
		},
		"UnmappedHeadersKeptTrimmed": {
			headers:  []string{"agent_email", "Handle Time", "Wrap Up Time", "  Chat ID  "},
			mapping:  normalizer.InteractionMapping(),
			expected: []string{"agent_id", "handle_time", "wrap_time", "Chat ID"},
		},
		"ChatStatusLeftUnmapped": {
			headers:  []string{"Email", "Handle Time", "Wrap Time", "Status"},
			mapping:  normalizer.InteractionMapping(),
			expected: []string{"agent_id", "handle_time", "wrap_time", "Status"},
		},
		"MissingRequired": {
			headers: []string{"Email", "Name"},
			mapping: normalizer.RosterMapping(),
			missing: []string{"team_leader", "supervisor"},
		},
		"PositionalFallback": {
			headers:  []string{"x", "y", "z", "TL", "SPV"},
			mapping:  normalizer.RosterMapping().WithPosition(models.FieldAgentID, "B"),
			expected: []string{"x", "agent_id", "z", "team_leader", "supervisor"},
		},
		"PositionalIgnoredWhenAliasMatches": {
			headers:  []string{"Email", "other", "TL", "SPV"},
			mapping:  normalizer.RosterMapping().WithPosition(models.FieldAgentID, "B"),
			expected: []string{"agent_id", "other", "team_leader", "supervisor"},
		},
		"PositionalOutOfRange": {
			headers: []string{"x", "TL", "SPV"},
			mapping: normalizer.RosterMapping().WithPosition(models.FieldAgentID, "AD"),
			missing: []string{"agent_id"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			table := models.Table{Name: "hc.xlsx", Headers: tt.headers}
			got, err := normalizer.Normalize(table, tt.mapping)

			if tt.missing != nil {
				var missing *customerrors.MissingColumnError
				require.True(t, errors.As(err, &missing), "expected MissingColumnError, got %v", err)
				assert.Equal(t, tt.missing, missing.Missing)
				assert.Equal(t, tt.headers, missing.Found)
				assert.Equal(t, "hc.xlsx", missing.File)
				assert.ErrorIs(t, err, customerrors.ErrMissingColumn)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.Headers)
		})
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	table := models.Table{
		Name:    "raw.csv",
		Headers: []string{"Email", "Handle Time", "ACW"},
		Rows:    [][]string{{"a@x.com", "100", "20"}},
	}
	original := table.Clone()

	got, err := normalizer.Normalize(table, normalizer.InteractionMapping())
	require.NoError(t, err)

	assert.Equal(t, original, table)
	assert.Equal(t, []string{"agent_id", "handle_time", "wrap_time"}, got.Headers)

	got.Rows[0][0] = "changed"
	assert.Equal(t, "a@x.com", table.Rows[0][0])
}

func TestPositionalUsesCurrentColumnOrder(t *testing.T) {
	headers := make([]string, 31)
	for i := range headers {
		headers[i] = "col"
	}
	headers[29] = "Agent (export)"
	headers[3] = "Handle Time"
	headers[4] = "Wrap Time"

	mapping := normalizer.InteractionMapping().WithPosition(models.FieldAgentID, "AD")
	res := normalizer.Resolve(headers, mapping)

	field, ok := res.Field(29)
	require.True(t, ok)
	assert.Equal(t, models.FieldAgentID, field)
	require.Len(t, res.Notes, 1)
	assert.Contains(t, res.Notes[0], "using column AD")
}

func TestWithPositionDoesNotModifyOriginal(t *testing.T) {
	base := normalizer.RosterMapping()
	withPos := base.WithPosition(models.FieldTeamLeader, "C")

	for _, spec := range base {
		assert.Empty(t, spec.Position)
	}
	assert.True(t, withPos.Has(models.FieldTeamLeader))

	extended := base.WithPosition(models.Field("queue"), "F")
	assert.Len(t, extended, len(base)+1)
	assert.False(t, base.Has(models.Field("queue")))
}
