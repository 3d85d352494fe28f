package aggregator_test

import (
	"math"
	"testing"

	"aht-report/aggregator"
	"aht-report/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(agent, tl, lang string, handle, wrap float64) models.EnrichedRecord {
	return models.EnrichedRecord{
		InteractionRecord: models.InteractionRecord{
			AgentID:    agent,
			HandleTime: handle,
			WrapTime:   wrap,
			Language:   lang,
		},
		TeamLeader: tl,
		Matched:    tl != "",
	}
}

func dataset(fields []models.Field, records ...models.EnrichedRecord) models.Dataset {
	ds := models.Dataset{Records: records, Fields: make(map[models.Field]bool)}
	for _, f := range fields {
		ds.Fields[f] = true
	}
	return ds
}

func value(t *testing.T, m models.Metric) float64 {
	t.Helper()
	v, ok := m.Value()
	require.True(t, ok, "metric should be available")
	return v
}

func TestTeamLeadersTargetComparison(t *testing.T) {
	ds := dataset(
		[]models.Field{models.FieldLanguage},
		record("tom@x.com", "Tom", "Arabic", 100, 20),
		record("tom@x.com", "Tom", "Urdu", 150, 50),
	)

	summaries := aggregator.TeamLeaders(ds, aggregator.Options{Target: 100})
	require.Len(t, summaries, 1)
	s := summaries[0]

	assert.Equal(t, "Tom", s.TeamLeader)
	assert.Equal(t, 160.0, value(t, s.Overall))
	assert.Equal(t, 120.0, value(t, s.Arabic))
	assert.Equal(t, 200.0, value(t, s.Urdu))
	assert.Equal(t, 60.0, value(t, s.Variance))
	assert.Equal(t, models.StatusNotAchieved, s.Status)
	assert.Equal(t, 1.0, value(t, s.ChatsArabic))
	assert.Equal(t, 1.0, value(t, s.ChatsUrdu))
	assert.Equal(t, 2.0, value(t, s.Chats))
}

func TestVarianceAndStatus(t *testing.T) {
	tests := map[string]struct {
		aht            models.Metric
		target         float64
		expectVariance bool
		variance       float64
		status         string
	}{
		"AboveTarget":  {aht: models.Computed(160), target: 100, expectVariance: true, variance: 60, status: models.StatusNotAchieved},
		"AtTarget":     {aht: models.Computed(100), target: 100, status: models.StatusAchieved},
		"BelowTarget":  {aht: models.Computed(80), target: 100, status: models.StatusAchieved},
		"TinyOverage":  {aht: models.Computed(100.001), target: 100, status: models.StatusAchieved},
		"NoData":       {aht: models.Unavailable(), target: 100, status: models.StatusAchieved},
		"FractionalUp": {aht: models.Computed(450.25), target: 450, expectVariance: true, variance: 0.25, status: models.StatusNotAchieved},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			variance := aggregator.Variance(tt.aht, tt.target)
			if tt.expectVariance {
				assert.InDelta(t, tt.variance, value(t, variance), 1e-9)
			} else {
				assert.False(t, variance.Available())
			}
			if v, ok := variance.Value(); ok {
				assert.Greater(t, v, 0.0)
			}
			assert.Equal(t, tt.status, aggregator.Status(variance))
		})
	}
}

func TestReadiness(t *testing.T) {
	tests := map[string]struct {
		pass      models.Metric
		fail      models.Metric
		available bool
		expected  float64
	}{
		"Mixed":         {pass: models.Computed(3), fail: models.Computed(1), available: true, expected: 0.75},
		"AllPass":       {pass: models.Computed(2), fail: models.Computed(0), available: true, expected: 1},
		"NothingJudged": {pass: models.Computed(0), fail: models.Computed(0), available: true, expected: 0},
		"Rounded":       {pass: models.Computed(1), fail: models.Computed(2), available: true, expected: 0.33},
		"NoOutcomes":    {pass: models.Unavailable(), fail: models.Unavailable()},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := aggregator.Readiness(tt.pass, tt.fail)
			if !tt.available {
				assert.False(t, got.Available())
				return
			}
			v := value(t, got)
			assert.False(t, math.IsNaN(v))
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestTeamLeadersOrderAndUnassigned(t *testing.T) {
	ds := dataset(
		[]models.Field{models.FieldLanguage},
		record("b@x.com", "Zed", "Arabic", 100, 0),
		record("ghost@x.com", "", "Arabic", 300, 0),
		record("a@x.com", "Amy", "Urdu", 200, 0),
		record("b@x.com", "Zed", "Urdu", 100, 0),
	)

	summaries := aggregator.TeamLeaders(ds, aggregator.Options{Target: 450})
	require.Len(t, summaries, 2)
	assert.Equal(t, "Zed", summaries[0].TeamLeader)
	assert.Equal(t, "Amy", summaries[1].TeamLeader)
	assert.Equal(t, 2.0, value(t, summaries[0].Chats))

	summaries = aggregator.TeamLeaders(ds, aggregator.Options{Target: 450, UnassignedLabel: "Unassigned"})
	require.Len(t, summaries, 3)
	last := summaries[2]
	assert.Equal(t, "Unassigned", last.TeamLeader)
	assert.Equal(t, 300.0, value(t, last.Overall))
	assert.Equal(t, 1.0, value(t, last.Chats))
}

func TestTeamLeadersCountsAddUp(t *testing.T) {
	ds := dataset(
		[]models.Field{models.FieldLanguage},
		record("a@x.com", "Sara", "Arabic", 100, 0),
		record("a@x.com", "Sara", "arabic", 100, 0),
		record("b@x.com", "Sara", "Urdu", 100, 0),
		record("b@x.com", "Sara", "English", 100, 0),
	)

	s := aggregator.TeamLeaders(ds, aggregator.Options{Target: 450})[0]
	assert.Equal(t, 2.0, value(t, s.ChatsArabic))
	assert.Equal(t, 1.0, value(t, s.ChatsUrdu))
	assert.LessOrEqual(t, value(t, s.ChatsArabic)+value(t, s.ChatsUrdu), value(t, s.Chats))
	assert.Equal(t, 4.0, value(t, s.Chats))
}

func TestTeamLeadersMissingColumns(t *testing.T) {
	ds := dataset(
		[]models.Field{models.FieldLanguage},
		record("a@x.com", "Sara", "Arabic", 100, 20),
	)

	s := aggregator.TeamLeaders(ds, aggregator.Options{Target: 450})[0]

	assert.Equal(t, 120.0, value(t, s.Overall))
	assert.False(t, s.Urdu.Available(), "no Urdu chats")
	assert.False(t, s.FRT.Available(), "no first reply column")
	assert.False(t, s.Tenured.Available(), "no status column")
	assert.False(t, s.Pass.Available(), "no quality column")
	assert.False(t, s.Readiness.Available())
	assert.False(t, s.Releasing.Available(), "no flag column")
	assert.Equal(t, "-", s.FRT.Format(models.Placeholder))
	assert.Equal(t, models.StatusAchieved, s.Status)
}

func TestTeamLeadersOptionalMetrics(t *testing.T) {
	frt := func(v float64) *float64 { return &v }
	records := []models.EnrichedRecord{
		record("a@x.com", "Sara", "Arabic", 100, 0),
		record("a@x.com", "Sara", "Arabic", 200, 0),
		record("b@x.com", "Sara", "Arabic", 300, 0),
	}
	records[0].FirstReplyTime = frt(10)
	records[1].FirstReplyTime = frt(20)
	records[0].Status = "Production"
	records[1].Status = "Production"
	records[2].Status = "Nesting"
	records[0].Outcome = "Pass"
	records[1].Outcome = "Fail"
	records[0].Flags = []string{"ZTP", "Releasing"}
	records[2].Flags = []string{"missed"}
	records[0].Country = "SA"
	records[1].Country = "ae"
	records[2].Country = "SA"

	ds := dataset([]models.Field{
		models.FieldLanguage, models.FieldFirstReplyTime, models.FieldAgentStatus,
		models.FieldQualityOutcome, models.FieldFlag, models.FieldCountry,
	}, records...)

	s := aggregator.TeamLeaders(ds, aggregator.Options{Target: 450, Countries: []string{"KW", "SA"}})[0]

	assert.Equal(t, 15.0, value(t, s.FRT))
	assert.Equal(t, 150.0, value(t, s.Tenured))
	assert.Equal(t, 300.0, value(t, s.Nesting))
	assert.Equal(t, 1.0, value(t, s.Pass))
	assert.Equal(t, 1.0, value(t, s.Fail))
	assert.Equal(t, 0.5, value(t, s.Readiness))
	assert.Equal(t, 1.0, value(t, s.ZTP))
	assert.Equal(t, 1.0, value(t, s.Releasing))
	assert.Equal(t, 1.0, value(t, s.Missed))

	assert.Equal(t, 200.0, value(t, s.Countries["SA"]))
	assert.Equal(t, 200.0, value(t, s.Countries["ae"]))
	assert.False(t, s.Countries["KW"].Available())
}

func TestCountries(t *testing.T) {
	ds := models.Dataset{Records: []models.EnrichedRecord{
		{InteractionRecord: models.InteractionRecord{Country: "sa"}},
		{InteractionRecord: models.InteractionRecord{Country: "EG"}},
		{InteractionRecord: models.InteractionRecord{Country: "AE"}},
		{InteractionRecord: models.InteractionRecord{Country: "eg"}},
		{InteractionRecord: models.InteractionRecord{Country: " "}},
	}}

	got := aggregator.Countries(ds, aggregator.Options{Countries: []string{"SA", "KW"}})
	assert.Equal(t, []string{"SA", "KW", "AE", "EG"}, got)
}

func TestAgents(t *testing.T) {
	roster := []models.RosterEntry{
		{AgentID: "a@x.com", TeamLeader: "Sara", Supervisor: "Omar", FullName: "Ann", HRID: "1"},
		{AgentID: "idle@x.com", TeamLeader: "Sara", Supervisor: "Omar", FullName: "Ivy", HRID: "2"},
	}
	ds := dataset(
		[]models.Field{models.FieldLanguage, models.FieldQualityOutcome},
		record("A@x.com", "Sara", "Arabic", 400, 100),
		record("a@x.com", "Sara", "Urdu", 300, 0),
		record("ghost@x.com", "", "Urdu", 999, 0),
	)
	ds.Records[0].Outcome = "pass"

	agents := aggregator.Agents(ds, roster, aggregator.Options{Target: 450})
	require.Len(t, agents, 2)

	a := agents[0]
	assert.Equal(t, "Ann", a.FullName)
	assert.Equal(t, "Omar", a.Supervisor)
	assert.Equal(t, 400.0, value(t, a.AHT))
	assert.Equal(t, 2.0, value(t, a.Chats))
	assert.Equal(t, models.StatusAchieved, a.Status)
	assert.False(t, a.Variance.Available())
	assert.Equal(t, 1.0, value(t, a.Readiness))

	idle := agents[1]
	assert.Equal(t, "idle@x.com", idle.AgentID)
	assert.Equal(t, 0.0, value(t, idle.Chats))
	assert.False(t, idle.AHT.Available())
	assert.Equal(t, models.StatusAchieved, idle.Status)
	assert.Equal(t, 0.0, value(t, idle.Readiness))
}
