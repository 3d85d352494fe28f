package aggregator

import (
	"aht-report/joiner"
	"aht-report/models"
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Category values matched (case-insensitively) in the interaction data.
const (
	LanguageArabic   = "Arabic"
	LanguageUrdu     = "Urdu"
	StatusProduction = "Production"
	StatusNesting    = "Nesting"
	OutcomePass      = "Pass"
	OutcomeFail      = "Fail"
	FlagReleasing    = "Releasing"
	FlagZTP          = "ZTP"
	FlagMissed       = "Missed"
)

// Options control grouping and target comparison.
type Options struct {
	// Target is the AHT goal in seconds.
	Target float64
	// UnassignedLabel, when set, groups records without a team leader under
	// this name instead of leaving them out of the team-leader view.
	UnassignedLabel string
	// Countries are always reported, in this order, before any other
	// countries found in the data.
	Countries []string
}

type predicate func(models.EnrichedRecord) bool

// TeamLeaders computes one summary per distinct team leader, in order of
// first appearance in the data.
func TeamLeaders(ds models.Dataset, opts Options) []models.TeamLeaderSummary {
	groups := lo.GroupBy(ds.Records, func(r models.EnrichedRecord) string {
		return r.TeamLeader
	})

	keys := lo.Uniq(lo.FilterMap(ds.Records, func(r models.EnrichedRecord, _ int) (string, bool) {
		return r.TeamLeader, r.TeamLeader != ""
	}))

	unassigned := groups[""]
	delete(groups, "")
	if opts.UnassignedLabel != "" && len(unassigned) > 0 {
		if _, exists := groups[opts.UnassignedLabel]; !exists {
			keys = append(keys, opts.UnassignedLabel)
		}
		groups[opts.UnassignedLabel] = append(groups[opts.UnassignedLabel], unassigned...)
	}

	countries := Countries(ds, opts)
	summaries := make([]models.TeamLeaderSummary, 0, len(keys))
	for _, tl := range keys {
		summaries = append(summaries, summarizeTeamLeader(tl, groups[tl], ds, countries, opts.Target))
	}
	return summaries
}

func summarizeTeamLeader(name string, records []models.EnrichedRecord, ds models.Dataset, countries []string, target float64) models.TeamLeaderSummary {
	s := models.TeamLeaderSummary{
		TeamLeader:  name,
		Urdu:        meanTotal(records, ds, models.FieldLanguage, languageIs(LanguageUrdu)),
		Arabic:      meanTotal(records, ds, models.FieldLanguage, languageIs(LanguageArabic)),
		Overall:     meanTotal(records, ds, "", nil),
		Tenured:     meanTotal(records, ds, models.FieldAgentStatus, statusIs(StatusProduction)),
		Nesting:     meanTotal(records, ds, models.FieldAgentStatus, statusIs(StatusNesting)),
		ChatsArabic: count(records, ds, models.FieldLanguage, languageIs(LanguageArabic)),
		ChatsUrdu:   count(records, ds, models.FieldLanguage, languageIs(LanguageUrdu)),
		FRT:         meanFirstReply(records, ds),
		Countries:   make(map[string]models.Metric, len(countries)),
		Releasing:   count(records, ds, models.FieldFlag, hasFlag(FlagReleasing)),
		ZTP:         count(records, ds, models.FieldFlag, hasFlag(FlagZTP)),
		Missed:      count(records, ds, models.FieldFlag, hasFlag(FlagMissed)),
		Chats:       models.Computed(float64(len(records))),
		Pass:        count(records, ds, models.FieldQualityOutcome, outcomeIs(OutcomePass)),
		Fail:        count(records, ds, models.FieldQualityOutcome, outcomeIs(OutcomeFail)),
	}
	if len(records) > 0 {
		s.Section = records[0].Section
	}
	for _, c := range countries {
		s.Countries[c] = meanTotal(records, ds, models.FieldCountry, countryIs(c))
	}
	s.Variance = Variance(s.Overall, target)
	s.Status = Status(s.Variance)
	s.Readiness = Readiness(s.Pass, s.Fail)
	return s
}

// Agents computes one summary per roster entry, in roster order. Agents
// with no interactions are included with zero counts and placeholders.
func Agents(ds models.Dataset, roster []models.RosterEntry, opts Options) []models.AgentSummary {
	byAgent := lo.GroupBy(lo.Filter(ds.Records, func(r models.EnrichedRecord, _ int) bool {
		return r.Matched
	}), func(r models.EnrichedRecord) string {
		return joiner.Key(r.AgentID)
	})

	summaries := make([]models.AgentSummary, 0, len(roster))
	for _, entry := range roster {
		records := byAgent[joiner.Key(entry.AgentID)]
		a := models.AgentSummary{
			HRID:       entry.HRID,
			FullName:   entry.FullName,
			AgentID:    entry.AgentID,
			TeamLeader: entry.TeamLeader,
			Supervisor: entry.Supervisor,
			AHT:        meanTotal(records, ds, "", nil),
			FRT:        meanFirstReply(records, ds),
			Chats:      models.Computed(float64(len(records))),
			Pass:       count(records, ds, models.FieldQualityOutcome, outcomeIs(OutcomePass)),
			Fail:       count(records, ds, models.FieldQualityOutcome, outcomeIs(OutcomeFail)),
		}
		a.Variance = Variance(a.AHT, opts.Target)
		a.Status = Status(a.Variance)
		a.Readiness = Readiness(a.Pass, a.Fail)
		summaries = append(summaries, a)
	}
	return summaries
}

// Countries returns the country columns: configured codes first, then the
// remaining codes seen in the data, sorted. Codes compare case-insensitively.
func Countries(ds models.Dataset, opts Options) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(code string) {
		code = strings.TrimSpace(code)
		key := strings.ToUpper(code)
		if code == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, code)
	}
	for _, c := range opts.Countries {
		add(c)
	}

	var found []string
	for _, r := range ds.Records {
		c := strings.TrimSpace(r.Country)
		if c != "" && !seen[strings.ToUpper(c)] && !lo.ContainsBy(found, func(f string) bool { return strings.EqualFold(f, c) }) {
			found = append(found, c)
		}
	}
	sort.Strings(found)
	for _, c := range found {
		add(c)
	}
	return out
}

// Variance is AHT minus target. Values at or under target are reported as
// unavailable rather than negative.
func Variance(aht models.Metric, target float64) models.Metric {
	v, ok := aht.Value()
	if !ok {
		return models.Unavailable()
	}
	diff := round(v-target, 2)
	if diff <= 0 {
		return models.Unavailable()
	}
	return models.Computed(diff)
}

// Status classifies target achievement: any positive variance misses the
// target, everything else (including no data) achieves it.
func Status(variance models.Metric) string {
	if variance.Available() {
		return models.StatusNotAchieved
	}
	return models.StatusAchieved
}

// Readiness is pass / (pass + fail), 0 when nothing was evaluated.
func Readiness(pass, fail models.Metric) models.Metric {
	p, okPass := pass.Value()
	f, okFail := fail.Value()
	if !okPass || !okFail {
		return models.Unavailable()
	}
	if p+f == 0 {
		return models.Computed(0)
	}
	return models.Computed(round(p/(p+f), 2))
}

// meanTotal averages total handling time over records matching keep. The
// result is unavailable when field is absent from every input or no record
// matches.
func meanTotal(records []models.EnrichedRecord, ds models.Dataset, field models.Field, keep predicate) models.Metric {
	if field != "" && !ds.Has(field) {
		return models.Unavailable()
	}
	subset := records
	if keep != nil {
		subset = lo.Filter(records, func(r models.EnrichedRecord, _ int) bool { return keep(r) })
	}
	if len(subset) == 0 {
		return models.Unavailable()
	}
	sum := lo.SumBy(subset, func(r models.EnrichedRecord) float64 { return r.TotalTime() })
	return models.Computed(round(sum/float64(len(subset)), 2))
}

func meanFirstReply(records []models.EnrichedRecord, ds models.Dataset) models.Metric {
	if !ds.Has(models.FieldFirstReplyTime) {
		return models.Unavailable()
	}
	values := lo.FilterMap(records, func(r models.EnrichedRecord, _ int) (float64, bool) {
		if r.FirstReplyTime == nil {
			return 0, false
		}
		return *r.FirstReplyTime, true
	})
	if len(values) == 0 {
		return models.Unavailable()
	}
	return models.Computed(round(lo.Sum(values)/float64(len(values)), 2))
}

// count is 0 when nothing matches and unavailable only when the source
// column is missing from every input.
func count(records []models.EnrichedRecord, ds models.Dataset, field models.Field, keep predicate) models.Metric {
	if !ds.Has(field) {
		return models.Unavailable()
	}
	return models.Computed(float64(lo.CountBy(records, keep)))
}

func languageIs(lang string) predicate {
	return func(r models.EnrichedRecord) bool { return strings.EqualFold(r.Language, lang) }
}

func statusIs(status string) predicate {
	return func(r models.EnrichedRecord) bool { return strings.EqualFold(r.Status, status) }
}

func outcomeIs(outcome string) predicate {
	return func(r models.EnrichedRecord) bool { return strings.EqualFold(r.Outcome, outcome) }
}

func countryIs(code string) predicate {
	return func(r models.EnrichedRecord) bool { return strings.EqualFold(strings.TrimSpace(r.Country), code) }
}

func hasFlag(flag string) predicate {
	return func(r models.EnrichedRecord) bool {
		return lo.ContainsBy(r.Flags, func(f string) bool { return strings.EqualFold(f, flag) })
	}
}

func round(value float64, places int) float64 {
	pow := math.Pow10(places)
	return math.Round(value*pow) / pow
}
