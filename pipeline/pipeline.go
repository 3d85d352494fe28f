// Package pipeline runs one report: read uploads, normalize headers, join to
// the roster and aggregate. Fatal input errors stop the run before any output
// exists.
package pipeline

import (
	"aht-report/aggregator"
	reporterrors "aht-report/errors"
	"aht-report/joiner"
	"aht-report/metrics"
	"aht-report/models"
	"aht-report/normalizer"
	"aht-report/parser"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Source is one interaction upload. Language, when set, is applied to rows
// that carry no language of their own (e.g. an Urdu-only export).
type Source struct {
	Path     string
	Language string
}

// Inputs are the files for one run.
type Inputs struct {
	Interactions []Source
	Roster       string
}

// Options carry the numeric configuration and mapping overrides.
type Options struct {
	RunID           string
	Target          float64
	MinAHT          float64
	MaxAHT          float64
	UnassignedLabel string
	Countries       []string
	Placeholder     string
	// InteractionColumns and RosterColumns map canonical fields to
	// spreadsheet column letters used when no header alias matches.
	InteractionColumns map[models.Field]string
	RosterColumns      map[models.Field]string
}

// Run produces the report for one set of uploads.
func Run(in Inputs, opts Options, logger zerolog.Logger) (*models.Report, error) {
	metrics.ResetReportGauges()

	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	logger = logger.With().Str("run_id", opts.RunID).Logger()

	if len(in.Interactions) == 0 {
		return nil, fmt.Errorf("at least one interaction file is required")
	}

	rosterRaw, rosterTable, err := load(in.Roster, withPositions(normalizer.RosterMapping(), opts.RosterColumns), logger)
	if err != nil {
		return nil, fail(err)
	}
	roster := joiner.Roster(rosterTable)
	metrics.ParserRowsTotal.WithLabelValues("roster").Add(float64(len(rosterRaw.Rows)))
	metrics.RosterDuplicatesTotal.Add(float64(roster.Duplicates))
	if roster.Duplicates > 0 || roster.Skipped > 0 {
		logger.Warn().
			Str("file", in.Roster).
			Int("duplicates", roster.Duplicates).
			Int("skipped", roster.Skipped).
			Msg("roster rows collapsed or skipped")
	}

	interactionMapping := withPositions(normalizer.InteractionMapping(), opts.InteractionColumns)
	batches := make([]joiner.Batch, 0, len(in.Interactions))
	for _, src := range in.Interactions {
		raw, table, err := load(src.Path, interactionMapping, logger)
		if err != nil {
			return nil, fail(joinKeyError(err))
		}
		batch := joiner.Interactions(table, src.Language)
		metrics.ParserRowsTotal.WithLabelValues("interactions").Add(float64(len(raw.Rows)))
		for _, w := range batch.Warnings {
			metrics.CoercionWarningsTotal.WithLabelValues(w.Column).Inc()
			logger.Debug().Err(w).Msg("numeric coercion")
		}
		if len(batch.Warnings) > 0 {
			logger.Warn().
				Str("file", src.Path).
				Int("cells", len(batch.Warnings)).
				Msg("non-numeric durations replaced with 0")
		}
		batches = append(batches, batch)
	}

	ds := joiner.JoinAll(batches, roster)
	unmatched := joiner.Unmatched(ds)
	metrics.UnmatchedRecords.Set(float64(unmatched))
	if unmatched > 0 {
		logger.Warn().
			Int("records", unmatched).
			Str("unassigned_label", opts.UnassignedLabel).
			Msg("interactions without a roster match")
	}

	start := time.Now()
	aggOpts := aggregator.Options{
		Target:          opts.Target,
		UnassignedLabel: opts.UnassignedLabel,
		Countries:       opts.Countries,
	}
	report := &models.Report{
		RunID:       opts.RunID,
		Target:      opts.Target,
		MinAHT:      opts.MinAHT,
		MaxAHT:      opts.MaxAHT,
		Placeholder: opts.Placeholder,
		TeamLeaders: aggregator.TeamLeaders(ds, aggOpts),
		Agents:      aggregator.Agents(ds, roster.Entries(), aggOpts),
		Countries:   aggregator.Countries(ds, aggOpts),
		Roster:      rosterRaw,
		Unmatched:   unmatched,
	}
	metrics.AggregatorDurationSeconds.Observe(time.Since(start).Seconds())
	recordSummary(report)

	logger.Info().
		Int("records", len(ds.Records)).
		Int("team_leaders", len(report.TeamLeaders)).
		Int("agents", len(report.Agents)).
		Strs("countries", report.Countries).
		Msg("report computed")

	return report, nil
}

// load reads and normalizes one upload, returning the untouched table as
// well as the normalized copy.
func load(path string, mapping normalizer.Mapping, logger zerolog.Logger) (models.Table, models.Table, error) {
	start := time.Now()
	defer func() {
		metrics.ParserDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	raw, err := parser.ReadFile(path)
	if err != nil {
		return models.Table{}, models.Table{}, err
	}
	for _, note := range normalizer.Resolve(raw.Headers, mapping).Notes {
		logger.Info().Str("file", path).Msg(note)
	}
	table, err := normalizer.Normalize(raw, mapping)
	if err != nil {
		return models.Table{}, models.Table{}, err
	}
	logger.Debug().
		Str("file", path).
		Int("rows", len(raw.Rows)).
		Strs("headers", table.Headers).
		Msg("file normalized")
	return raw, table, nil
}

func withPositions(m normalizer.Mapping, positions map[models.Field]string) normalizer.Mapping {
	for field, letter := range positions {
		m = m.WithPosition(field, letter)
	}
	return m
}

// joinKeyError reports a missing agent identifier in an interaction file as
// a join failure rather than a plain schema error.
func joinKeyError(err error) error {
	var missing *reporterrors.MissingColumnError
	if !errors.As(err, &missing) {
		return err
	}
	for _, f := range missing.Missing {
		if f == string(models.FieldAgentID) {
			return &reporterrors.JoinKeyError{
				File:    missing.File,
				Key:     string(models.FieldAgentID),
				Missing: missing.Missing,
				Found:   missing.Found,
			}
		}
	}
	return err
}

func fail(err error) error {
	metrics.ParserErrorsTotal.WithLabelValues(ErrorType(err)).Inc()
	return err
}

// ErrorType is a short label for an input error.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, reporterrors.ErrJoinKey):
		return "join_key"
	case errors.Is(err, reporterrors.ErrMissingColumn):
		return "missing_column"
	case errors.Is(err, reporterrors.ErrUnreadableFile):
		return "unreadable_file"
	default:
		return "other"
	}
}

func recordSummary(r *models.Report) {
	metrics.TeamLeadersReported.Set(float64(len(r.TeamLeaders)))
	metrics.AgentsReported.Set(float64(len(r.Agents)))
	for _, s := range r.TeamLeaders {
		metrics.TargetStatus.WithLabelValues("team_leader", statusLabel(s.Status)).Inc()
	}
	for _, a := range r.Agents {
		metrics.TargetStatus.WithLabelValues("agent", statusLabel(a.Status)).Inc()
	}
}

func statusLabel(status string) string {
	if status == models.StatusNotAchieved {
		return "not_achieved"
	}
	return "achieved"
}
