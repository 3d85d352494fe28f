package main

import (
	"aht-report/config"
	"aht-report/formatter"
	"aht-report/metrics"
	"aht-report/models"
	"aht-report/pipeline"
	"bytes"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// sourceList collects repeated -interactions flags ("path" or "path:Language").
type sourceList []pipeline.Source

func (s *sourceList) String() string {
	parts := make([]string, len(*s))
	for i, src := range *s {
		parts[i] = src.Path
	}
	return strings.Join(parts, ",")
}

func (s *sourceList) Set(value string) error {
	path, lang := value, ""
	if i := strings.LastIndex(value, ":"); i > 0 && !strings.ContainsAny(value[i+1:], `/\.`) {
		path, lang = value[:i], value[i+1:]
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty interaction path")
	}
	*s = append(*s, pipeline.Source{Path: path, Language: strings.TrimSpace(lang)})
	return nil
}

// columnMap collects repeated field=LETTER flags.
type columnMap map[models.Field]string

func (c columnMap) String() string {
	parts := make([]string, 0, len(c))
	for f, l := range c {
		parts = append(parts, string(f)+"="+l)
	}
	return strings.Join(parts, ",")
}

func (c columnMap) Set(value string) error {
	field, letter, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(field) == "" || strings.TrimSpace(letter) == "" {
		return fmt.Errorf("expected field=LETTER, got %q", value)
	}
	c[models.Field(strings.TrimSpace(field))] = strings.ToUpper(strings.TrimSpace(letter))
	return nil
}

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Define flags
	var sources sourceList
	interactionCols := columnMap{}
	rosterCols := columnMap{}
	flag.Var(&sources, "interactions", "Interaction file (.xlsx or .csv), optionally path:Language; repeatable (required)")
	hc := flag.String("hc", "", "HC roster file (.xlsx or .csv) (required)")
	flag.Float64Var(&cfg.Target, "target", cfg.Target, "Target AHT in seconds")
	flag.Float64Var(&cfg.MinAHT, "min", cfg.MinAHT, "AHT at or below this is green (default: target)")
	flag.Float64Var(&cfg.MaxAHT, "max", cfg.MaxAHT, "AHT above this is red (default: min + 10%)")
	flag.StringVar(&cfg.Output, "output", cfg.Output, "Output spreadsheet path (xlsx format)")
	flag.StringVar(&cfg.Format, "format", cfg.Format, "Output format: xlsx|text|json|csv")
	flag.StringVar(&cfg.UnassignedLabel, "unassigned", cfg.UnassignedLabel, "Group interactions without a team leader under this name (default: leave them out)")
	countries := flag.String("countries", strings.Join(cfg.Countries, ","), "Comma-separated country codes always reported as columns")
	flag.Var(interactionCols, "column", "Positional fallback for an interaction field, e.g. agent_id=AD; repeatable")
	flag.Var(rosterCols, "hc-column", "Positional fallback for a roster field, e.g. team_leader=C; repeatable")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Address to expose Prometheus metrics (e.g., :9090)")
	flag.StringVar(&cfg.PushURL, "push-url", cfg.PushURL, "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	wait := flag.Bool("wait", false, "Keep process running after completion to allow for metric scraping")

	// Parse command-line flags
	flag.Parse()
	cfg.Countries = config.SplitList(*countries)

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Start metrics server if address provided
	if cfg.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server listening on /metrics")
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				log.Error().Err(err).Msg("metrics server error")
			}
		}()
	}

	// Validate required inputs
	if len(sources) == 0 || *hc == "" {
		fmt.Println("Error: -interactions and -hc flags are required")
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	low, high := cfg.Bands()
	report, err := pipeline.Run(
		pipeline.Inputs{Interactions: sources, Roster: *hc},
		pipeline.Options{
			RunID:              runID,
			Target:             cfg.Target,
			MinAHT:             low,
			MaxAHT:             high,
			UnassignedLabel:    cfg.UnassignedLabel,
			Countries:          cfg.Countries,
			Placeholder:        cfg.Placeholder,
			InteractionColumns: interactionCols,
			RosterColumns:      rosterCols,
		},
		log.Logger,
	)
	if err != nil {
		log.Error().Err(err).Str("error_type", pipeline.ErrorType(err)).Msg("report failed")
		fmt.Fprintln(os.Stderr, pipeline.Describe(err))
		pushMetrics(cfg.PushURL, runID)
		os.Exit(1)
	}

	wb := formatter.Layout(report, formatter.DefaultStyles(low, high))

	// Output based on format
	switch cfg.Format {
	case "json":
		fmt.Print(formatter.FormatJSON(wb))
	case "csv":
		fmt.Print(formatter.FormatCSV(wb))
	case "text":
		fmt.Print(formatter.FormatText(wb))
	default: // "xlsx"
		var buf bytes.Buffer
		if err := formatter.WriteXLSX(&buf, wb); err != nil {
			log.Fatal().Err(err).Msg("failed to render spreadsheet")
		}
		if err := os.WriteFile(cfg.Output, buf.Bytes(), 0644); err != nil {
			log.Fatal().Err(err).Str("output", cfg.Output).Msg("failed to write report")
		}
		log.Info().Str("output", cfg.Output).Str("run_id", runID).Msg("report written")
	}

	// Handle metrics pushing or waiting
	pushMetrics(cfg.PushURL, runID)

	if *wait && cfg.MetricsAddr != "" {
		log.Info().Msg("process kept alive for metric scraping, press Ctrl+C to exit")
		// Wait for interrupt signal
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		log.Info().Msg("exiting")
	} else if cfg.MetricsAddr != "" && cfg.PushURL == "" {
		// Small delay to allow final scrape if not waiting explicitly
		time.Sleep(100 * time.Millisecond)
	}
}

func pushMetrics(url, runID string) {
	if url == "" {
		return
	}
	jobName := "aht_report"
	if err := push.New(url, jobName).Grouping("run_id", runID).Gatherer(metrics.Registry).Push(); err != nil {
		log.Error().Err(err).Msg("error pushing to Pushgateway")
		return
	}
	log.Info().Msg("metrics successfully pushed to Pushgateway")
}
