package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"AHT_TARGET", "AHT_MIN", "AHT_MAX", "REPORT_OUTPUT", "REPORT_FORMAT",
	"UNASSIGNED_LABEL", "REPORT_COUNTRIES", "REPORT_PLACEHOLDER", "LOG_LEVEL",
	"METRICS_ADDR", "PUSH_URL",
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "default values",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 450.0, cfg.Target)
				assert.Zero(t, cfg.MinAHT)
				assert.Zero(t, cfg.MaxAHT)
				assert.Equal(t, "Final_Performance_Report.xlsx", cfg.Output)
				assert.Equal(t, "xlsx", cfg.Format)
				assert.Equal(t, "-", cfg.Placeholder)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Empty(t, cfg.UnassignedLabel)
				assert.Nil(t, cfg.Countries)
			},
		},
		{
			name: "custom values",
			env: map[string]string{
				"AHT_TARGET":         "300",
				"AHT_MIN":            "280",
				"AHT_MAX":            " 320 ",
				"REPORT_FORMAT":      "json",
				"UNASSIGNED_LABEL":   " Unassigned ",
				"REPORT_COUNTRIES":   "SA, KW,,AE",
				"REPORT_PLACEHOLDER": "n/a",
				"LOG_LEVEL":          "debug",
				"PUSH_URL":           "http://localhost:9091",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 300.0, cfg.Target)
				assert.Equal(t, 280.0, cfg.MinAHT)
				assert.Equal(t, 320.0, cfg.MaxAHT)
				assert.Equal(t, "json", cfg.Format)
				assert.Equal(t, "Unassigned", cfg.UnassignedLabel)
				assert.Equal(t, []string{"SA", "KW", "AE"}, cfg.Countries)
				assert.Equal(t, "n/a", cfg.Placeholder)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "http://localhost:9091", cfg.PushURL)
			},
		},
		{
			name:    "invalid AHT_TARGET",
			env:     map[string]string{"AHT_TARGET": "fast"},
			wantErr: true,
		},
		{
			name:    "invalid AHT_MAX",
			env:     map[string]string{"AHT_MAX": "1e"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range envKeys {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestBands(t *testing.T) {
	tests := map[string]struct {
		cfg  Config
		low  float64
		high float64
	}{
		"Defaults": {cfg: Config{Target: 450}, low: 450, high: 495},
		"MinOnly":  {cfg: Config{Target: 450, MinAHT: 400}, low: 400, high: 440},
		"BothSet":  {cfg: Config{Target: 450, MinAHT: 400, MaxAHT: 500}, low: 400, high: 500},
		"MaxOnly":  {cfg: Config{Target: 450, MaxAHT: 600}, low: 450, high: 600},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			low, high := tt.cfg.Bands()
			assert.InDelta(t, tt.low, low, 1e-9)
			assert.InDelta(t, tt.high, high, 1e-9)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		cfg     Config
		wantErr bool
	}{
		"Valid":               {cfg: Config{Target: 450, Format: "xlsx"}},
		"ValidBands":          {cfg: Config{Target: 450, MinAHT: 400, MaxAHT: 500, Format: "csv"}},
		"ZeroTarget":          {cfg: Config{Target: 0, Format: "xlsx"}, wantErr: true},
		"NegativeMin":         {cfg: Config{Target: 450, MinAHT: -1, Format: "xlsx"}, wantErr: true},
		"MinAboveMax":         {cfg: Config{Target: 450, MinAHT: 500, MaxAHT: 400, Format: "xlsx"}, wantErr: true},
		"UnknownFormat":       {cfg: Config{Target: 450, Format: "pdf"}, wantErr: true},
		"MaxBelowTarget":      {cfg: Config{Target: 450, MaxAHT: 400, Format: "xlsx"}, wantErr: true},
		"MinAboveDefaultHigh": {cfg: Config{Target: 100, MinAHT: 120, Format: "xlsx"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
