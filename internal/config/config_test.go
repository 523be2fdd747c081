package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xlsx"
	cfg.Output.Categories = []string{"sms_alert", "atm_withdrawal"}
	cfg.Tariff.SMSAlert = cfg.Tariff.SMSAlert.Add(cfg.Tariff.SMSAlert)

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "xlsx", got.Output.Format)
	assert.Equal(t, []string{"sms_alert", "atm_withdrawal"}, got.Output.Categories)
	assert.Equal(t, "8.00", got.Tariff.SMSAlert.StringFixed(2))
	assert.Equal(t, "26.88", got.Tariff.Transfer.Current.Medium.StringFixed(2))
	assert.Equal(t, 2020, got.Tariff.Transfer.CutoverYear)
	assert.Equal(t, 3, got.Tariff.ATM.FreePerMonth)
	assert.Equal(t, cfg.Server, got.Server)
	assert.Equal(t, cfg.Logging, got.Logging)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "text", cfg.Output.Format)
	assert.Empty(t, cfg.Output.Categories)
	assert.False(t, cfg.Output.Parallel)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 32, cfg.Server.BodyLimitMB)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "50.00", cfg.Tariff.StampDuty.Charge.StringFixed(2))
	require.NoError(t, cfg.Validate())
}

func TestLoadPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	yml := "tariff:\n  sms_alert: 5.50\n  atm:\n    free_per_month: 5\noutput:\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "5.50", cfg.Tariff.SMSAlert.StringFixed(2))
	assert.Equal(t, 5, cfg.Tariff.ATM.FreePerMonth)
	assert.Equal(t, "35.00", cfg.Tariff.ATM.Charge.StringFixed(2))
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		yml  string
		want string
	}{
		{"format", "output:\n  format: pdf\n", "output.format"},
		{"bounds", "tariff:\n  transfer:\n    lower_bound: 90000\n", "lower_bound"},
		{"atm", "tariff:\n  atm:\n    free_per_month: -1\n", "free_per_month"},
		{"syntax", "output: [", "parsing config"},
		{"decimal", "tariff:\n  sms_alert: lots\n", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.yml), 0o644))
			_, err := Load(path)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "cutover_year: 2020")
	assert.Contains(t, contents, "free_per_month: 3")
	assert.Contains(t, contents, "format: text")
	assert.Contains(t, contents, "body_limit_mb: 32")
}
