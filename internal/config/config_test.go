package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/cetacean-eda/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProfileYAML = `
focus_species:
  - name: tursiops truncatus (Montagu, 1821)
    color: "#264653"
top_n: 5
periods:
  - {start: 2000, end: 2011}
  - {start: 2012, end: 2024}
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/raw/occurrence.txt", cfg.InputPath)
	assert.Equal(t, '\t', cfg.InputDelimiter)
	assert.Equal(t, "data/processed/cetaceans_clean.csv", cfg.CleanedPath)
	assert.Equal(t, "outputs", cfg.OutputDir)
	assert.Empty(t, cfg.ProfilePath)
	assert.Equal(t, 2000, cfg.YearMin)
	assert.Equal(t, 2024, cfg.YearMax)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsFile)
	assert.Equal(t, domain.DefaultWindow, cfg.Window())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("INPUT_PATH", "in/occ.csv")
	t.Setenv("INPUT_DELIMITER", "comma")
	t.Setenv("CLEANED_PATH", "out/clean.csv")
	t.Setenv("OUTPUT_DIR", "out")
	t.Setenv("PROFILE_PATH", "profile.yaml")
	t.Setenv("YEAR_MIN", "2005")
	t.Setenv("YEAR_MAX", "2020")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("METRICS_FILE", "out/metrics.prom")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "in/occ.csv", cfg.InputPath)
	assert.Equal(t, ',', cfg.InputDelimiter)
	assert.Equal(t, "out/clean.csv", cfg.CleanedPath)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "profile.yaml", cfg.ProfilePath)
	assert.Equal(t, 2005, cfg.YearMin)
	assert.Equal(t, 2020, cfg.YearMax)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "out/metrics.prom", cfg.MetricsFile)
	assert.Equal(t, domain.Window{MinYear: 2005, MaxYear: 2020}, cfg.Window())
}

func TestLoad_SingleCharDelimiter(t *testing.T) {
	t.Setenv("INPUT_DELIMITER", ";")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ';', cfg.InputDelimiter)
}

func TestLoad_InvalidDelimiter(t *testing.T) {
	t.Setenv("INPUT_DELIMITER", "::")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INPUT_DELIMITER")
}

func TestLoad_QuoteDelimiter(t *testing.T) {
	t.Setenv("INPUT_DELIMITER", `"`)
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INPUT_DELIMITER")
}

func TestLoad_InvalidYear(t *testing.T) {
	t.Setenv("YEAR_MIN", "two thousand")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YEAR_MIN")
}

func TestLoad_IgnoresGeneratorSettings(t *testing.T) {
	t.Setenv("GENMOCK_ROWS", "0")
	t.Setenv("GENMOCK_SEED", "x")
	_, err := Load()
	require.NoError(t, err, "generator settings are not run settings")
}

func TestLoad_InvertedWindow(t *testing.T) {
	t.Setenv("YEAR_MIN", "2020")
	t.Setenv("YEAR_MAX", "2010")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YEAR_MAX")
}

func TestLoadProfile_Defaults(t *testing.T) {
	p, err := LoadProfile("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProfile(), p)
}

func TestLoadProfile_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testProfileYAML), 0o600))

	p, err := LoadProfile(path)
	require.NoError(t, err)

	require.Len(t, p.FocusSpecies, 1)
	assert.Equal(t, []string{"Tursiops truncatus"}, p.FocusNames())
	assert.Equal(t, "#264653", p.FocusSpecies[0].Color)
	assert.Equal(t, 5, p.TopN)
	assert.Equal(t, []domain.Period{{Start: 2000, End: 2011}, {Start: 2012, End: 2024}}, p.Periods)
	assert.Equal(t, 2010, p.DecadeSplit, "unset keys keep defaults")
	assert.Equal(t, 4, p.GeohashPrecision)
}

func TestLoadProfile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProfile(), p)
}

func TestLoadProfile_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top_nn: 3\n"), 0o600))

	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode profile")
}

func TestLoadProfile_InvalidColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "color.yaml")
	require.NoError(t, os.WriteFile(path, []byte("focus_species:\n  - name: Delphinus delphis\n    color: red\n"), 0o600))

	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid color")
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open profile")
}
