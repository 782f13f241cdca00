package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateMatchesDefault(t *testing.T) {
	var cfg Config
	require.NoError(t, json.Unmarshal(stripLineComments([]byte(configTemplate)), &cfg))
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromWritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, configTemplate, string(data))
}

func TestLoadFromPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `// only the payroll range
{
  "layout": {
    "payroll_last_row": 400
  },
  "output": { "file_name": "July.xlsx" }
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Layout.PayrollLastRow)
	assert.Equal(t, 2, cfg.Layout.PayrollFirstRow)
	assert.Equal(t, "July.xlsx", cfg.Output.FileName)
	assert.Equal(t, "ΩΡΟΜΕΤΡΗΣΗ", cfg.Sheets.Payroll)
	assert.Equal(t, DefaultClientID, cfg.OneDrive.ClientID)
}

func TestLoadFromInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{ nope"), 0o600))

	cfg, err := LoadFrom(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ORO_PAYROLL_SHEET", "PAYROLL")
	t.Setenv("ORO_ROSTER_LAST_ROW", "90")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, "PAYROLL", cfg.Sheets.Payroll)
	assert.Equal(t, 90, cfg.Layout.RosterLastRow)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ORO_LOG_LEVEL":       "debug",
		"ORO_ONEDRIVE_FOLDER": "Payroll/2025",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, applyEnv(&cfg, lookup))
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "Payroll/2025", cfg.OneDrive.Folder)
	assert.Equal(t, "I8", cfg.Layout.AnchorCell)

	env["ORO_PAYROLL_FIRST_ROW"] = "two"
	assert.ErrorContains(t, applyEnv(&cfg, lookup), "ORO_PAYROLL_FIRST_ROW")
}
