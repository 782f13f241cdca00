package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the root configuration for oro, stored in ~/.oro/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Sheets   SheetsConfig   `json:"sheets"`
	Layout   LayoutConfig   `json:"layout"`
	Output   OutputConfig   `json:"output"`
	OneDrive OneDriveConfig `json:"onedrive"`
	Log      LogConfig      `json:"log"`
}

// SheetsConfig names the worksheets read and written.
type SheetsConfig struct {
	Roster  string `json:"roster"`
	Hours   string `json:"hours"`
	Payroll string `json:"payroll"`
}

// LayoutConfig places the employee ids and the week anchor. Columns are
// spreadsheet letters.
type LayoutConfig struct {
	AnchorCell      string `json:"anchor_cell"`
	RosterIDColumn  string `json:"roster_id_column"`
	MarkerColumn    string `json:"marker_column"`
	RosterFirstRow  int    `json:"roster_first_row"`
	RosterLastRow   int    `json:"roster_last_row"`
	PayrollIDColumn string `json:"payroll_id_column"`
	PayrollFirstRow int    `json:"payroll_first_row"`
	PayrollLastRow  int    `json:"payroll_last_row"`
}

// OutputConfig controls where results are saved.
type OutputConfig struct {
	// FileName is created next to the payroll workbook.
	FileName string `json:"file_name"`
}

// OneDriveConfig holds Microsoft Graph settings for workbook transfer.
type OneDriveConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// Folder is prepended to relative remote paths.
	Folder string `json:"folder"`
}

// LogConfig sets the stderr log level: debug, info, warn or error.
type LogConfig struct {
	Level string `json:"level"`
}

const (
	// DefaultTenantID is the Microsoft "common" tenant.
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID. It supports
	// device code flow without a client secret or app registration.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultOutputFile is the name of the calculated payroll workbook.
	DefaultOutputFile = "Payroll_Calculated.xlsx"
)

// Default returns a Config pre-filled with the layout of the stock workbooks.
func Default() Config {
	return Config{
		Sheets: SheetsConfig{
			Roster:  "ΦΟΡΜΑ ΚΑΤΑΧΩΡΙΣΗΣ",
			Hours:   "ΥΠΕΡΕΡΓΑΣΙΕΣ-ΥΠΕΡΩΡΙΕΣ",
			Payroll: "ΩΡΟΜΕΤΡΗΣΗ",
		},
		Layout: LayoutConfig{
			AnchorCell:      "I8",
			RosterIDColumn:  "A",
			MarkerColumn:    "I",
			RosterFirstRow:  10,
			RosterLastRow:   150,
			PayrollIDColumn: "E",
			PayrollFirstRow: 2,
			PayrollLastRow:  200,
		},
		Output:   OutputConfig{FileName: DefaultOutputFile},
		OneDrive: OneDriveConfig{TenantID: DefaultTenantID, ClientID: DefaultClientID},
		Log:      LogConfig{Level: "info"},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing.
const configTemplate = `// oro configuration – ~/.oro/config.json
//
// All settings are optional; the defaults below match the stock weekly and
// payroll workbooks. Any value can also be set from the environment or a
// .env file in the working directory, e.g. ORO_PAYROLL_LAST_ROW=400.
{
  // ── Worksheet names ──────────────────────────────────────────────────────
  "sheets": {
    "roster": "ΦΟΡΜΑ ΚΑΤΑΧΩΡΙΣΗΣ",
    "hours": "ΥΠΕΡΕΡΓΑΣΙΕΣ-ΥΠΕΡΩΡΙΕΣ",
    "payroll": "ΩΡΟΜΕΤΡΗΣΗ"
  },

  // ── Where employees sit ──────────────────────────────────────────────────
  "layout": {
    // Cell holding the week's Sunday date in the roster.
    "anchor_cell": "I8",
    // Roster id column and the Sunday column checked for ΡΕΠΟ.
    "roster_id_column": "A",
    "marker_column": "I",
    "roster_first_row": 10,
    "roster_last_row": 150,
    // Payroll id column and the rows searched for ids.
    "payroll_id_column": "E",
    "payroll_first_row": 2,
    "payroll_last_row": 200
  },

  "output": {
    // Saved next to the payroll workbook. Override per run with: oro run --out <path>
    "file_name": "Payroll_Calculated.xlsx"
  },

  // ── OneDrive transfer (oro onedrive) ─────────────────────────────────────
  "onedrive": {
    // "common" works for personal accounts and most organisations.
    "tenant_id": "common",
    // The built-in value is the public Azure CLI app – no app registration needed.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",
    // Folder prepended to relative remote paths, e.g. "Payroll/2025".
    "folder": ""
  },

  // debug, info, warn or error. --verbose forces debug.
  "log": {
    "level": "info"
  }
}
`

// FilePath returns the path to ~/.oro/config.json.
func FilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".oro", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.oro/config.json and applies environment overrides.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return Default(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path, creating it with annotated defaults
// when missing, then applies ORO_* overrides from the environment and from
// .env in the working directory.
func LoadFrom(path string) (Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return cfg, err
	}
	// A missing .env is fine; variables already set win over the file.
	_ = godotenv.Load()
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	fillDefaults(&cfg)
	return cfg, nil
}

func readFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	fillDefaults(&cfg)
	return cfg, nil
}

// fillDefaults replaces zero-value fields with the built-in defaults so a
// partially filled file still yields a usable Config.
func fillDefaults(cfg *Config) {
	d := Default()
	str := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	num := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	str(&cfg.Sheets.Roster, d.Sheets.Roster)
	str(&cfg.Sheets.Hours, d.Sheets.Hours)
	str(&cfg.Sheets.Payroll, d.Sheets.Payroll)
	str(&cfg.Layout.AnchorCell, d.Layout.AnchorCell)
	str(&cfg.Layout.RosterIDColumn, d.Layout.RosterIDColumn)
	str(&cfg.Layout.MarkerColumn, d.Layout.MarkerColumn)
	num(&cfg.Layout.RosterFirstRow, d.Layout.RosterFirstRow)
	num(&cfg.Layout.RosterLastRow, d.Layout.RosterLastRow)
	str(&cfg.Layout.PayrollIDColumn, d.Layout.PayrollIDColumn)
	num(&cfg.Layout.PayrollFirstRow, d.Layout.PayrollFirstRow)
	num(&cfg.Layout.PayrollLastRow, d.Layout.PayrollLastRow)
	str(&cfg.Output.FileName, d.Output.FileName)
	str(&cfg.OneDrive.TenantID, d.OneDrive.TenantID)
	str(&cfg.OneDrive.ClientID, d.OneDrive.ClientID)
	str(&cfg.Log.Level, d.Log.Level)
}

// applyEnv overrides cfg from ORO_* variables.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ORO_ROSTER_SHEET":      &cfg.Sheets.Roster,
		"ORO_HOURS_SHEET":       &cfg.Sheets.Hours,
		"ORO_PAYROLL_SHEET":     &cfg.Sheets.Payroll,
		"ORO_ANCHOR_CELL":       &cfg.Layout.AnchorCell,
		"ORO_ROSTER_ID_COLUMN":  &cfg.Layout.RosterIDColumn,
		"ORO_MARKER_COLUMN":     &cfg.Layout.MarkerColumn,
		"ORO_PAYROLL_ID_COLUMN": &cfg.Layout.PayrollIDColumn,
		"ORO_OUTPUT_FILE":       &cfg.Output.FileName,
		"ORO_TENANT_ID":         &cfg.OneDrive.TenantID,
		"ORO_CLIENT_ID":         &cfg.OneDrive.ClientID,
		"ORO_ONEDRIVE_FOLDER":   &cfg.OneDrive.Folder,
		"ORO_LOG_LEVEL":         &cfg.Log.Level,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"ORO_ROSTER_FIRST_ROW":  &cfg.Layout.RosterFirstRow,
		"ORO_ROSTER_LAST_ROW":   &cfg.Layout.RosterLastRow,
		"ORO_PAYROLL_FIRST_ROW": &cfg.Layout.PayrollFirstRow,
		"ORO_PAYROLL_LAST_ROW":  &cfg.Layout.PayrollLastRow,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", key, v, err)
		}
		*dst = n
	}
	return nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
