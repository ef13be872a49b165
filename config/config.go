// Package config loads feedscrape settings (defaults, ~/.feedscrape/config.yaml,
// environment) and stores the answers given to interactive prompts so they
// can be offered as defaults on the next run.
package config

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/feedscrape/report"
)

// Preference keys.
const (
	KeyFilter = "filter"
	KeyScroll = "scroll"
	KeySteps  = "steps"
	KeyDays   = "days"
	KeyFormat = "format"
)

var defaultPrefs = map[string]string{
	KeyFilter: "",
	KeyScroll: "n",
	KeySteps:  "10",
	KeyDays:   "0",
	KeyFormat: string(report.HTML),
}

// ErrUnknownKey is returned for a preference key that does not exist.
var ErrUnknownKey = errors.New("unknown preference key")

// Keys returns every preference key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaultPrefs))
	for k := range defaultPrefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Prefs are the remembered prompt answers.
type Prefs struct {
	Filter string `json:"filter"`
	Scroll bool   `json:"scroll"`
	Steps  int    `json:"steps"`
	Days   int    `json:"days"`
	Format string `json:"format"`
}

// ConfigStore keeps preferences in a SQLite key/value table.
type ConfigStore struct {
	db *sql.DB
}

// NewConfigStore creates a new config store with the given database path.
func NewConfigStore(dbPath string) (*ConfigStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &ConfigStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the config table if it doesn't exist.
func (c *ConfigStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS config (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := c.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (c *ConfigStore) Close() error {
	return c.db.Close()
}

// Get returns the stored value of key, or its default when unset.
func (c *ConfigStore) Get(key string) (string, error) {
	def, ok := defaultPrefs[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	var value string
	err := c.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query config: %w", err)
	}
	return value, nil
}

// Set validates and stores value under key.
func (c *ConfigStore) Set(key, value string) error {
	value, err := validate(key, value)
	if err != nil {
		return err
	}

	_, err = c.db.Exec("INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		return fmt.Errorf("failed to update config: %w", err)
	}
	return nil
}

// Reset forgets every stored preference.
func (c *ConfigStore) Reset() error {
	if _, err := c.db.Exec("DELETE FROM config"); err != nil {
		return fmt.Errorf("failed to reset config: %w", err)
	}
	return nil
}

// All returns every preference, stored or default.
func (c *ConfigStore) All() (map[string]string, error) {
	out := make(map[string]string, len(defaultPrefs))
	for _, k := range Keys() {
		v, err := c.Get(k)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// GetPrefs retrieves the remembered prompt answers.
func (c *ConfigStore) GetPrefs() (*Prefs, error) {
	all, err := c.All()
	if err != nil {
		return nil, err
	}

	// Stored values were validated by Set.
	steps, _ := strconv.Atoi(all[KeySteps])
	days, _ := strconv.Atoi(all[KeyDays])

	return &Prefs{
		Filter: all[KeyFilter],
		Scroll: all[KeyScroll] == "y",
		Steps:  steps,
		Days:   days,
		Format: all[KeyFormat],
	}, nil
}

// UpdatePrefs stores every field of p in one transaction.
func (c *ConfigStore) UpdatePrefs(p *Prefs) error {
	scroll := "n"
	if p.Scroll {
		scroll = "y"
	}
	values := map[string]string{
		KeyFilter: p.Filter,
		KeyScroll: scroll,
		KeySteps:  strconv.Itoa(p.Steps),
		KeyDays:   strconv.Itoa(p.Days),
		KeyFormat: p.Format,
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, k := range Keys() {
		v, err := validate(k, values[k])
		if err != nil {
			return err
		}
		if _, err := tx.Exec("INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit config: %w", err)
	}
	return nil
}

// validate checks value for key and returns its canonical form.
func validate(key, value string) (string, error) {
	if _, ok := defaultPrefs[key]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	value = strings.TrimSpace(value)
	switch key {
	case KeyScroll:
		switch strings.ToLower(value) {
		case "y", "yes", "true":
			return "y", nil
		case "", "n", "no", "false":
			return "n", nil
		}
		return "", fmt.Errorf("invalid %s value %q (want y or n)", key, value)
	case KeySteps, KeyDays:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return "", fmt.Errorf("invalid %s value %q (want a non-negative integer)", key, value)
		}
		return strconv.Itoa(n), nil
	case KeyFormat:
		f, err := report.ParseFormat(value)
		if err != nil {
			return "", err
		}
		return string(f), nil
	}
	return value, nil
}
