package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pevans/feedscrape/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*config.ConfigStore, string) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "prefs.db")
	store, err := config.NewConfigStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, dsn
}

// TestRunConfig_SetShowReset verifies a stored value shows up and reset
// brings back the default
func TestRunConfig_SetShowReset(t *testing.T) {
	store, dsn := newTestStore(t)
	settings := config.Defaults()
	settings.PrefsDSN = dsn

	var out bytes.Buffer
	require.NoError(t, runConfig(&out, store, settings, "set", []string{"scroll", "yes"}))
	assert.Equal(t, "Set scroll = \"y\"\n", out.String())

	out.Reset()
	require.NoError(t, runConfig(&out, store, settings, "show", nil))
	assert.Contains(t, out.String(), "Preferences")
	assert.Contains(t, out.String(), dsn)
	value, err := store.Get(config.KeyScroll)
	require.NoError(t, err)
	assert.Equal(t, "y", value)

	out.Reset()
	require.NoError(t, runConfig(&out, store, settings, "reset", nil))
	assert.Contains(t, out.String(), "reset to defaults")
	value, err = store.Get(config.KeyScroll)
	require.NoError(t, err)
	assert.Equal(t, "n", value)
}

// TestRunConfig_SetUnknownKey verifies the error names the valid keys
func TestRunConfig_SetUnknownKey(t *testing.T) {
	store, _ := newTestStore(t)

	err := runConfig(&bytes.Buffer{}, store, config.Defaults(), "set", []string{"colour", "red"})

	require.ErrorIs(t, err, config.ErrUnknownKey)
	assert.Contains(t, err.Error(), "days, filter, format, scroll, steps")
}

// TestRunConfig_SetInvalidValue verifies values are validated
func TestRunConfig_SetInvalidValue(t *testing.T) {
	store, _ := newTestStore(t)

	err := runConfig(&bytes.Buffer{}, store, config.Defaults(), "set", []string{"days", "-1"})
	assert.ErrorContains(t, err, "non-negative")

	err = runConfig(&bytes.Buffer{}, store, config.Defaults(), "set", []string{"days"})
	assert.ErrorContains(t, err, "usage")
}

// TestRunConfig_UnknownAction verifies unknown actions are rejected
func TestRunConfig_UnknownAction(t *testing.T) {
	store, _ := newTestStore(t)

	err := runConfig(&bytes.Buffer{}, store, config.Defaults(), "frobnicate", nil)

	assert.ErrorIs(t, err, errUnknownAction)
}

func devtoolsServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/version", r.URL.Path)
		w.Write([]byte(`{"webSocketDebuggerUrl": "ws://127.0.0.1:9222/devtools/browser/abc"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doctorSettings(t *testing.T, remoteURL string) config.Settings {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	s := config.Defaults()
	s.Browser.RemoteURL = remoteURL
	s.ReportsDir = t.TempDir()
	s.PrefsDSN = filepath.Join(t.TempDir(), "prefs.db")
	return s
}

// TestRunDoctor_Healthy verifies every check passes with a reachable browser
func TestRunDoctor_Healthy(t *testing.T) {
	s := doctorSettings(t, devtoolsServer(t).URL)
	store, err := config.NewConfigStore(s.PrefsDSN)
	require.NoError(t, err)
	store.Close()

	var out bytes.Buffer
	r := runDoctor(&out, s, true)

	assert.Equal(t, doctorResult{}, r)
	assert.Contains(t, out.String(), "Not present, using defaults")
	assert.Contains(t, out.String(), "✓ Database is accessible")
	assert.Contains(t, out.String(), "/devtools/browser/abc")
	assert.Contains(t, out.String(), "✓ All checks passed")
}

// TestRunDoctor_BrowserDownIsWarning verifies an unreachable browser only
// warns
func TestRunDoctor_BrowserDownIsWarning(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	s := doctorSettings(t, srv.URL)

	var out bytes.Buffer
	r := runDoctor(&out, s, false)

	assert.Equal(t, doctorResult{warnings: 1}, r)
	assert.Contains(t, out.String(), "Not created yet")
	assert.Contains(t, out.String(), "Chromium is not reachable")
}

// TestRunDoctor_Problems verifies a broken config file and a reports path
// that is a file are errors
func TestRunDoctor_Problems(t *testing.T) {
	s := doctorSettings(t, devtoolsServer(t).URL)
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".feedscrape"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".feedscrape", "config.yaml"), []byte("browser: ["), 0o600))
	s.ReportsDir = filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, os.WriteFile(s.ReportsDir, []byte("x"), 0o600))

	var out bytes.Buffer
	r := runDoctor(&out, s, false)

	assert.Equal(t, 2, r.errors)
	assert.Contains(t, out.String(), "not a directory")
	assert.Contains(t, out.String(), "✗ Problems found")
}
