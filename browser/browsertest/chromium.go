package browsertest

import (
	"context"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/pevans/feedscrape/browser"
)

// Chromium launches a headless local Chromium on pageURL and returns its page.
// The test is skipped in -short mode or when no Chromium is installed; the
// browser is shut down when the test ends.
func Chromium(t *testing.T, pageURL string) browser.Page {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no local Chromium found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)

	session, err := browser.Launch(ctx, browser.Config{Bin: bin, Headless: true}, pageURL)
	if err != nil {
		t.Fatalf("launch chromium: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session.Page
}
