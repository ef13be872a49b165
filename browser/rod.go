package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// DefaultRemoteURL is Chromium's default remote-debugging endpoint.
const DefaultRemoteURL = "http://localhost:9222"

// Config configures how a Session reaches a browser.
type Config struct {
	// RemoteURL is the remote-debugging endpoint of an already running
	// Chromium (http://host:port or a ws:// URL). Default: DefaultRemoteURL.
	RemoteURL string

	// Headless applies to Launch only.
	Headless bool

	// Bin is the Chromium executable Launch starts. Default: rod's managed
	// browser, downloaded on first use.
	Bin string

	// NavigateTimeout bounds navigation in Launch. Default: 30s.
	NavigateTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.RemoteURL == "" {
		c.RemoteURL = DefaultRemoteURL
	}
	if c.NavigateTimeout <= 0 {
		c.NavigateTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Session holds a browser connection and the page the scrape runs against.
type Session struct {
	Page Page

	browser  *rod.Browser
	lnch     *launcher.Launcher
	attached bool
	cancel   context.CancelFunc
}

// Probe reports the DevTools websocket URL behind remoteURL without
// connecting to it.
func Probe(remoteURL string) (string, error) {
	if remoteURL == "" {
		remoteURL = DefaultRemoteURL
	}
	wsURL, err := launcher.ResolveURL(remoteURL)
	if err != nil {
		return "", fmt.Errorf("%w at %s: %v", ErrConnect, remoteURL, err)
	}
	return wsURL, nil
}

// Attach connects to an already running Chromium and returns a session on its
// first open page. The browser is left running when the session is closed.
func Attach(ctx context.Context, cfg Config) (*Session, error) {
	cfg.defaults()
	log := cfg.Logger

	wsURL, err := launcher.ResolveURL(cfg.RemoteURL)
	if err != nil {
		return nil, fmt.Errorf("%w at %s: %v", ErrConnect, cfg.RemoteURL, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		cancel()
		return nil, fmt.Errorf("%w at %s: %v", ErrConnect, cfg.RemoteURL, err)
	}
	log.Info("browser: attached", "url", wsURL)

	pages, err := b.Pages()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("browser: list pages: %w", err)
	}
	page := pickPage(pages)
	if page == nil {
		cancel()
		return nil, ErrNoPage
	}

	return &Session{
		Page:     &RodPage{page: page},
		browser:  b,
		attached: true,
		cancel:   cancel,
	}, nil
}

// Launch starts a local Chromium, opens pageURL in a stealth tab and returns a
// session on it. Closing the session shuts the browser down.
func Launch(ctx context.Context, cfg Config, pageURL string) (*Session, error) {
	cfg.defaults()
	log := cfg.Logger

	l := launcher.New().Headless(cfg.Headless)
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}
	// Chromium refuses to start as root without it.
	if os.Geteuid() == 0 {
		l = l.NoSandbox(true)
	}
	l = l.Set("disable-blink-features", "AutomationControlled")

	wsURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: launch: %v", ErrConnect, err)
	}
	log.Info("browser: launched local chrome", "url", wsURL, "headless", cfg.Headless)

	ctx, cancel := context.WithCancel(ctx)
	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		cancel()
		l.Cleanup()
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	s := &Session{browser: b, lnch: l, cancel: cancel}

	page, err := stealth.Page(b)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	navCtx, navCancel := context.WithTimeout(ctx, cfg.NavigateTimeout)
	defer navCancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		s.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		log.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}

	s.Page = &RodPage{page: page}
	return s, nil
}

// Close releases the session. An attached browser is only disconnected; a
// launched one is killed.
func (s *Session) Close() error {
	if !s.attached && s.browser != nil {
		s.browser.Close()
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
	}
	return nil
}

// pickPage prefers the first tab showing a real document over blank and
// internal ones.
func pickPage(pages rod.Pages) *rod.Page {
	if len(pages) == 0 {
		return nil
	}
	for _, p := range pages {
		info, err := p.Info()
		if err != nil {
			continue
		}
		if info.Type == "page" && strings.HasPrefix(info.URL, "http") {
			return p
		}
	}
	return pages[0]
}

// RodPage adapts a rod page to Page.
type RodPage struct {
	page *rod.Page
}

func (p *RodPage) URL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("browser: page info: %w", err)
	}
	return info.URL, nil
}

func (p *RodPage) Eval(ctx context.Context, js string, args ...any) ([]byte, error) {
	res, err := p.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return nil, fmt.Errorf("browser: eval: %w", err)
	}
	return json.Marshal(res.Value)
}

func (p *RodPage) ScrollBy(ctx context.Context, dy int) error {
	_, err := p.page.Context(ctx).Eval(`(dy) => window.scrollBy(0, dy)`, dy)
	if err != nil {
		return fmt.Errorf("browser: scroll: %w", err)
	}
	return nil
}

func (p *RodPage) Query(ctx context.Context, selector string) ([]Element, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("browser: query %q: %w", selector, err)
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out, nil
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *rodElement) Visible(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

func (e *rodElement) Click(ctx context.Context, timeout time.Duration) error {
	el := e.el.Context(ctx).Timeout(timeout)
	defer el.CancelTimeout()
	return el.Click(proto.InputMouseButtonLeft, 1)
}
