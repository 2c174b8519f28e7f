package internal

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
)

// App holds the application state and dependencies
type App struct {
	searcher Searcher
	archive  *Archive
	notifier *Notifier
	guard    *Guard
	settings *SettingsStore
	config   *Config

	searcherOnce sync.Once
	searcherErr  error
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) *App {
	app := &App{
		archive:  NewArchive(config.ArchiveDir),
		notifier: NewNotifier(config.DiscordWebhookURL),
		guard:    NewGuard(config.AppToken),
		settings: NewSettingsStore(filepath.Join(config.DataDir, "settings.json")),
		config:   config,
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithSearcher sets a custom search gateway
func WithSearcher(s Searcher) AppOption {
	return func(a *App) {
		a.searcher = s
	}
}

// WithNotifier sets a custom webhook notifier
func WithNotifier(n *Notifier) AppOption {
	return func(a *App) {
		a.notifier = n
	}
}

// WithSettingsStore sets a custom settings store
func WithSettingsStore(s *SettingsStore) AppOption {
	return func(a *App) {
		a.settings = s
	}
}

// ensureSearcher initializes the YouTube gateway on first use, so the
// server can start without an API key and fail per-request instead.
func (app *App) ensureSearcher(ctx context.Context) error {
	app.searcherOnce.Do(func() {
		if app.searcher != nil {
			return
		}
		if app.config.YouTubeAPIKey == "" {
			app.searcherErr = fmt.Errorf(
				"missing YOUTUBE_API_KEY environment variable; create an API key in Google Cloud Console and export it")
			return
		}
		app.searcher, app.searcherErr = NewYouTube(context.WithoutCancel(ctx), app.config.YouTubeAPIKey)
	})
	return app.searcherErr
}

// Search runs a filtered YouTube search and returns the ranked results
// plus the estimated quota cost.
func (app *App) Search(ctx context.Context, req SearchRequest) ([]VideoResult, int, error) {
	if err := app.ensureSearcher(ctx); err != nil {
		return nil, 0, err
	}
	return app.searcher.Search(ctx, req)
}

// SaveSnapshot archives snap in the requested format and returns the
// created filename.
func (app *App) SaveSnapshot(snap Snapshot, format string) (string, error) {
	return app.archive.Save(snap, format)
}

// NotifySnapshot posts a snapshot summary to the configured webhook.
func (app *App) NotifySnapshot(ctx context.Context, snap Snapshot) error {
	return app.notifier.Notify(ctx, snap)
}

// ListSnapshots enumerates the archived snapshot files, newest first.
func (app *App) ListSnapshots() ([]ArchiveEntry, error) {
	return app.archive.List()
}

// ClearArchive deletes archived snapshots and reports how many were removed.
func (app *App) ClearArchive() (int, error) {
	return app.archive.Clear()
}

// ReadSnapshot returns the raw bytes of one archived snapshot.
func (app *App) ReadSnapshot(name string) ([]byte, error) {
	return app.archive.Read(name)
}

// Guard returns the access guard for protected operations.
func (app *App) Guard() *Guard {
	return app.guard
}

// LoadSettings returns the saved form preferences, with defaults when
// nothing usable was saved. Parse errors are reported but non-fatal.
func (app *App) LoadSettings() (Settings, error) {
	return app.settings.Load()
}

// SaveSettings persists the form preferences.
func (app *App) SaveSettings(settings Settings) error {
	return app.settings.Save(settings)
}

// Config returns the process configuration.
func (app *App) Config() *Config {
	return app.config
}
