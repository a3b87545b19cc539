// Package app provides the application context and dependency management
// for the taxonomy-import CLI. It centralizes configuration, logging, tracing
// and store construction, and hands itself to every command as an
// application.Application.
package app

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/taxonomy-import/cmd/application"
	"github.com/agentstation/taxonomy-import/internal/memstore"
	"github.com/agentstation/taxonomy-import/internal/taxonomyapi"
	"github.com/agentstation/taxonomy-import/internal/transport"
	"github.com/agentstation/taxonomy-import/internal/validation"
	"github.com/agentstation/taxonomy-import/pkg/errors"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy/resourcetypes"
	"github.com/agentstation/taxonomy-import/pkg/tracing"
)

// App represents the taxonomy-import application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	mu              sync.Mutex
	shutdownTracing func(context.Context) error
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration from the environment that can be
// customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// NoColor reports whether colored output is disabled.
func (a *App) NoColor() bool {
	return a.config.NoColor
}

// Remote returns the configured taxonomy service.
func (a *App) Remote() application.Remote {
	return a.config.Remote()
}

// Store returns a store bound to remote. A dry run gets an in-memory store
// seeded with the built-in resource types, so nothing leaves the process.
func (a *App) Store(remote application.Remote, dryRun bool) (taxonomy.Store, error) {
	if dryRun {
		return memstore.New(memstore.WithResourceTypeCatalog(builtinCatalog())), nil
	}

	if err := validation.CheckRemote(remote); err != nil {
		return nil, err
	}
	auth := transport.NewAuthenticator(remote.TokenURL, remote.ClientID, remote.ClientSecret)
	client := transport.New(remote.Endpoint,
		transport.WithAuthenticator(auth),
		transport.WithTimeout(a.config.Timeout),
	)
	a.logger.Debug().
		Str("endpoint", client.BaseURL()).
		Str("auth", string(validation.RemoteAuthMode(remote))).
		Msg("Connecting to taxonomy service")
	return taxonomyapi.New(client), nil
}

func builtinCatalog() []taxonomy.NamedRef {
	table := resourcetypes.Default()
	types := table.All()
	refs := make([]taxonomy.NamedRef, 0, len(types))
	for _, t := range types {
		refs = append(refs, taxonomy.NamedRef{
			ID:       t.ID,
			Name:     t.Name,
			ParentID: table.ParentID(t.Name),
		})
	}
	return refs
}

// initTracing starts tracing once, when the config asks for it.
func (a *App) initTracing(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.shutdownTracing != nil {
		return nil
	}
	shutdown, err := tracing.Init(ctx, tracing.Config{
		Enabled: a.config.Trace || tracing.Enabled(),
		Version: a.version,
		Writer:  os.Stderr,
	})
	if err != nil {
		return errors.NewConfigError("tracing", "cannot start tracing", err)
	}
	a.shutdownTracing = shutdown
	return nil
}

// Shutdown flushes pending spans.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	shutdown := a.shutdownTracing
	a.shutdownTracing = nil
	a.mu.Unlock()

	if shutdown == nil {
		return nil
	}
	return shutdown(ctx)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)
