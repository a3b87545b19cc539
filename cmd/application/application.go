// Package application provides the application interface for taxonomy-import
// commands.
//
// The Application interface defines the contract between the application
// layer and command implementations, enabling dependency injection and
// testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            store, err := app.Store(app.Remote(), false)
//	            if err != nil {
//	                return err
//	            }
//	            // ... use store
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    StoreFunc: func(application.Remote, bool) (taxonomy.Store, error) {
//	        return memstore.New(), nil
//	    },
//	}
//	cmd := list.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
)

// Remote describes how to reach and authenticate against the taxonomy
// service.
type Remote struct {
	Endpoint     string `json:"endpoint" validate:"required,url"`
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"-"`
	TokenURL     string `json:"token_url,omitempty" validate:"omitempty,url"`
}

// Application provides the application interface that commands need.
// The App struct from cmd/taxonomy-import/app implements it.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Remote returns the configured service settings. Commands use it as
	// the default for their own flags.
	Remote() Remote

	// Store returns a store for remote. With dryRun set, an in-memory store
	// seeded with the built-in resource types is returned instead.
	Store(remote Remote, dryRun bool) (taxonomy.Store, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// NoColor reports whether colored output is disabled.
	NoColor() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
