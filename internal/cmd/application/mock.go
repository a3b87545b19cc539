package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/taxonomy-import/cmd/application"
	"github.com/agentstation/taxonomy-import/internal/memstore"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
)

// Mock provides a mock implementation of application.Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	store := memstore.New()
//	mock := &application.Mock{
//	    StoreFunc: func(application.Remote, bool) (taxonomy.Store, error) {
//	        return store, nil
//	    },
//	}
//	cmd := list.NewCommand(mock)
//	// ... test command
type Mock struct {
	RemoteFunc       func() application.Remote
	StoreFunc        func(remote application.Remote, dryRun bool) (taxonomy.Store, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	NoColorFunc      func() bool
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Remote returns the remote using the mock function or a local endpoint.
func (m *Mock) Remote() application.Remote {
	if m.RemoteFunc != nil {
		return m.RemoteFunc()
	}
	return application.Remote{Endpoint: "http://localhost:5000"}
}

// Store returns a store using the mock function or an empty in-memory store.
func (m *Mock) Store(remote application.Remote, dryRun bool) (taxonomy.Store, error) {
	if m.StoreFunc != nil {
		return m.StoreFunc(remote, dryRun)
	}
	return memstore.New(), nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// NoColor returns the mock function's value or true.
func (m *Mock) NoColor() bool {
	if m.NoColorFunc != nil {
		return m.NoColorFunc()
	}
	return true
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ application.Application = (*Mock)(nil)
