// Package constants provides shared constants used throughout the importer.
// This includes timeouts, well-known remote identifiers, and file permissions
// that should be consistent across packages.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the taxonomy service
	DefaultHTTPTimeout = 30 * time.Second

	// TokenTimeout bounds a single call to the token server
	TokenTimeout = 15 * time.Second

	// TokenRefreshMargin is how long before expiry an access token is replaced
	TokenRefreshMargin = 300 * time.Second

	// ShutdownTimeout is how long main waits for cleanup after a failed run
	ShutdownTimeout = 5 * time.Second
)

// File permission constants
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Remote service defaults
const (
	// DefaultEndpoint is the taxonomy service base URL used when none is configured
	DefaultEndpoint = "http://localhost:5000"

	// APIPrefix is the versioned path prefix of every taxonomy route
	APIPrefix = "/v1"

	// TokenAudience is the audience requested in client-credentials grants
	TokenAudience = "ndla_system"

	// IntegrationTestClientID disables authentication entirely
	IntegrationTestClientID = "ITEST"

	// BatchHeader is sent on every request; "0" asks the service to rebuild derived indexes
	BatchHeader = "batch"

	// TranslationLanguage is the language tag of the translation column
	TranslationLanguage = "nn"
)

// Well-known relevance ids
const (
	RelevanceCore          = "urn:relevance:core"
	RelevanceSupplementary = "urn:relevance:supplementary"
)

// Well-known relevance names as they appear in the input table
const (
	RelevanceNameCore          = "Kjernestoff"
	RelevanceNameSupplementary = "Tilleggsstoff"
)
