// Package cmdutil provides shared flags and configuration utilities for
// taxonomy-import commands.
package cmdutil

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/taxonomy-import/cmd/application"
	"github.com/agentstation/taxonomy-import/pkg/errors"
	"github.com/agentstation/taxonomy-import/pkg/importer"
)

// GlobalFlags holds common flags across all commands.
type GlobalFlags struct {
	Output  string
	Quiet   bool
	Verbose bool
	NoColor bool
}

// AddGlobalFlags adds common flags to the root command.
func AddGlobalFlags(cmd *cobra.Command) *GlobalFlags {
	flags := &GlobalFlags{}

	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", "",
		"Output format: table, json, yaml, wide")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false,
		"Minimal output")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false,
		"Verbose output")
	cmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false,
		"Disable colored output")

	return flags
}

// RemoteFlags overrides the configured taxonomy service for one command.
type RemoteFlags struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// AddRemoteFlags adds service connection flags to a command.
func AddRemoteFlags(cmd *cobra.Command) *RemoteFlags {
	flags := &RemoteFlags{}

	cmd.Flags().StringVarP(&flags.Endpoint, "endpoint", "e", "",
		"Taxonomy service base URL")
	cmd.Flags().StringVar(&flags.ClientID, "client-id", "",
		"OAuth client id (ITEST disables authentication)")
	cmd.Flags().StringVar(&flags.ClientSecret, "client-secret", "",
		"OAuth client secret")
	cmd.Flags().StringVar(&flags.TokenURL, "token-url", "",
		"OAuth token endpoint")

	return flags
}

// Apply returns base with every flag that was set replacing its field.
func (f *RemoteFlags) Apply(base application.Remote) application.Remote {
	if f.Endpoint != "" {
		base.Endpoint = f.Endpoint
	}
	if f.ClientID != "" {
		base.ClientID = f.ClientID
	}
	if f.ClientSecret != "" {
		base.ClientSecret = f.ClientSecret
	}
	if f.TokenURL != "" {
		base.TokenURL = f.TokenURL
	}
	return base
}

// SubjectFlags names the subject an import is placed under.
type SubjectFlags struct {
	ID   string
	Name string
}

// AddSubjectFlags adds --subject-id and --subject-name to a command.
func AddSubjectFlags(cmd *cobra.Command) *SubjectFlags {
	flags := &SubjectFlags{}

	cmd.Flags().StringVarP(&flags.ID, "subject-id", "i", "",
		"Subject id every top-level topic attaches to")
	cmd.Flags().StringVarP(&flags.Name, "subject-name", "n", "",
		"Subject name, used when the subject has to be created")

	return flags
}

// Ref returns the flags as an importer subject reference.
func (f *SubjectFlags) Ref() importer.SubjectRef {
	return importer.SubjectRef{
		ID:   strings.TrimSpace(f.ID),
		Name: strings.TrimSpace(f.Name),
	}
}

// AddFileFlag adds the --file/-f flag naming the input table.
func AddFileFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "file", "f", "",
		"Tab-separated input table (default stdin)")
}

// OpenInput opens the table named by path. An empty path or "-" reads the
// command's stdin.
func OpenInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	return f, nil
}
