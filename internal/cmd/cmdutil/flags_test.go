package cmdutil

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/taxonomy-import/cmd/application"
	"github.com/agentstation/taxonomy-import/pkg/errors"
)

func TestRemoteFlagsApply(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	flags := AddRemoteFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"-e", "https://api.example.com", "--client-id", "importer"}))

	base := application.Remote{Endpoint: "http://localhost:5000", ClientSecret: "s3cret", TokenURL: "https://auth.example.com"}
	got := flags.Apply(base)

	assert.Equal(t, application.Remote{
		Endpoint:     "https://api.example.com",
		ClientID:     "importer",
		ClientSecret: "s3cret",
		TokenURL:     "https://auth.example.com",
	}, got)
}

func TestSubjectFlagsRef(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	flags := AddSubjectFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"-i", " urn:subject:20 ", "-n", "Medieuttrykk"}))

	ref := flags.Ref()
	assert.Equal(t, "urn:subject:20", ref.ID)
	assert.Equal(t, "Medieuttrykk", ref.Name)
}

func TestOpenInput(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.SetIn(strings.NewReader("from stdin"))

	for _, path := range []string{"", "-"} {
		r, err := OpenInput(cmd, path)
		require.NoError(t, err)
		b, _ := io.ReadAll(r)
		_ = r.Close()
		if path == "" {
			assert.Equal(t, "from stdin", string(b))
		}
	}

	file := filepath.Join(t.TempDir(), "table.tsv")
	require.NoError(t, os.WriteFile(file, []byte("from file"), 0o600))
	r, err := OpenInput(cmd, file)
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	_ = r.Close()
	assert.Equal(t, "from file", string(b))

	_, err = OpenInput(cmd, filepath.Join(t.TempDir(), "missing.tsv"))
	var ioErr *errors.IOError
	assert.True(t, errors.As(err, &ioErr))
}
