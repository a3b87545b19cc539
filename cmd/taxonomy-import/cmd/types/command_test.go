package types

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mockapp "github.com/agentstation/taxonomy-import/internal/cmd/application"
)

func TestResourceTypes(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"table", []string{"Fagstoff", "Fagartikkel", "urn:resourcetype:subjectMaterial"}},
		{"json", []string{`"name": "Fagartikkel"`, `"parent": "Fagstoff"`}},
		{"yaml", []string{"name: Fagstoff", "id: urn:resourcetype:subjectMaterial"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			app := &mockapp.Mock{OutputFormatFunc: func() string { return tt.format }}

			var stdout bytes.Buffer
			cmd := NewCommand(app)
			cmd.SetOut(&stdout)
			cmd.SetArgs(nil)
			require.NoError(t, cmd.Execute())

			for _, want := range tt.want {
				assert.Contains(t, stdout.String(), want)
			}
		})
	}
}
