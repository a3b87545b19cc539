// Package types provides the resource-types command.
package types

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/taxonomy-import/cmd/application"
	"github.com/agentstation/taxonomy-import/internal/cmd/output"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy/resourcetypes"
)

// NewCommand creates the resource-types command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "resource-types",
		GroupID: "management",
		Aliases: []string{"types"},
		Short:   "Print the built-in resource type taxonomy",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			types := resourcetypes.Default().All()

			format := output.DetectFormat(app.OutputFormat())
			formatter := output.NewFormatter(format)
			switch format {
			case output.FormatJSON, output.FormatYAML:
				return formatter.Format(cmd.OutOrStdout(), types)
			default:
				return formatter.Format(cmd.OutOrStdout(), output.ResourceTypesData(types))
			}
		},
	}
}
