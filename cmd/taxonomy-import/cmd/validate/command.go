// Package validate provides the validate command, which parses a table
// without touching the service.
package validate

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/taxonomy-import/cmd/application"
	"github.com/agentstation/taxonomy-import/internal/cmd/cmdutil"
	"github.com/agentstation/taxonomy-import/internal/cmd/output"
	"github.com/agentstation/taxonomy-import/pkg/importer"
)

// NewCommand creates the validate command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		file    string
		subject *cmdutil.SubjectFlags
	)
	cmd := &cobra.Command{
		Use:     "validate",
		GroupID: "management",
		Short:   "Parse a taxonomy table and print its entities",
		Long: `Validate reads a table exactly as import does and prints the entities it
would reconcile, without contacting the service. It fails on the first
header or row error.`,
		Example: `  taxonomy-import validate -f medieuttrykk.tsv
  taxonomy-import validate -f table.tsv -o wide`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := cmdutil.OpenInput(cmd, file)
			if err != nil {
				return err
			}
			defer func() { _ = in.Close() }()

			ref := subject.Ref()
			if ref.ID == "" {
				ref.ID = "urn:subject:validate"
			}
			entities, err := importer.Validate(in, ref)
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			formatter := output.NewFormatter(format)
			switch format {
			case output.FormatJSON, output.FormatYAML:
				err = formatter.Format(cmd.OutOrStdout(), entities)
			default:
				err = formatter.Format(cmd.OutOrStdout(), output.EntitiesData(entities))
			}
			if err != nil {
				return err
			}
			output.NewPrinter(cmd.ErrOrStderr(), app.NoColor()).Success("%d entities parsed", len(entities))
			return nil
		},
	}

	cmdutil.AddFileFlag(cmd, &file)
	subject = cmdutil.AddSubjectFlags(cmd)

	return cmd
}
