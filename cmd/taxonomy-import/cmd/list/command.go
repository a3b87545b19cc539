// Package list provides the list command, which prints a subject's primary
// subtree as the service reports it.
package list

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/taxonomy-import/cmd/application"
	"github.com/agentstation/taxonomy-import/internal/cmd/cmdutil"
	"github.com/agentstation/taxonomy-import/internal/cmd/output"
	"github.com/agentstation/taxonomy-import/pkg/walker"
)

// NewCommand creates the list command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		subject *cmdutil.SubjectFlags
		remote  *cmdutil.RemoteFlags
	)
	cmd := &cobra.Command{
		Use:     "list",
		GroupID: "core",
		Short:   "List the primary subtree of a subject",
		Long: `List walks the topics and resources reachable from a subject through
primary connections only, parents before children.`,
		Example: `  taxonomy-import list -i urn:subject:20
  taxonomy-import list -i urn:subject:20 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.Store(remote.Apply(app.Remote()), false)
			if err != nil {
				return err
			}

			w := walker.New(store, walker.WithLogger(app.Logger()))
			children, err := w.ListPrimarySubtree(cmd.Context(), subject.Ref().ID)
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			formatter := output.NewFormatter(format)
			switch format {
			case output.FormatJSON, output.FormatYAML:
				return formatter.Format(cmd.OutOrStdout(), children)
			default:
				return formatter.Format(cmd.OutOrStdout(), output.ChildrenData(children))
			}
		},
	}

	subject = cmdutil.AddSubjectFlags(cmd)
	remote = cmdutil.AddRemoteFlags(cmd)
	_ = cmd.MarkFlagRequired("subject-id")

	return cmd
}
