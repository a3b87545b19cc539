// Package deletecmd provides the delete command, which removes a subject's
// primary subtree.
package deletecmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/taxonomy-import/cmd/application"
	"github.com/agentstation/taxonomy-import/internal/cmd/cmdutil"
	"github.com/agentstation/taxonomy-import/internal/cmd/output"
	"github.com/agentstation/taxonomy-import/pkg/errors"
	"github.com/agentstation/taxonomy-import/pkg/walker"
)

// NewCommand creates the delete command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		subject *cmdutil.SubjectFlags
		remote  *cmdutil.RemoteFlags
		yes     bool
	)
	cmd := &cobra.Command{
		Use:     "delete",
		GroupID: "management",
		Short:   "Delete the primary subtree of a subject",
		Long: `Delete removes every topic and resource reachable from a subject through
primary connections, deepest first. The subject itself is kept. A node that
cannot be deleted is reported and the rest are still removed.`,
		Example: `  taxonomy-import delete -i urn:subject:20
  taxonomy-import delete -i urn:subject:20 --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			subjectID := subject.Ref().ID
			store, err := app.Store(remote.Apply(app.Remote()), false)
			if err != nil {
				return err
			}

			w := walker.New(store, walker.WithLogger(app.Logger()))
			children, err := w.ListPrimarySubtree(cmd.Context(), subjectID)
			if err != nil {
				return err
			}

			printer := output.NewPrinter(cmd.ErrOrStderr(), app.NoColor())
			if len(children) == 0 {
				printer.Success("Nothing to delete below %s", subjectID)
				return nil
			}
			if !yes && !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), len(children), subjectID) {
				printer.Warning("Delete cancelled")
				return nil
			}

			report := w.DeleteAll(cmd.Context(), children)
			if len(report.Failed) > 0 {
				for _, f := range report.Failed {
					printer.Failure("%s %s: %s", f.Child.Kind, f.Child.ID, f.Error)
				}
				return errors.NewResourceError("delete", "subtree", subjectID,
					fmt.Errorf("%d of %d nodes could not be deleted", len(report.Failed), len(children)))
			}
			printer.Success("Deleted %d nodes below %s", report.Deleted, subjectID)
			return nil
		},
	}

	subject = cmdutil.AddSubjectFlags(cmd)
	remote = cmdutil.AddRemoteFlags(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	_ = cmd.MarkFlagRequired("subject-id")

	return cmd
}

// confirm asks the user to approve deleting n nodes. Only y or yes approves.
func confirm(in io.Reader, out io.Writer, n int, subjectID string) bool {
	_, _ = fmt.Fprintf(out, "Delete %d nodes below %s? [y/N]: ", n, subjectID)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
