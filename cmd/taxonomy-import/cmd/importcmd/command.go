// Package importcmd provides the import command, which loads a TSV table
// into the taxonomy service below one subject.
package importcmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/taxonomy-import/cmd/application"
	"github.com/agentstation/taxonomy-import/internal/cmd/cmdutil"
	"github.com/agentstation/taxonomy-import/internal/cmd/output"
	"github.com/agentstation/taxonomy-import/internal/validation"
	"github.com/agentstation/taxonomy-import/pkg/importer"
)

type options struct {
	file        string
	deleteFirst bool
	mapURLs     bool
	dryRun      bool
	subject     *cmdutil.SubjectFlags
	remote      *cmdutil.RemoteFlags
}

// NewCommand creates the import command.
func NewCommand(app application.Application) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:     "import",
		GroupID: "core",
		Short:   "Import a taxonomy table below a subject",
		Long: `Import reads a tab-separated table of topics and resources and creates or
updates each row in the taxonomy service, in row order, below the given
subject. Running the same table twice leaves the service unchanged.

The run stops at the first row that cannot be imported.`,
		Example: `  taxonomy-import import -f medieuttrykk.tsv -i urn:subject:20 -n "Medieuttrykk"
  taxonomy-import import -i urn:subject:20 --delete-first --map-urls < table.tsv
  taxonomy-import import -f table.tsv -i urn:subject:20 --dry-run -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, opts)
		},
	}

	cmdutil.AddFileFlag(cmd, &opts.file)
	opts.subject = cmdutil.AddSubjectFlags(cmd)
	opts.remote = cmdutil.AddRemoteFlags(cmd)
	cmd.Flags().BoolVar(&opts.deleteFirst, "delete-first", false,
		"Delete the subject's existing primary subtree before importing")
	cmd.Flags().BoolVar(&opts.mapURLs, "map-urls", false,
		"Map each row's legacy URL to the imported node")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false,
		"Import into an in-memory store instead of the service")
	_ = cmd.MarkFlagRequired("subject-id")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, opts *options) error {
	subject := opts.subject.Ref()
	if err := validation.Var("subject_id", subject.ID, "required"); err != nil {
		return err
	}

	in, err := cmdutil.OpenInput(cmd, opts.file)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	store, err := app.Store(opts.remote.Apply(app.Remote()), opts.dryRun)
	if err != nil {
		return err
	}

	im, err := importer.New(store,
		importer.WithDeleteFirst(opts.deleteFirst),
		importer.WithURLMapping(opts.mapURLs),
		importer.WithLogger(app.Logger()),
	)
	if err != nil {
		return err
	}

	summary, runErr := im.Run(cmd.Context(), in, subject)
	if summary != nil {
		summary.DryRun = opts.dryRun
		if err := render(cmd.OutOrStdout(), app, summary); err != nil {
			return err
		}
	}
	output.NewPrinter(cmd.ErrOrStderr(), app.NoColor()).Summary(summary, runErr)
	return runErr
}

func render(w io.Writer, app application.Application, summary *importer.Summary) error {
	format := output.DetectFormat(app.OutputFormat())
	formatter := output.NewFormatter(format)
	switch format {
	case output.FormatJSON, output.FormatYAML:
		return formatter.Format(w, summary)
	default:
		return formatter.Format(w, output.SummaryData(summary))
	}
}
