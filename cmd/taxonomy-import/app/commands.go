package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/taxonomy-import/cmd/taxonomy-import/cmd/deletecmd"
	"github.com/agentstation/taxonomy-import/cmd/taxonomy-import/cmd/importcmd"
	"github.com/agentstation/taxonomy-import/cmd/taxonomy-import/cmd/list"
	"github.com/agentstation/taxonomy-import/cmd/taxonomy-import/cmd/types"
	"github.com/agentstation/taxonomy-import/cmd/taxonomy-import/cmd/validate"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(importcmd.NewCommand(a))
	rootCmd.AddCommand(list.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(deletecmd.NewCommand(a))
	rootCmd.AddCommand(validate.NewCommand(a))
	rootCmd.AddCommand(types.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("taxonomy-import %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
