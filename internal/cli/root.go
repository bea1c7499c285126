// Package cli implements the tabler command.
package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for tabler.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabler",
		Short: "Render JSON and YAML documents as tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newFormatsCmd())

	return cmd
}

// Execute runs the root command with provided args and streams.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := NewRootCmd()
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}
