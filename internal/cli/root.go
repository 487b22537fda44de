package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/entrypoint"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version string
	Commit  string
}

// NewRootCommand builds the catalog command tree. Running the root
// command without a subcommand starts the HTTP server.
func NewRootCommand(info BuildInfo) *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Library catalog REST service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			entrypoint.Run(config.NewConfig(), info.Version)
			return nil
		},
	}

	root.AddCommand(
		newServeCommand(info),
		NewSeedCommand().Command(),
		newVersionCommand(info),
	)
	return root
}

// Execute runs the command tree against args.
func Execute(info BuildInfo, args []string, out io.Writer) error {
	root := NewRootCommand(info)
	root.SetArgs(args)
	root.SetOut(out)
	return root.Execute()
}

func newServeCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default if no command given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entrypoint.Run(config.NewConfig(), info.Version)
			return nil
		},
	}
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "catalog %s (%s)\n", info.Version, info.Commit)
		},
	}
}
