package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/muchos/cmd/muchos/handlers"
)

// Doctor returns the command for checking the local setup.
//
// Optional flags:
//
//	--probe: Connect to the proxy once
func Doctor(opts *handlers.Options) *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check tools, configuration and proxy access",
		Long: `Doctor checks that ssh and rsync are installed, loads and
validates the cluster configuration and shows the proxy target and the
playbooks site.yml will import.

Examples:
  # Check the configuration of cluster "dev"
  muchos doctor -c dev

  # Also check that the proxy accepts connections
  muchos doctor -c dev --probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd.Context(), *opts, probe)
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "Connect to the proxy once")

	return cmd
}
