// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/imamik/muchos/cmd/muchos/handlers"
	"github.com/imamik/muchos/internal/cluster"
)

// HomeEnv overrides the default of --home.
const HomeEnv = "MUCHOS_HOME"

// Handler entry points, replaced in tests.
var (
	runAction = handlers.Run
	runDoctor = handlers.Doctor
)

// Root returns the root command for the muchos CLI.
//
// The global flags are bound to one handlers.Options shared by every
// subcommand.
func Root() *cobra.Command {
	opts := &handlers.Options{}

	cmd := &cobra.Command{
		Use:   "muchos",
		Short: "Deploy Accumulo, Hadoop and Fluo onto existing machines",
		Long: `Muchos renders an Ansible inventory from conf/muchos.yaml and
conf/hosts/<cluster>, pushes it to the proxy node and runs the
playbooks that install, maintain or wipe the cluster.

Only the existing cluster type is supported: the machines must be
provisioned beforehand.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.Home, "home", defaultHome(), "Deploy directory holding conf/ (env "+HomeEnv+")")
	flags.StringVarP(&opts.Cluster, "cluster", "c", "", "Cluster name, selects conf/hosts/<cluster>")
	flags.StringVar(&opts.Transport, "transport", handlers.TransportShell, "How to reach the proxy: shell or native")
	flags.StringVarP(&opts.IdentityFile, "identity-file", "i", "", "Private key for the proxy")
	flags.StringVar(&opts.MetricsTextfile, "metrics-textfile", "", "Write Prometheus metrics of the run to this file")
	flags.CountVarP(&opts.Verbosity, "verbose", "v", "Increase log verbosity (repeatable)")

	// Cluster actions
	for _, action := range cluster.Actions() {
		cmd.AddCommand(Action(action, opts))
	}

	// Utility commands
	cmd.AddCommand(Doctor(opts))
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

func defaultHome() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}
	return "."
}
