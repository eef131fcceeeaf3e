package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/imamik/muchos/cmd/muchos/handlers"
	"github.com/imamik/muchos/internal/cluster"
)

type actionHelp struct {
	short string
	long  string
}

var actionDocs = map[cluster.Action]actionHelp{
	cluster.ActionLaunch: {
		short: "Launch cluster machines (not supported for existing clusters)",
	},
	cluster.ActionStatus: {
		short: "Show machine status (not supported for existing clusters)",
	},
	cluster.ActionSync: {
		short: "Render the Ansible inventory and push it to the proxy",
		long: `Sync writes ansible/site.yml, ansible/conf/hosts,
ansible/group_vars/all and ansible/conf/keys, copies the ansible
directory to the cluster base directory on the proxy and installs
Ansible there.`,
	},
	cluster.ActionSetup: {
		short: "Sync, upload tarballs and run the site playbook",
		long: `Setup runs sync, uploads the Accumulo tarball and, when their
services are placed, the Fluo and Fluo YARN tarballs from conf/upload
to the proxy, then runs site.yml.

Tarballs missing from conf/upload are downloaded from the bucket of
the upload section when one is configured.`,
	},
	cluster.ActionSSH: {
		short: "Open a shell on the proxy",
		long: `SSH waits until the proxy accepts connections and opens an
interactive shell with agent forwarding. When general.proxy_socks_port
is set, a SOCKS proxy is opened on that local port (shell transport
only).`,
	},
	cluster.ActionWipe: {
		short: "Kill Muchos processes and delete Muchos data on all nodes",
		long: `Wipe runs wipe.yml. The cluster must have been synced.

WARNING: This operation is irreversible. All data stored by the
cluster services is deleted.`,
	},
	cluster.ActionKill: {
		short: "Kill every process started by Muchos",
	},
	cluster.ActionCancelShutdown: {
		short: "Cancel a scheduled shutdown on all nodes",
	},
	cluster.ActionTerminate: {
		short: "Terminate cluster machines (not supported for existing clusters)",
	},
}

// Action returns the command performing action on the cluster selected
// by the global flags.
func Action(action cluster.Action, opts *handlers.Options) *cobra.Command {
	var yes bool
	doc := actionDocs[action]

	name := action.String()
	cmd := &cobra.Command{
		Use:   strings.ReplaceAll(name, "_", "-"),
		Short: doc.short,
		Long:  doc.long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAction(cmd.Context(), action, *opts, yes)
		},
	}

	if cmd.Use != name {
		cmd.Aliases = []string{name}
	}
	if action == cluster.ActionWipe {
		cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	}

	return cmd
}
