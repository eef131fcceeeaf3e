// Package main is the entry point for the muchos CLI.
//
// muchos deploys Accumulo, Hadoop, Zookeeper and, optionally, Fluo, Spark
// and metrics services onto machines that were provisioned beforehand. It
// renders an Ansible inventory from the cluster configuration, pushes it
// to a proxy node and runs the playbooks there.
//
// For detailed usage information, run:
//
//	muchos --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/muchos/cmd/muchos/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
