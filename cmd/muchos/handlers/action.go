package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/muchos/internal/cluster"
	"github.com/imamik/muchos/internal/config"
	"github.com/imamik/muchos/internal/metrics"
	"github.com/imamik/muchos/internal/platform/s3"
	"github.com/imamik/muchos/internal/platform/ssh"
	"github.com/imamik/muchos/internal/ui"
	"github.com/imamik/muchos/internal/util/prerequisites"
)

// Factory function variables - can be replaced in tests.
var (
	// loadConfig reads and validates the cluster description.
	loadConfig = config.Load

	// newTransport connects the proxy described by cfg.
	newTransport = defaultTransport

	// newTarballSource opens the bucket of the upload section.
	newTarballSource = func(ctx context.Context, upload config.UploadConfig) (cluster.TarballSource, error) {
		client, err := s3.NewClient(ctx, upload)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	// checkTools verifies the binaries of the shell transport.
	checkTools = prerequisites.CheckTransport

	// isInteractive reports whether confirmations can be asked.
	isInteractive = func() bool {
		return ui.IsInteractive(os.Stdin)
	}

	// confirm asks the user a yes/no question.
	confirm = ui.Confirm

	// readFile reads the identity file of the native transport.
	readFile = os.ReadFile
)

// Run performs action on the cluster selected by opts.
//
// Wipe asks for confirmation first when stdin is a terminal, unless yes is
// set.
func Run(ctx context.Context, action cluster.Action, opts Options, yes bool) error {
	if err := opts.validate(); err != nil {
		return err
	}
	log := newLogger(opts.Verbosity).WithValues("action", action.String())

	cfg, err := loadConfig(opts.Home, opts.Cluster)
	if err != nil {
		return err
	}

	if action == cluster.ActionWipe && !yes && isInteractive() {
		ok, err := confirm(ctx,
			fmt.Sprintf("Wipe cluster %s?", cfg.ClusterName),
			"Kills every process started by Muchos and deletes Muchos data on all nodes.")
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			log.Info("Wipe cancelled")
			return nil
		}
	}

	transportOpts := opts
	switch {
	case !action.Supported():
		// Unsupported actions never reach the proxy.
		transportOpts.Transport = TransportShell
	case opts.Transport != TransportNative:
		if results := checkTools(); results.HasErrors() {
			return results.Error()
		}
	}

	clusterOpts := cluster.Options{Logger: log}
	if clusterOpts.Transport, err = newTransport(cfg, transportOpts); err != nil {
		return err
	}

	if action == cluster.ActionSetup && cfg.Upload.Enabled() {
		if clusterOpts.Tarballs, err = newTarballSource(ctx, cfg.Upload); err != nil {
			return fmt.Errorf("failed to open tarball bucket: %w", err)
		}
	}

	if opts.MetricsTextfile != "" {
		clusterOpts.Metrics = metrics.NewRecorder()
	}

	existing, err := cluster.NewExisting(cfg, clusterOpts)
	if err != nil {
		return err
	}

	runErr := existing.Perform(ctx, action)

	if err := clusterOpts.Metrics.WriteTextfile(opts.MetricsTextfile); err != nil {
		if runErr == nil {
			return err
		}
		log.Error(err, "Failed to write metrics")
	}
	return runErr
}

func defaultTransport(cfg *config.Config, opts Options) (ssh.Transport, error) {
	ip, err := cfg.ProxyIP()
	if err != nil {
		return nil, err
	}
	target := ssh.Target{User: cfg.ClusterUser(), Host: ip}

	switch opts.Transport {
	case TransportNative:
		var key []byte
		if opts.IdentityFile != "" {
			if key, err = readFile(opts.IdentityFile); err != nil {
				return nil, fmt.Errorf("failed to read identity file: %w", err)
			}
		}
		return ssh.NewNativeTransport(&ssh.NativeConfig{Target: target, PrivateKey: key})
	default:
		return ssh.NewShellTransport(ssh.ShellConfig{Target: target, IdentityFile: opts.IdentityFile})
	}
}
