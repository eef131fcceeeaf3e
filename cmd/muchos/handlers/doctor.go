package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/imamik/muchos/internal/cluster"
	"github.com/imamik/muchos/internal/config"
	"github.com/imamik/muchos/internal/inventory"
	"github.com/imamik/muchos/internal/platform/ssh"
	"github.com/imamik/muchos/internal/ui"
)

// Doctor checks the local tools and the configuration, and with probe set
// tries to reach the proxy once. It returns an error if any check failed.
func Doctor(ctx context.Context, opts Options, probe bool) error {
	if err := opts.validate(); err != nil {
		return err
	}

	report := ui.NewReport(stdout)
	report.Title("muchos doctor")

	report.Section("Local tools")
	tools := checkTools()
	for _, r := range tools.Results {
		switch {
		case r.Found:
			report.Row(true, r.Tool.Name, r.Path)
		case r.Tool.Required:
			report.Row(false, r.Tool.Name, "not found: "+r.Tool.Description)
		default:
			report.Warn(r.Tool.Name, "not found (optional)")
		}
	}

	report.Section("Configuration")
	cfg, err := loadConfig(opts.Home, opts.Cluster)
	if err != nil {
		report.Row(false, "config", err.Error())
		return fmt.Errorf("configuration check failed: %w", err)
	}
	report.Row(true, "config", filepath.Join(opts.Home, config.ConfigFile))

	var errs []error
	if t := cfg.ClusterType(); t == config.ClusterTypeExisting {
		report.Row(true, "cluster type", t)
	} else {
		report.Row(false, "cluster type", t+" (only existing is supported)")
		errs = append(errs, fmt.Errorf("cluster_type %q is not supported", t))
	}

	ip, ipErr := cfg.ProxyIP()
	if ipErr != nil {
		report.Row(false, "proxy", ipErr.Error())
		errs = append(errs, ipErr)
	} else {
		report.Row(true, "proxy", fmt.Sprintf("%s (%s)", cfg.ProxyHostname(), ssh.Target{User: cfg.ClusterUser(), Host: ip}))
	}
	report.Row(true, "nodes", fmt.Sprintf("%d", len(cfg.Nodes)))
	report.Row(true, "playbooks", strings.Join(inventory.Playbooks(cfg), ", "))

	if _, err := os.Stat(cfg.HostsPath()); err == nil {
		report.Row(true, "inventory", cfg.HostsPath())
	} else {
		report.Warn("inventory", "not rendered yet, run 'muchos sync'")
	}
	if cfg.Upload.Enabled() {
		report.Row(true, "tarball bucket", cfg.Upload.Bucket)
	}

	if probe && ipErr == nil {
		report.Section("Connectivity")
		if probeErr := probeProxy(ctx, cfg, opts); probeErr != nil {
			report.Row(false, "proxy ssh", probeErr.Error())
			errs = append(errs, probeErr)
		} else {
			report.Row(true, "proxy ssh", "reachable")
		}
	}

	if tools.HasErrors() {
		errs = append(errs, tools.Error())
	}
	return errors.Join(errs...)
}

// probeProxy runs the reachability probe once.
func probeProxy(ctx context.Context, cfg *config.Config, opts Options) error {
	transport, err := newTransport(cfg, opts)
	if err != nil {
		return err
	}
	res, err := transport.Exec(ctx, cluster.ProbeCommand, ssh.ExecOptions{})
	if err != nil {
		return fmt.Errorf("proxy is not reachable: %w", err)
	}
	if !res.OK() {
		return fmt.Errorf("proxy is not reachable: %w", &cluster.CommandError{Code: res.Code, Command: res.Command})
	}
	return nil
}
