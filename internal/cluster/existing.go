package cluster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/muchos/internal/config"
	"github.com/imamik/muchos/internal/inventory"
	"github.com/imamik/muchos/internal/metrics"
	"github.com/imamik/muchos/internal/platform/ssh"
	"github.com/imamik/muchos/internal/util/retry"
)

// Reachability probing of the proxy.
const (
	ProbeCommand  = "pwd > /dev/null"
	ProbeInterval = 5 * time.Second
	ProbeSettle   = 1 * time.Second
)

// TarballSource fetches a software tarball into a local directory. It
// reports false when the source does not have it.
type TarballSource interface {
	Fetch(ctx context.Context, name, dir string) (bool, error)
}

// Options configure an Existing cluster.
type Options struct {
	Transport ssh.Transport
	Logger    logr.Logger

	// Tarballs, if set, fills in tarballs missing from conf/upload.
	Tarballs TarballSource

	// Metrics, if set, records remote commands, probes and action timing.
	Metrics *metrics.Recorder

	// Sleep replaces the timer used while waiting for the proxy.
	Sleep retry.Sleeper
}

// Existing performs actions on a cluster of existing machines.
type Existing struct {
	cfg       *config.Config
	transport ssh.Transport
	log       logr.Logger
	tarballs  TarballSource
	metrics   *metrics.Recorder
	sleep     retry.Sleeper
}

// NewExisting creates the action dispatcher for cfg.
func NewExisting(cfg *config.Config, opts Options) (*Existing, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if opts.Transport == nil {
		return nil, fmt.Errorf("transport cannot be nil")
	}
	if t := cfg.ClusterType(); t != config.ClusterTypeExisting {
		return nil, fmt.Errorf("cluster_type %q is not supported, only %q clusters can be managed", t, config.ClusterTypeExisting)
	}

	sleep := opts.Sleep
	if sleep == nil {
		sleep = retry.Sleep
	}

	return &Existing{
		cfg:       cfg,
		transport: opts.Transport,
		log:       opts.Logger,
		tarballs:  opts.Tarballs,
		metrics:   opts.Metrics,
		sleep:     sleep,
	}, nil
}

// Perform runs one action.
func (e *Existing) Perform(ctx context.Context, action Action) error {
	start := time.Now()
	defer func() { e.metrics.ObserveAction(action.String(), time.Since(start)) }()

	switch action {
	case ActionLaunch, ActionStatus, ActionTerminate:
		return fmt.Errorf("%w: '%s' command cannot be used when cluster_type is set to '%s'",
			ErrUnsupported, action, config.ClusterTypeExisting)
	case ActionSync:
		return e.Sync(ctx)
	case ActionSetup:
		return e.Setup(ctx)
	case ActionSSH:
		return e.SSH(ctx)
	case ActionWipe, ActionKill, ActionCancelShutdown:
		return e.maintain(ctx, action)
	default:
		return fmt.Errorf("unknown action: %s", action)
	}
}

// Sync renders the inventory, mirrors ansible/ to the proxy and installs
// Ansible there.
func (e *Existing) Sync(ctx context.Context) error {
	e.log.Info("Syncing ansible directory on cluster proxy node", "cluster", e.cfg.ClusterName)

	files, err := inventory.Write(e.cfg)
	if err != nil {
		return err
	}
	e.log.V(1).Info("Rendered inventory", "hosts", files.Hosts, "groupVars", files.GroupVars, "site", files.Site)

	basedir := e.cfg.ClusterBasedir()
	if err := e.verify("sync", func() (ssh.Result, error) {
		return e.transport.Sync(ctx, e.cfg.AnsiblePath(), basedir)
	}); err != nil {
		return err
	}

	return e.ExecVerified(ctx, basedir+"/ansible/scripts/install_ansible.sh", ssh.ExecOptions{TTY: true})
}

// tarball is a software archive setup may push to the proxy.
type tarball struct {
	software string
	format   string

	// service gates the upload; empty means always.
	service string
}

var setupTarballs = []tarball{
	{software: "accumulo", format: "accumulo-%s-bin.tar.gz"},
	{software: "fluo", format: "fluo-%s-bin.tar.gz", service: config.ServiceFluo},
	{software: "fluo_yarn", format: "fluo-yarn-%s-bin.tar.gz", service: config.ServiceFluoYarn},
}

// Setup syncs, uploads the tarballs found in conf/upload and runs the site
// playbook.
func (e *Existing) Setup(ctx context.Context) error {
	e.log.Info("Setting up cluster", "cluster", e.cfg.ClusterName)

	if err := e.Sync(ctx); err != nil {
		return err
	}

	remoteDir := e.cfg.ClusterBasedir() + "/tarballs"
	if err := e.ExecVerified(ctx, "mkdir -p "+remoteDir, ssh.ExecOptions{}); err != nil {
		return err
	}

	for _, tb := range setupTarballs {
		if tb.service != "" && !e.cfg.HasService(tb.service) {
			continue
		}
		version := e.cfg.Version(tb.software)
		if version == "" {
			continue
		}

		path, err := e.localTarball(ctx, fmt.Sprintf(tb.format, version))
		if err != nil {
			return err
		}
		if path == "" {
			continue
		}

		e.log.Info("Copying to proxy", "path", path)
		if err := e.verify("send", func() (ssh.Result, error) {
			return e.transport.Send(ctx, path, remoteDir, true)
		}); err != nil {
			return err
		}
	}

	return e.ExecutePlaybook(ctx, "site.yml")
}

// localTarball returns the path of name in conf/upload, fetching it from
// the tarball source when missing. It returns "" when the tarball is not
// available.
func (e *Existing) localTarball(ctx context.Context, name string) (string, error) {
	dir := e.cfg.UploadPath()
	path := filepath.Join(dir, name)

	_, err := os.Stat(path)
	switch {
	case err == nil:
		return path, nil
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("failed to check tarball %s: %w", path, err)
	case e.tarballs == nil:
		return "", nil
	}

	e.log.Info("Fetching tarball", "name", name)
	found, err := e.tarballs.Fetch(ctx, name, dir)
	if err != nil {
		return "", fmt.Errorf("failed to fetch tarball %s: %w", name, err)
	}
	if !found {
		e.log.V(1).Info("Tarball not available", "name", name)
		return "", nil
	}
	return path, nil
}

// SSH waits for the proxy and opens an interactive login, forwarding the
// configured SOCKS port.
func (e *Existing) SSH(ctx context.Context) error {
	if err := e.WaitUntilProxyReady(ctx); err != nil {
		return err
	}

	var opts ssh.ShellOptions
	if port, ok := e.cfg.ProxySocksPort(); ok {
		opts.SocksPort = port
	}

	e.log.Info("Logging into proxy", "proxy", e.cfg.ProxyHostname(), "socksPort", opts.SocksPort)
	return e.verify("shell", func() (ssh.Result, error) {
		return e.transport.Shell(ctx, opts)
	})
}

func (e *Existing) maintain(ctx context.Context, action Action) error {
	hostsPath := e.cfg.HostsPath()
	if _, err := os.Stat(hostsPath); err != nil {
		return fmt.Errorf("%w: hosts file does not exist for cluster: %s", ErrMissingPrecondition, hostsPath)
	}

	switch action {
	case ActionWipe:
		e.log.Info("Killing all processes started by Muchos and wiping Muchos data", "cluster", e.cfg.ClusterName)
	case ActionKill:
		e.log.Info("Killing all processes started by Muchos", "cluster", e.cfg.ClusterName)
	case ActionCancelShutdown:
		e.log.Info("Cancelling automatic shutdown", "cluster", e.cfg.ClusterName)
	}

	return e.ExecutePlaybook(ctx, action.Playbook())
}

// WaitUntilProxyReady probes the proxy until a trivial command succeeds.
// It retries without limit; only ctx ends the wait early.
func (e *Existing) WaitUntilProxyReady(ctx context.Context) error {
	ip, err := e.cfg.ProxyIP()
	if err != nil {
		return err
	}
	e.log.Info("Checking if proxy can be reached",
		"proxy", e.cfg.ProxyHostname(), "target", ssh.Target{User: e.cfg.ClusterUser(), Host: ip}.String())

	poller := retry.Poller{
		Interval: ProbeInterval,
		Settle:   ProbeSettle,
		Sleep:    e.sleep,
		OnFailure: func(attempt int, err error) {
			e.log.Info("Proxy could not be accessed using SSH. Will retry in 5 sec...", "attempt", attempt)
			e.log.V(1).Info("Probe failed", "error", err.Error())
		},
	}

	attempts, err := poller.Until(ctx, func(ctx context.Context) error {
		res, err := e.transport.Exec(ctx, ProbeCommand, ssh.ExecOptions{})
		ok := err == nil && res.OK()
		e.metrics.ProxyProbe(ok)
		if err != nil {
			return err
		}
		if !ok {
			return &CommandError{Code: res.Code, Command: res.Command}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("stopped waiting for proxy after %d attempts: %w", attempts, err)
	}

	e.log.Info("Connected to proxy using SSH!")
	return nil
}

// ExecutePlaybook runs a playbook from the synced ansible directory.
func (e *Existing) ExecutePlaybook(ctx context.Context, playbook string) error {
	e.log.Info("Executing playbook", "playbook", playbook)
	command := fmt.Sprintf("time -p ansible-playbook %s/ansible/%s", e.cfg.ClusterBasedir(), playbook)
	return e.ExecVerified(ctx, command, ssh.ExecOptions{TTY: true})
}

// ExecVerified runs command on the proxy and fails with a CommandError on
// a non-zero exit status.
func (e *Existing) ExecVerified(ctx context.Context, command string, opts ssh.ExecOptions) error {
	return e.verify("exec", func() (ssh.Result, error) {
		return e.transport.Exec(ctx, command, opts)
	})
}

// verify runs one transport operation and turns a non-zero exit status
// into a CommandError.
func (e *Existing) verify(kind string, op func() (ssh.Result, error)) error {
	res, err := op()
	if err != nil {
		e.metrics.RemoteCommand(kind, false)
		return fmt.Errorf("failed to run %s on proxy: %w", kind, err)
	}
	e.log.V(1).Info("Ran on proxy", "kind", kind, "command", res.Command, "code", res.Code)
	e.metrics.RemoteCommand(kind, res.OK())
	if !res.OK() {
		return &CommandError{Code: res.Code, Command: res.Command}
	}
	return nil
}
