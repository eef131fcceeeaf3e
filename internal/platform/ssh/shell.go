package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"al.essio.dev/pkg/shellescape"
)

const hostKeyOption = "StrictHostKeyChecking=no"

// Runner starts a local process and waits for it.
type Runner interface {
	// Run returns the exit code of the process. The error is set only when
	// the process could not be started.
	Run(ctx context.Context, name string, args []string, interactive bool) (int, error)
}

// ExecRunner runs processes with os/exec, wired to the given streams.
// Stdin is attached only to interactive processes.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, name string, args []string, interactive bool) (int, error) {
	// #nosec G204 - name is one of ssh, rsync, scp
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if interactive {
		cmd.Stdin = r.Stdin
	}

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return 0, nil
}

// ShellConfig configures a ShellTransport.
type ShellConfig struct {
	Target Target

	// IdentityFile is passed to ssh with -i when set.
	IdentityFile string

	// Runner defaults to an ExecRunner on the process streams.
	Runner Runner
}

// ShellTransport implements Transport with the ssh, rsync and scp binaries.
type ShellTransport struct {
	target       Target
	identityFile string
	runner       Runner
}

// NewShellTransport validates cfg and returns a transport.
func NewShellTransport(cfg ShellConfig) (*ShellTransport, error) {
	if err := cfg.Target.validate(); err != nil {
		return nil, err
	}
	runner := cfg.Runner
	if runner == nil {
		runner = ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	}
	return &ShellTransport{target: cfg.Target, identityFile: cfg.IdentityFile, runner: runner}, nil
}

// Exec implements Transport.
func (t *ShellTransport) Exec(ctx context.Context, command string, opts ExecOptions) (Result, error) {
	args := append([]string{"-A"}, t.sshOptions()...)
	if opts.TTY {
		args = append(args, "-t")
	}
	args = append(args, t.target.String(), command)
	return t.run(ctx, "ssh", args, opts.TTY)
}

// Sync implements Transport.
func (t *ShellTransport) Sync(ctx context.Context, localDir, remoteDir string) (Result, error) {
	args := []string{"-az", "--delete", "-e", t.rsyncShell(), localDir, t.remotePath(remoteDir)}
	return t.run(ctx, "rsync", args, false)
}

// Send implements Transport.
func (t *ShellTransport) Send(ctx context.Context, localPath, remoteDir string, skipIfExists bool) (Result, error) {
	if skipIfExists {
		args := []string{"--update", "--progress", "-e", t.rsyncShell(), localPath, t.remotePath(remoteDir)}
		return t.run(ctx, "rsync", args, false)
	}
	args := append(t.sshOptions(), localPath, t.remotePath(remoteDir))
	return t.run(ctx, "scp", args, false)
}

// Shell implements Transport.
func (t *ShellTransport) Shell(ctx context.Context, opts ShellOptions) (Result, error) {
	args := append([]string{"-C", "-A"}, t.sshOptions()...)
	if opts.SocksPort != "" {
		args = append(args, "-D", opts.SocksPort)
	}
	args = append(args, t.target.String())
	return t.run(ctx, "ssh", args, true)
}

func (t *ShellTransport) run(ctx context.Context, name string, args []string, interactive bool) (Result, error) {
	res := Result{Command: shellescape.QuoteCommand(append([]string{name}, args...))}
	code, err := t.runner.Run(ctx, name, args, interactive)
	if err != nil {
		return res, err
	}
	res.Code = code
	return res, nil
}

func (t *ShellTransport) sshOptions() []string {
	opts := []string{"-o", hostKeyOption}
	if t.identityFile != "" {
		opts = append(opts, "-i", t.identityFile)
	}
	return opts
}

// rsyncShell is the remote shell passed to rsync -e.
func (t *ShellTransport) rsyncShell() string {
	return shellescape.QuoteCommand(append([]string{"ssh"}, t.sshOptions()...))
}

func (t *ShellTransport) remotePath(dir string) string {
	return t.target.String() + ":" + dir
}
