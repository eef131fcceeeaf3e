package ssh

import (
	"context"
	"fmt"
)

// Target is the account and address of the proxy node.
type Target struct {
	User string
	Host string
}

func (t Target) String() string {
	return fmt.Sprintf("%s@%s", t.User, t.Host)
}

func (t Target) validate() error {
	if t.Host == "" {
		return fmt.Errorf("target host cannot be empty")
	}
	if t.User == "" {
		return fmt.Errorf("target user cannot be empty")
	}
	return nil
}

// ExecOptions tune a remote command.
type ExecOptions struct {
	// TTY allocates a terminal, needed by playbooks that print progress.
	TTY bool
}

// ShellOptions tune an interactive login.
type ShellOptions struct {
	// SocksPort opens a dynamic SOCKS forward on this local port.
	SocksPort string
}

// Result describes a finished remote operation.
type Result struct {
	// Code is the exit status; zero means success.
	Code int

	// Command is a human readable rendering of what was run.
	Command string
}

// OK reports a zero exit status.
func (r Result) OK() bool {
	return r.Code == 0
}

// Transport runs commands on, and copies files to, a single proxy node.
//
// A non-zero exit status is reported in Result, not as an error. The
// error return is reserved for operations that could not be started.
type Transport interface {
	// Exec runs command on the proxy.
	Exec(ctx context.Context, command string, opts ExecOptions) (Result, error)

	// Sync mirrors localDir into remoteDir/<base of localDir>, deleting
	// remote files that no longer exist locally.
	Sync(ctx context.Context, localDir, remoteDir string) (Result, error)

	// Send copies a file into remoteDir. With skipIfExists a remote copy
	// at least as new as the local file is left alone.
	Send(ctx context.Context, localPath, remoteDir string, skipIfExists bool) (Result, error)

	// Shell opens an interactive login on the proxy.
	Shell(ctx context.Context, opts ShellOptions) (Result, error)
}
