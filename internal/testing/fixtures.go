package testing

import (
	"context"
	"sync"

	"github.com/imamik/muchos/internal/platform/ssh"
)

// Kinds of transport calls recorded by FakeTransport.
const (
	CallExec  = "exec"
	CallSync  = "sync"
	CallSend  = "send"
	CallShell = "shell"
)

// Call is one recorded transport invocation.
type Call struct {
	Kind string

	// Command is set for exec calls.
	Command string
	TTY     bool

	// Local and Remote are set for sync and send calls.
	Local        string
	Remote       string
	SkipIfExists bool

	SocksPort string
}

// FakeTransport records every call and answers with exit status zero
// unless one of the hook functions says otherwise.
type FakeTransport struct {
	mu    sync.Mutex
	calls []Call

	ExecFunc  func(ctx context.Context, command string, opts ssh.ExecOptions) (ssh.Result, error)
	SyncFunc  func(ctx context.Context, localDir, remoteDir string) (ssh.Result, error)
	SendFunc  func(ctx context.Context, localPath, remoteDir string, skipIfExists bool) (ssh.Result, error)
	ShellFunc func(ctx context.Context, opts ssh.ShellOptions) (ssh.Result, error)
}

var _ ssh.Transport = (*FakeTransport)(nil)

// NewFakeTransport returns a transport on which every call succeeds.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{}
}

// FailingExec answers exec calls of command with code; everything else
// succeeds.
func (f *FakeTransport) FailingExec(command string, code int) *FakeTransport {
	f.ExecFunc = func(_ context.Context, cmd string, _ ssh.ExecOptions) (ssh.Result, error) {
		if cmd == command {
			return ssh.Result{Code: code, Command: cmd}, nil
		}
		return ssh.Result{Command: cmd}, nil
	}
	return f
}

func (f *FakeTransport) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

// Exec implements ssh.Transport.
func (f *FakeTransport) Exec(ctx context.Context, command string, opts ssh.ExecOptions) (ssh.Result, error) {
	f.record(Call{Kind: CallExec, Command: command, TTY: opts.TTY})
	if f.ExecFunc != nil {
		return f.ExecFunc(ctx, command, opts)
	}
	return ssh.Result{Command: command}, nil
}

// Sync implements ssh.Transport.
func (f *FakeTransport) Sync(ctx context.Context, localDir, remoteDir string) (ssh.Result, error) {
	f.record(Call{Kind: CallSync, Local: localDir, Remote: remoteDir})
	if f.SyncFunc != nil {
		return f.SyncFunc(ctx, localDir, remoteDir)
	}
	return ssh.Result{Command: "sync " + localDir}, nil
}

// Send implements ssh.Transport.
func (f *FakeTransport) Send(ctx context.Context, localPath, remoteDir string, skipIfExists bool) (ssh.Result, error) {
	f.record(Call{Kind: CallSend, Local: localPath, Remote: remoteDir, SkipIfExists: skipIfExists})
	if f.SendFunc != nil {
		return f.SendFunc(ctx, localPath, remoteDir, skipIfExists)
	}
	return ssh.Result{Command: "send " + localPath}, nil
}

// Shell implements ssh.Transport.
func (f *FakeTransport) Shell(ctx context.Context, opts ssh.ShellOptions) (ssh.Result, error) {
	f.record(Call{Kind: CallShell, SocksPort: opts.SocksPort})
	if f.ShellFunc != nil {
		return f.ShellFunc(ctx, opts)
	}
	return ssh.Result{Command: "shell"}, nil
}

// Calls returns a copy of the recorded calls.
func (f *FakeTransport) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Commands returns the commands of recorded exec calls.
func (f *FakeTransport) Commands() []string {
	var cmds []string
	for _, c := range f.Calls() {
		if c.Kind == CallExec {
			cmds = append(cmds, c.Command)
		}
	}
	return cmds
}
