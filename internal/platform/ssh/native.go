package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/term"

	"github.com/imamik/muchos/internal/util/retry"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
	defaultMaxRetries  = 2
	defaultRetryDelay  = 2 * time.Second
	defaultMaxDelay    = 10 * time.Second

	// exitConnectFailed mirrors the status the ssh binary uses when it
	// cannot reach the host.
	exitConnectFailed = 255
)

// NativeConfig holds SSH client configuration.
type NativeConfig struct {
	Target Target
	Port   int

	// PrivateKey is optional when an agent is reachable through
	// SSH_AUTH_SOCK.
	PrivateKey []byte

	// DialTimeout is the timeout for establishing the TCP connection.
	// If zero, defaultDialTimeout is used.
	DialTimeout time.Duration

	// MaxRetries is the number of dial retries per operation.
	// If zero, defaultMaxRetries is used.
	MaxRetries int

	// RetryDelay is the initial delay between dial retries.
	// If zero, defaultRetryDelay is used.
	RetryDelay time.Duration

	// HostKeyCallback handles host key verification.
	// If nil, host keys are not checked, matching StrictHostKeyChecking=no.
	HostKeyCallback ssh.HostKeyCallback

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NativeTransport implements Transport over golang.org/x/crypto/ssh.
// A connection is opened per operation.
type NativeTransport struct {
	config *NativeConfig
	auth   []ssh.AuthMethod
	agent  agent.Agent
}

// NewNativeTransport validates cfg, parses the private key and connects
// to the local agent if one is running.
func NewNativeTransport(cfg *NativeConfig) (*NativeTransport, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Target.validate(); err != nil {
		return nil, err
	}

	// Copy config to avoid mutating caller's struct
	c := *cfg
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = defaultDialTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = defaultRetryDelay
	}
	if c.HostKeyCallback == nil {
		c.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // same policy as the ssh binary invocations
	}
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}

	t := &NativeTransport{config: &c}

	if len(c.PrivateKey) > 0 {
		signer, err := ssh.ParsePrivateKey(c.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		t.auth = append(t.auth, ssh.PublicKeys(signer))
	}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		conn, err := net.Dial("unix", sock)
		if err == nil {
			t.agent = agent.NewClient(conn)
			t.auth = append(t.auth, ssh.PublicKeysCallback(t.agent.Signers))
		}
	}

	if len(t.auth) == 0 {
		return nil, fmt.Errorf("no SSH credentials: provide a private key or run an agent (SSH_AUTH_SOCK)")
	}

	return t, nil
}

// Exec implements Transport.
func (t *NativeTransport) Exec(ctx context.Context, command string, opts ExecOptions) (Result, error) {
	res := Result{Command: t.display(command)}
	code, err := t.run(ctx, command, runOptions{tty: opts.TTY})
	res.Code = code
	return res, err
}

// Sync implements Transport. The directory is streamed as a tarball and
// unpacked after the previous copy is removed.
func (t *NativeTransport) Sync(ctx context.Context, localDir, remoteDir string) (Result, error) {
	base := filepath.Base(localDir)
	command := fmt.Sprintf("rm -rf %s && mkdir -p %s && tar -xzf - -C %s",
		shellescape.Quote(path.Join(remoteDir, base)),
		shellescape.Quote(remoteDir),
		shellescape.Quote(remoteDir))
	res := Result{Command: t.display(command)}

	var buf bytes.Buffer
	if err := writeTarball(&buf, localDir, base); err != nil {
		return res, err
	}

	code, err := t.run(ctx, command, runOptions{stdin: &buf})
	res.Code = code
	return res, err
}

// Send implements Transport.
func (t *NativeTransport) Send(ctx context.Context, localPath, remoteDir string, skipIfExists bool) (Result, error) {
	remote := shellescape.Quote(path.Join(remoteDir, filepath.Base(localPath)))
	command := "cat > " + remote
	res := Result{Command: t.display(command)}

	info, err := os.Stat(localPath)
	if err != nil {
		return res, fmt.Errorf("failed to stat %s: %w", localPath, err)
	}

	if skipIfExists {
		var out bytes.Buffer
		code, err := t.run(ctx, "stat -c %Y "+remote, runOptions{stdout: &out, stderr: io.Discard})
		if err != nil {
			return res, err
		}
		if code == 0 {
			mtime, perr := strconv.ParseInt(strings.TrimSpace(out.String()), 10, 64)
			if perr == nil && mtime >= info.ModTime().Unix() {
				return res, nil
			}
		}
	}

	// #nosec G304
	f, err := os.Open(localPath)
	if err != nil {
		return res, fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	code, err := t.run(ctx, command, runOptions{stdin: f})
	res.Code = code
	return res, err
}

// Shell implements Transport. Dynamic SOCKS forwarding is only available
// through the ssh binary.
func (t *NativeTransport) Shell(ctx context.Context, opts ShellOptions) (Result, error) {
	res := Result{Command: t.display("")}
	if opts.SocksPort != "" {
		return res, fmt.Errorf("SOCKS forwarding (port %s) requires the shell transport", opts.SocksPort)
	}

	client, err := t.connect(ctx)
	if err != nil {
		return res, err
	}
	defer func() { _ = client.Close() }()
	stop := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stop()

	session, err := t.newSession(client)
	if err != nil {
		return res, err
	}
	defer func() { _ = session.Close() }()

	session.Stdin = t.config.Stdin
	session.Stdout = t.config.Stdout
	session.Stderr = t.config.Stderr

	width, height := 80, 40
	if f, ok := t.config.Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, h, err := term.GetSize(int(f.Fd())); err == nil {
			width, height = w, h
		}
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return res, fmt.Errorf("failed to put terminal into raw mode: %w", err)
		}
		defer func() { _ = term.Restore(int(f.Fd()), state) }()
	}

	if err := session.RequestPty(termType(), height, width, ssh.TerminalModes{ssh.ECHO: 1}); err != nil {
		return res, fmt.Errorf("failed to request pty: %w", err)
	}
	if err := session.Shell(); err != nil {
		return res, fmt.Errorf("failed to start shell: %w", err)
	}

	res.Code, err = exitCode(session.Wait())
	return res, err
}

type runOptions struct {
	tty    bool
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// run executes command in a fresh session and returns its exit status.
// Connection failures are reported as exitConnectFailed so callers that
// poll for reachability treat them like a failed ssh binary.
func (t *NativeTransport) run(ctx context.Context, command string, opts runOptions) (int, error) {
	client, err := t.connect(ctx)
	if err != nil {
		if retry.IsFatal(err) || ctx.Err() != nil {
			return exitConnectFailed, err
		}
		fmt.Fprintf(t.config.Stderr, "ssh: %v\n", err)
		return exitConnectFailed, nil
	}
	defer func() { _ = client.Close() }()
	stop := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stop()

	session, err := t.newSession(client)
	if err != nil {
		return exitConnectFailed, err
	}
	defer func() { _ = session.Close() }()

	session.Stdin = opts.stdin
	session.Stdout = t.config.Stdout
	session.Stderr = t.config.Stderr
	if opts.stdout != nil {
		session.Stdout = opts.stdout
	}
	if opts.stderr != nil {
		session.Stderr = opts.stderr
	}

	if opts.tty {
		if err := session.RequestPty(termType(), 40, 80, ssh.TerminalModes{ssh.ECHO: 0}); err != nil {
			return exitConnectFailed, fmt.Errorf("failed to request pty: %w", err)
		}
	}

	return exitCode(session.Run(command))
}

// connect establishes an SSH connection with retry logic.
func (t *NativeTransport) connect(ctx context.Context) (*ssh.Client, error) {
	config := &ssh.ClientConfig{
		User:            t.config.Target.User,
		Auth:            t.auth,
		HostKeyCallback: t.config.HostKeyCallback,
		Timeout:         t.config.DialTimeout,
	}

	addr := net.JoinHostPort(t.config.Target.Host, strconv.Itoa(t.config.Port))
	var client *ssh.Client

	err := retry.WithExponentialBackoff(ctx, func() error {
		var dialErr error
		client, dialErr = ssh.Dial("tcp", addr, config)
		if dialErr != nil && strings.Contains(dialErr.Error(), "unable to authenticate") {
			return retry.Fatal(dialErr)
		}
		return dialErr
	},
		retry.WithMaxRetries(t.config.MaxRetries),
		retry.WithInitialDelay(t.config.RetryDelay),
		retry.WithMaxDelay(defaultMaxDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to establish SSH connection to %s: %w", addr, err)
	}

	if t.agent != nil {
		if err := agent.ForwardToAgent(client, t.agent); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to set up agent forwarding: %w", err)
		}
	}
	return client, nil
}

func (t *NativeTransport) newSession(client *ssh.Client) (*ssh.Session, error) {
	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH session on %s: %w", t.config.Target.Host, err)
	}
	if t.agent != nil {
		if err := agent.RequestAgentForwarding(session); err != nil {
			_ = session.Close()
			return nil, fmt.Errorf("failed to request agent forwarding: %w", err)
		}
	}
	return session, nil
}

func (t *NativeTransport) display(command string) string {
	args := []string{"ssh", "-p", strconv.Itoa(t.config.Port), t.config.Target.String()}
	if command != "" {
		args = append(args, command)
	}
	return shellescape.QuoteCommand(args)
}

// exitCode converts a session error into an exit status.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitStatus(), nil
	}
	var missing *ssh.ExitMissingError
	if errors.As(err, &missing) {
		return exitConnectFailed, nil
	}
	return exitConnectFailed, err
}

func termType() string {
	if v := os.Getenv("TERM"); v != "" {
		return v
	}
	return "xterm"
}
