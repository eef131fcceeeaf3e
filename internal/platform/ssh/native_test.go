package ssh

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// generateTestKey returns a PEM encoded ed25519 private key.
func generateTestKey(t *testing.T) []byte {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)
	return pem.EncodeToMemory(block)
}

// execHandler answers one exec request and returns the exit status.
type execHandler func(command string, stdin io.Reader, stdout io.Writer) uint32

// startServer runs an SSH server on localhost that accepts any public key.
func startServer(t *testing.T, handle execHandler) int {
	t.Helper()

	_, hostKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(hostKey)
	require.NoError(t, err)

	cfg := &ssh.ServerConfig{
		PublicKeyCallback: func(ssh.ConnMetadata, ssh.PublicKey) (*ssh.Permissions, error) {
			return nil, nil
		},
	}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveConn(conn, cfg, handle)
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port
}

func serveConn(conn net.Conn, cfg *ssh.ServerConfig, handle execHandler) {
	_, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		return
	}
	go ssh.DiscardRequests(reqs)

	for nc := range chans {
		if nc.ChannelType() != "session" {
			_ = nc.Reject(ssh.UnknownChannelType, "only sessions")
			continue
		}
		ch, chReqs, err := nc.Accept()
		if err != nil {
			continue
		}
		go func() {
			defer ch.Close()
			for req := range chReqs {
				if req.Type != "exec" {
					_ = req.Reply(false, nil)
					continue
				}
				var payload struct{ Command string }
				_ = ssh.Unmarshal(req.Payload, &payload)
				_ = req.Reply(true, nil)

				status := handle(payload.Command, ch, ch)
				_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{status}))
				return
			}
		}()
	}
}

func newNative(t *testing.T, port int) *NativeTransport {
	t.Helper()
	t.Setenv("SSH_AUTH_SOCK", "")
	tr, err := NewNativeTransport(&NativeConfig{
		Target:      Target{User: "centos", Host: "127.0.0.1"},
		Port:        port,
		PrivateKey:  generateTestKey(t),
		DialTimeout: 2 * time.Second,
		MaxRetries:  1,
		RetryDelay:  10 * time.Millisecond,
		Stdout:      io.Discard,
		Stderr:      io.Discard,
	})
	require.NoError(t, err)
	return tr
}

func TestNewNativeTransport_Validation(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")

	_, err := NewNativeTransport(nil)
	require.EqualError(t, err, "config cannot be nil")

	_, err = NewNativeTransport(&NativeConfig{Target: Target{User: "centos"}})
	require.EqualError(t, err, "target host cannot be empty")

	_, err = NewNativeTransport(&NativeConfig{
		Target:     Target{User: "centos", Host: "10.0.0.1"},
		PrivateKey: []byte("invalid key"),
	})
	require.ErrorContains(t, err, "failed to parse private key")

	_, err = NewNativeTransport(&NativeConfig{Target: Target{User: "centos", Host: "10.0.0.1"}})
	require.ErrorContains(t, err, "no SSH credentials")
}

func TestNewNativeTransport_Defaults(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")

	tr, err := NewNativeTransport(&NativeConfig{
		Target:     Target{User: "centos", Host: "10.0.0.1"},
		PrivateKey: generateTestKey(t),
	})
	require.NoError(t, err)

	assert.Equal(t, defaultPort, tr.config.Port)
	assert.Equal(t, defaultDialTimeout, tr.config.DialTimeout)
	assert.Equal(t, defaultMaxRetries, tr.config.MaxRetries)
	assert.Equal(t, defaultRetryDelay, tr.config.RetryDelay)
	assert.NotNil(t, tr.config.HostKeyCallback)
}

func TestNativeTransport_ExecExitStatus(t *testing.T) {
	var mu sync.Mutex
	var commands []string
	port := startServer(t, func(command string, _ io.Reader, _ io.Writer) uint32 {
		mu.Lock()
		commands = append(commands, command)
		mu.Unlock()
		if command == "false" {
			return 3
		}
		return 0
	})
	tr := newNative(t, port)

	res, err := tr.Exec(context.Background(), "pwd > /dev/null", ExecOptions{})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Contains(t, res.Command, "centos@127.0.0.1")

	res, err = tr.Exec(context.Background(), "false", ExecOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Code)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"pwd > /dev/null", "false"}, commands)
}

func TestNativeTransport_SendStreamsFile(t *testing.T) {
	var mu sync.Mutex
	var received bytes.Buffer
	var command string
	port := startServer(t, func(cmd string, stdin io.Reader, _ io.Writer) uint32 {
		mu.Lock()
		defer mu.Unlock()
		command = cmd
		_, _ = io.Copy(&received, stdin)
		return 0
	})
	tr := newNative(t, port)

	local := filepath.Join(t.TempDir(), "fluo-1.2.0-bin.tar.gz")
	require.NoError(t, os.WriteFile(local, []byte("tarball-bytes"), 0o600))

	res, err := tr.Send(context.Background(), local, "/home/centos/tarballs", false)

	require.NoError(t, err)
	assert.True(t, res.OK())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "cat > /home/centos/tarballs/fluo-1.2.0-bin.tar.gz", command)
	assert.Equal(t, "tarball-bytes", received.String())
}

func TestNativeTransport_SyncStreamsTarball(t *testing.T) {
	var mu sync.Mutex
	var received bytes.Buffer
	port := startServer(t, func(_ string, stdin io.Reader, _ io.Writer) uint32 {
		mu.Lock()
		defer mu.Unlock()
		_, _ = io.Copy(&received, stdin)
		return 0
	})
	tr := newNative(t, port)

	src := filepath.Join(t.TempDir(), "ansible")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "site.yml"), []byte("- import_playbook: common.yml\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "conf", "hosts"), []byte("[proxy]\nleader1\n"), 0o644))

	res, err := tr.Sync(context.Background(), src, "/home/centos")

	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Contains(t, res.Command, "rm -rf /home/centos/ansible")

	mu.Lock()
	defer mu.Unlock()
	names := tarNames(t, received.Bytes())
	assert.Contains(t, names, "ansible/site.yml")
	assert.Contains(t, names, "ansible/conf/hosts")
}

func TestNativeTransport_UnreachableHost(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	tr := newNative(t, port)
	res, err := tr.Exec(context.Background(), "pwd > /dev/null", ExecOptions{})

	require.NoError(t, err)
	assert.Equal(t, exitConnectFailed, res.Code)
}

func TestNativeTransport_ShellRejectsSocks(t *testing.T) {
	tr := newNative(t, 22)
	_, err := tr.Shell(context.Background(), ShellOptions{SocksPort: "38585"})
	require.ErrorContains(t, err, "requires the shell transport")
}

func tarNames(t *testing.T, data []byte) []string {
	t.Helper()
	gr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	tr := tar.NewReader(gr)

	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
	}
	return names
}
