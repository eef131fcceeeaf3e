package handlers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/muchos/internal/cluster"
	"github.com/imamik/muchos/internal/config"
	"github.com/imamik/muchos/internal/platform/ssh"
	mtesting "github.com/imamik/muchos/internal/testing"
	"github.com/imamik/muchos/internal/util/prerequisites"
)

// saveAndRestoreFactories restores every factory variable and console
// stream after the test.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origLoadConfig := loadConfig
	origNewTransport := newTransport
	origNewTarballSource := newTarballSource
	origCheckTools := checkTools
	origIsInteractive := isInteractive
	origConfirm := confirm
	origReadFile := readFile
	origNewLogger := newLogger
	origStdout := stdout
	origStderr := stderr

	t.Cleanup(func() {
		loadConfig = origLoadConfig
		newTransport = origNewTransport
		newTarballSource = origNewTarballSource
		checkTools = origCheckTools
		isInteractive = origIsInteractive
		confirm = origConfirm
		readFile = origReadFile
		newLogger = origNewLogger
		stdout = origStdout
		stderr = origStderr
	})
}

// useFakes routes the proxy to a fake transport, reports every tool as
// present and disables prompts.
func useFakes(t *testing.T) *mtesting.FakeTransport {
	t.Helper()
	saveAndRestoreFactories(t)

	fake := mtesting.NewFakeTransport()
	newTransport = func(_ *config.Config, _ Options) (ssh.Transport, error) {
		return fake, nil
	}
	checkTools = func() *prerequisites.CheckResults {
		return &prerequisites.CheckResults{}
	}
	isInteractive = func() bool { return false }
	confirm = func(context.Context, string, string) (bool, error) {
		t.Fatal("confirm must not be called")
		return false, nil
	}
	newLogger = func(int) logr.Logger { return testr.New(t) }
	stdout = &bytes.Buffer{}
	stderr = &bytes.Buffer{}
	return fake
}

func testHome(t *testing.T) string {
	t.Helper()
	return mtesting.WriteHome(t, "test", mtesting.TestConfigYAML, mtesting.TestHosts)
}

func TestRun_Sync(t *testing.T) {
	fake := useFakes(t)
	home := testHome(t)

	err := Run(mtesting.TestContext(t), cluster.ActionSync, Options{Home: home, Cluster: "test"}, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"/home/centos/ansible/scripts/install_ansible.sh"}, fake.Commands())
	assert.FileExists(t, filepath.Join(home, "ansible", "conf", "hosts"))
	assert.FileExists(t, filepath.Join(home, "ansible", "site.yml"))
}

func TestRun_UnsupportedAction(t *testing.T) {
	fake := useFakes(t)
	home := testHome(t)

	var gotTransport string
	newTransport = func(_ *config.Config, opts Options) (ssh.Transport, error) {
		gotTransport = opts.Transport
		return fake, nil
	}
	checkTools = func() *prerequisites.CheckResults {
		t.Fatal("tools must not be checked for unsupported actions")
		return nil
	}

	for _, action := range []cluster.Action{cluster.ActionLaunch, cluster.ActionStatus, cluster.ActionTerminate} {
		t.Run(action.String(), func(t *testing.T) {
			err := Run(mtesting.TestContext(t), action, Options{Home: home, Cluster: "test", Transport: TransportNative}, false)
			require.ErrorIs(t, err, cluster.ErrUnsupported)
			assert.Equal(t, TransportShell, gotTransport)
		})
	}
	assert.Empty(t, fake.Calls())
}

func TestRun_MissingTools(t *testing.T) {
	useFakes(t)
	home := testHome(t)

	checkTools = func() *prerequisites.CheckResults {
		tool := prerequisites.Tool{Name: "rsync", Description: "file transfer", Required: true}
		return &prerequisites.CheckResults{Missing: []prerequisites.Tool{tool}}
	}
	newTransport = func(*config.Config, Options) (ssh.Transport, error) {
		t.Fatal("transport must not be created")
		return nil, nil
	}

	err := Run(mtesting.TestContext(t), cluster.ActionSync, Options{Home: home, Cluster: "test"}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rsync")
}

func TestRun_NativeSkipsToolCheck(t *testing.T) {
	fake := useFakes(t)
	home := testHome(t)

	checkTools = func() *prerequisites.CheckResults {
		t.Fatal("tools must not be checked for the native transport")
		return nil
	}

	err := Run(mtesting.TestContext(t), cluster.ActionSync, Options{Home: home, Cluster: "test", Transport: TransportNative}, false)
	require.NoError(t, err)
	assert.Len(t, fake.Commands(), 1)
}

func TestRun_InvalidTransport(t *testing.T) {
	useFakes(t)

	err := Run(context.Background(), cluster.ActionSync, Options{Home: t.TempDir(), Transport: "telnet"}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown transport "telnet"`)
}

func TestRun_ConfigError(t *testing.T) {
	useFakes(t)

	err := Run(context.Background(), cluster.ActionSync, Options{Home: t.TempDir(), Cluster: "test"}, false)
	require.Error(t, err)
}

func TestRun_Wipe(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		fake := useFakes(t)
		home := testHome(t)
		mtesting.WriteFile(t, filepath.Join(home, "ansible", "conf", "hosts"), "")

		isInteractive = func() bool { return true }
		var asked string
		confirm = func(_ context.Context, title, _ string) (bool, error) {
			asked = title
			return false, nil
		}

		err := Run(mtesting.TestContext(t), cluster.ActionWipe, Options{Home: home, Cluster: "test"}, false)
		require.NoError(t, err)
		assert.Equal(t, "Wipe cluster test?", asked)
		assert.Empty(t, fake.Calls())
	})

	t.Run("confirmed", func(t *testing.T) {
		fake := useFakes(t)
		home := testHome(t)
		mtesting.WriteFile(t, filepath.Join(home, "ansible", "conf", "hosts"), "")

		isInteractive = func() bool { return true }
		confirm = func(context.Context, string, string) (bool, error) { return true, nil }

		err := Run(mtesting.TestContext(t), cluster.ActionWipe, Options{Home: home, Cluster: "test"}, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"time -p ansible-playbook /home/centos/ansible/wipe.yml"}, fake.Commands())
	})

	t.Run("yes skips prompt", func(t *testing.T) {
		fake := useFakes(t)
		home := testHome(t)
		mtesting.WriteFile(t, filepath.Join(home, "ansible", "conf", "hosts"), "")

		isInteractive = func() bool { return true }

		err := Run(mtesting.TestContext(t), cluster.ActionWipe, Options{Home: home, Cluster: "test"}, true)
		require.NoError(t, err)
		assert.Len(t, fake.Commands(), 1)
	})

	t.Run("prompt error", func(t *testing.T) {
		useFakes(t)
		home := testHome(t)

		isInteractive = func() bool { return true }
		confirm = func(context.Context, string, string) (bool, error) {
			return false, errors.New("no tty")
		}

		err := Run(mtesting.TestContext(t), cluster.ActionWipe, Options{Home: home, Cluster: "test"}, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "confirmation failed")
	})

	t.Run("not synced", func(t *testing.T) {
		fake := useFakes(t)
		home := testHome(t)

		err := Run(mtesting.TestContext(t), cluster.ActionWipe, Options{Home: home, Cluster: "test"}, true)
		require.ErrorIs(t, err, cluster.ErrMissingPrecondition)
		assert.Empty(t, fake.Calls())
	})
}

type stubTarballs struct {
	fetched []string
}

func (s *stubTarballs) Fetch(_ context.Context, name, _ string) (bool, error) {
	s.fetched = append(s.fetched, name)
	return false, nil
}

func TestRun_SetupWithUpload(t *testing.T) {
	fake := useFakes(t)
	home := mtesting.WriteHome(t, "test", mtesting.TestConfigYAML+"upload:\n  bucket: tarballs\n", mtesting.TestHosts)

	source := &stubTarballs{}
	var bucket string
	newTarballSource = func(_ context.Context, upload config.UploadConfig) (cluster.TarballSource, error) {
		bucket = upload.Bucket
		return source, nil
	}

	err := Run(mtesting.TestContext(t), cluster.ActionSetup, Options{Home: home, Cluster: "test"}, false)
	require.NoError(t, err)

	assert.Equal(t, "tarballs", bucket)
	assert.Equal(t, []string{"accumulo-2.1.2-bin.tar.gz"}, source.fetched)
	assert.Equal(t, "time -p ansible-playbook /home/centos/ansible/site.yml", fake.Commands()[len(fake.Commands())-1])
}

func TestRun_SetupSourceError(t *testing.T) {
	useFakes(t)
	home := mtesting.WriteHome(t, "test", mtesting.TestConfigYAML+"upload:\n  bucket: tarballs\n", mtesting.TestHosts)

	newTarballSource = func(context.Context, config.UploadConfig) (cluster.TarballSource, error) {
		return nil, errors.New("bad endpoint")
	}

	err := Run(mtesting.TestContext(t), cluster.ActionSetup, Options{Home: home, Cluster: "test"}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open tarball bucket")
}

func TestRun_MetricsTextfile(t *testing.T) {
	useFakes(t)
	home := testHome(t)
	path := filepath.Join(t.TempDir(), "muchos.prom")

	err := Run(mtesting.TestContext(t), cluster.ActionSync, Options{Home: home, Cluster: "test", MetricsTextfile: path}, false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "muchos_remote_commands_total")
	assert.Contains(t, string(data), `muchos_action_duration_seconds_count{action="sync"} 1`)
}

func TestRun_MetricsWrittenOnFailure(t *testing.T) {
	fake := useFakes(t)
	fake.FailingExec("/home/centos/ansible/scripts/install_ansible.sh", 2)
	home := testHome(t)
	path := filepath.Join(t.TempDir(), "muchos.prom")

	err := Run(mtesting.TestContext(t), cluster.ActionSync, Options{Home: home, Cluster: "test", MetricsTextfile: path}, false)
	var cmdErr *cluster.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 2, cmdErr.Code)
	assert.FileExists(t, path)
}

func TestDefaultTransport(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg, err := config.Load(testHome(t), "test")
	require.NoError(t, err)

	t.Run("shell", func(t *testing.T) {
		transport, err := defaultTransport(cfg, Options{Transport: TransportShell})
		require.NoError(t, err)
		assert.IsType(t, &ssh.ShellTransport{}, transport)
	})

	t.Run("native identity file error", func(t *testing.T) {
		readFile = func(string) ([]byte, error) {
			return nil, os.ErrNotExist
		}
		_, err := defaultTransport(cfg, Options{Transport: TransportNative, IdentityFile: "/missing"})
		require.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), "failed to read identity file")
	})

	t.Run("proxy without hosts entry", func(t *testing.T) {
		broken := *cfg
		broken.Hosts = nil
		_, err := defaultTransport(&broken, Options{})
		require.Error(t, err)
	})
}
