package ssh

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name        string
	args        []string
	interactive bool
}

type fakeRunner struct {
	calls []call
	code  int
	err   error
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, interactive bool) (int, error) {
	f.calls = append(f.calls, call{name: name, args: args, interactive: interactive})
	return f.code, f.err
}

func newShell(t *testing.T, runner Runner) *ShellTransport {
	t.Helper()
	tr, err := NewShellTransport(ShellConfig{
		Target: Target{User: "centos", Host: "203.0.113.10"},
		Runner: runner,
	})
	require.NoError(t, err)
	return tr
}

func TestNewShellTransport_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewShellTransport(ShellConfig{Target: Target{User: "centos"}})
	require.EqualError(t, err, "target host cannot be empty")

	_, err = NewShellTransport(ShellConfig{Target: Target{Host: "10.0.0.1"}})
	require.EqualError(t, err, "target user cannot be empty")
}

func TestShellTransport_Exec(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{code: 2}
	tr := newShell(t, runner)

	res, err := tr.Exec(context.Background(), "pwd > /dev/null", ExecOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Code)
	assert.False(t, res.OK())
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "ssh", runner.calls[0].name)
	assert.Equal(t, []string{"-A", "-o", "StrictHostKeyChecking=no", "centos@203.0.113.10", "pwd > /dev/null"}, runner.calls[0].args)
	assert.False(t, runner.calls[0].interactive)
	assert.Equal(t, "ssh -A -o StrictHostKeyChecking=no centos@203.0.113.10 'pwd > /dev/null'", res.Command)
}

func TestShellTransport_ExecWithTTY(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{}
	tr := newShell(t, runner)

	res, err := tr.Exec(context.Background(), "time -p ansible-playbook /home/centos/ansible/site.yml", ExecOptions{TTY: true})

	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, []string{"-A", "-o", "StrictHostKeyChecking=no", "-t", "centos@203.0.113.10",
		"time -p ansible-playbook /home/centos/ansible/site.yml"}, runner.calls[0].args)
	assert.True(t, runner.calls[0].interactive)
}

func TestShellTransport_Sync(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{}
	tr := newShell(t, runner)

	_, err := tr.Sync(context.Background(), "/opt/muchos/ansible", "/home/centos")

	require.NoError(t, err)
	assert.Equal(t, "rsync", runner.calls[0].name)
	assert.Equal(t, []string{"-az", "--delete", "-e", "ssh -o StrictHostKeyChecking=no",
		"/opt/muchos/ansible", "centos@203.0.113.10:/home/centos"}, runner.calls[0].args)
}

func TestShellTransport_Send(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		skip     bool
		wantName string
		wantArgs []string
	}{
		{
			name:     "skip if exists uses rsync --update",
			skip:     true,
			wantName: "rsync",
			wantArgs: []string{"--update", "--progress", "-e", "ssh -o StrictHostKeyChecking=no",
				"/tmp/accumulo-2.1.2-bin.tar.gz", "centos@203.0.113.10:/home/centos/tarballs"},
		},
		{
			name:     "always copy uses scp",
			skip:     false,
			wantName: "scp",
			wantArgs: []string{"-o", "StrictHostKeyChecking=no",
				"/tmp/accumulo-2.1.2-bin.tar.gz", "centos@203.0.113.10:/home/centos/tarballs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			runner := &fakeRunner{}
			tr := newShell(t, runner)

			_, err := tr.Send(context.Background(), "/tmp/accumulo-2.1.2-bin.tar.gz", "/home/centos/tarballs", tt.skip)

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, runner.calls[0].name)
			assert.Equal(t, tt.wantArgs, runner.calls[0].args)
		})
	}
}

func TestShellTransport_Shell(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	tr := newShell(t, runner)
	_, err := tr.Shell(context.Background(), ShellOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"-C", "-A", "-o", "StrictHostKeyChecking=no", "centos@203.0.113.10"}, runner.calls[0].args)
	assert.True(t, runner.calls[0].interactive)

	runner = &fakeRunner{}
	tr = newShell(t, runner)
	_, err = tr.Shell(context.Background(), ShellOptions{SocksPort: "38585"})
	require.NoError(t, err)
	assert.Equal(t, []string{"-C", "-A", "-o", "StrictHostKeyChecking=no", "-D", "38585", "centos@203.0.113.10"}, runner.calls[0].args)
}

func TestShellTransport_IdentityFile(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{}
	tr, err := NewShellTransport(ShellConfig{
		Target:       Target{User: "centos", Host: "10.0.0.1"},
		IdentityFile: "/home/me/.ssh/muchos",
		Runner:       runner,
	})
	require.NoError(t, err)

	res, err := tr.Sync(context.Background(), "ansible", "/srv")

	require.NoError(t, err)
	assert.Contains(t, runner.calls[0].args, "ssh -o StrictHostKeyChecking=no -i /home/me/.ssh/muchos")
	assert.Contains(t, res.Command, "rsync -az --delete")
}

func TestShellTransport_RunnerError(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{err: errors.New("failed to run ssh: executable file not found")}
	tr := newShell(t, runner)

	res, err := tr.Exec(context.Background(), "true", ExecOptions{})

	require.Error(t, err)
	assert.NotEmpty(t, res.Command)
}

func TestExecRunner_ExitCode(t *testing.T) {
	t.Parallel()
	r := ExecRunner{}

	code, err := r.Run(context.Background(), "sh", []string{"-c", "exit 3"}, false)
	require.NoError(t, err)
	assert.Equal(t, 3, code)

	code, err = r.Run(context.Background(), "sh", []string{"-c", "true"}, false)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	_, err = r.Run(context.Background(), "definitely-not-a-binary-muchos", nil, false)
	require.Error(t, err)
}
