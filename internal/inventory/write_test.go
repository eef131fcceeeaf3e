package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mtesting "github.com/imamik/muchos/internal/testing"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfg := mtesting.NewConfigBuilder().WithHome(home).Build()

	files, err := Write(cfg)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "ansible", "site.yml"), files.Site)
	assert.Equal(t, filepath.Join(home, "ansible", "conf", "hosts"), files.Hosts)
	assert.Equal(t, filepath.Join(home, "ansible", "group_vars", "all"), files.GroupVars)
	assert.Equal(t, filepath.Join(home, "ansible", "conf", "keys"), files.Keys)

	site, err := os.ReadFile(files.Site)
	require.NoError(t, err)
	assert.Equal(t, SiteIndex(cfg), string(site))

	hosts, err := os.ReadFile(files.Hosts)
	require.NoError(t, err)
	assert.Contains(t, string(hosts), "[proxy]\nleader1\n")
	assert.Contains(t, string(hosts), "cluster_user = centos\n")

	groupVars, err := os.ReadFile(files.GroupVars)
	require.NoError(t, err)
	assert.Contains(t, string(groupVars), "accumulo_sha256: aaaa\n")

	keys, err := os.ReadFile(files.Keys)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestWriteCopiesKeys(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "conf", "keys"), []byte("ssh-ed25519 AAAA user\n"), 0o600))

	files, err := Write(mtesting.NewConfigBuilder().WithHome(home).Build())
	require.NoError(t, err)

	keys, err := os.ReadFile(files.Keys)
	require.NoError(t, err)
	assert.Equal(t, "ssh-ed25519 AAAA user\n", string(keys))
}

func TestWriteIsRepeatable(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfg := mtesting.NewConfigBuilder().WithHome(home).Build()

	first, err := Write(cfg)
	require.NoError(t, err)
	before, err := os.ReadFile(first.GroupVars)
	require.NoError(t, err)

	second, err := Write(cfg)
	require.NoError(t, err)
	after, err := os.ReadFile(second.GroupVars)
	require.NoError(t, err)

	assert.Equal(t, string(before), string(after))
}
