package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testYAML = `general:
  cluster_type: existing
  cluster_user: centos
  cluster_basedir: /home/centos
  proxy_hostname: leader1
  proxy_socks_port: 38585
  accumulo_version: 2.1.2
  hadoop_version: 3.3.6
ansible-vars:
  accumulo_password: secret
performance:
  profile: perf-small
perf-small:
  accumulo_tserv_mem: 2G
  yarn_nm_mem_mb: 16384
existing:
  mount_root: /var/data
  metrics_drives_ids: var-data1
  mounts: /var/data1, /var/data2
  devices: /dev/xvdb,/dev/xvdc
nodes:
  - name: leader1
    services: [namenode, resourcemanager, accumulomaster, zookeeper]
  - name: worker1
    services: [worker, fluo]
  - name: worker2
    services: [worker]
`

const testHosts = `# cluster hosts
leader1 10.0.0.1 203.0.113.10

worker1 10.0.0.2
worker2 10.0.0.3
`

func writeTestHome(t *testing.T, files map[string]string) string {
	t.Helper()
	home := t.TempDir()
	for name, content := range files {
		path := filepath.Join(home, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return home
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Parse([]byte(testYAML))
	require.NoError(t, err)
	cfg.ClusterName = "test"
	cfg.Hosts, err = ParseHosts([]byte(testHosts))
	require.NoError(t, err)
	cfg.Checksums = Checksums{}
	return cfg
}
