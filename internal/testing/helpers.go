package testing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestConfigYAML is a minimal valid conf/muchos.yaml for an existing
// cluster named by TestHosts.
const TestConfigYAML = `general:
  cluster_type: existing
  cluster_user: centos
  cluster_group: centos
  cluster_basedir: /home/centos
  user_home: /home/centos
  install_dir: /home/centos/install
  proxy_hostname: leader1
  accumulo_version: 2.1.2
  hadoop_version: 3.3.6
  zookeeper_version: 3.8.3
ansible-vars:
  accumulo_password: secret
performance:
  profile: perf-small
perf-small:
  accumulo_tserv_mem: 2G
  yarn_nm_mem_mb: 16384
existing:
  mount_root: /var/data
  metrics_drives_ids: var-data1,var-data2
  mounts: /var/data1,/var/data2
  devices: /dev/xvdb,/dev/xvdc
nodes:
  - name: leader1
    services: [namenode, resourcemanager, accumulomaster, zookeeper]
  - name: worker1
    services: [worker]
`

// TestHosts is a hosts file matching TestConfigYAML.
const TestHosts = `# name private public
leader1 10.0.0.1 203.0.113.10
worker1 10.0.0.2
`

// TestChecksums covers the versions in TestConfigYAML.
const TestChecksums = `accumulo:2.1.2:sha256:aaaa
hadoop:3.3.6:bbbb
zookeeper:3.8.3:cccc
`

// WriteHome creates a deploy directory holding conf/muchos.yaml,
// conf/checksums and conf/hosts/<cluster>, and returns its path.
func WriteHome(t *testing.T, cluster, configYAML, hosts string) string {
	t.Helper()
	home := t.TempDir()
	WriteFile(t, filepath.Join(home, "conf", "muchos.yaml"), configYAML)
	WriteFile(t, filepath.Join(home, "conf", "checksums"), TestChecksums)
	if hosts != "" {
		WriteFile(t, filepath.Join(home, "conf", "hosts", cluster), hosts)
	}
	return home
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
