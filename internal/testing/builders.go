package testing

import (
	"fmt"
	"maps"
	"slices"

	"github.com/imamik/muchos/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder returns a builder for a three node existing cluster:
// leader1 (proxy, masters, zookeeper), worker1 and worker2.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{
			ClusterName: "test",
			Sections: map[string]map[string]string{
				config.SectionGeneral: {
					"cluster_type":      config.ClusterTypeExisting,
					"cluster_user":      "centos",
					"cluster_group":     "centos",
					"cluster_basedir":   "/home/centos",
					"user_home":         "/home/centos",
					"install_dir":       "/home/centos/install",
					"proxy_hostname":    "leader1",
					"accumulo_version":  "2.1.2",
					"hadoop_version":    "3.3.6",
					"zookeeper_version": "3.8.3",
					"fluo_version":      "1.2.0",
					"fluo_yarn_version": "1.0.0",
					"spark_version":     "3.5.0",
				},
				config.SectionAnsibleVars: {},
				config.SectionPerformance: {"profile": "perf-small"},
				"perf-small": {
					"accumulo_tserv_mem": "2G",
					"yarn_nm_mem_mb":     "16384",
				},
			},
			Existing: config.ExistingConfig{
				MountRoot:       "/var/data",
				MetricsDriveIDs: "var-data1,var-data2",
				Mounts:          "/var/data1,/var/data2",
				Devices:         "/dev/xvdb,/dev/xvdc",
			},
			Nodes: []config.Node{
				{Name: "leader1", Services: []string{"namenode", "resourcemanager", "accumulomaster", "zookeeper"}},
				{Name: "worker1", Services: []string{"worker"}},
				{Name: "worker2", Services: []string{"worker"}},
			},
			Hosts: []config.Host{
				{Name: "leader1", PrivateIP: "10.0.0.1", PublicIP: "203.0.113.10"},
				{Name: "worker1", PrivateIP: "10.0.0.2"},
				{Name: "worker2", PrivateIP: "10.0.0.3"},
			},
			Checksums: config.Checksums{
				"accumulo":  {"2.1.2": "aaaa"},
				"hadoop":    {"3.3.6": "bbbb"},
				"zookeeper": {"3.8.3": "cccc"},
				"fluo":      {"1.2.0": "dddd"},
				"fluo_yarn": {"1.0.0": "eeee"},
				"spark":     {"3.5.0": "ffff"},
			},
		},
	}
}

// WithHome sets the home directory.
func (b *ConfigBuilder) WithHome(home string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Home = home
	return nb
}

// WithOption sets an option in a section, creating the section if needed.
func (b *ConfigBuilder) WithOption(section, option, value string) *ConfigBuilder {
	nb := b.clone()
	if nb.cfg.Sections[section] == nil {
		nb.cfg.Sections[section] = map[string]string{}
	}
	nb.cfg.Sections[section][option] = value
	return nb
}

// WithoutOption removes an option.
func (b *ConfigBuilder) WithoutOption(section, option string) *ConfigBuilder {
	nb := b.clone()
	delete(nb.cfg.Sections[section], option)
	return nb
}

// WithService adds a service to a node, adding the node (and a hosts file
// entry) if it does not exist yet.
func (b *ConfigBuilder) WithService(node, service string) *ConfigBuilder {
	nb := b.clone()
	for i := range nb.cfg.Nodes {
		if nb.cfg.Nodes[i].Name == node {
			nb.cfg.Nodes[i].Services = append(nb.cfg.Nodes[i].Services, service)
			return nb
		}
	}
	nb.cfg.Nodes = append(nb.cfg.Nodes, config.Node{Name: node, Services: []string{service}})
	nb.cfg.Hosts = append(nb.cfg.Hosts, config.Host{Name: node, PrivateIP: fmt.Sprintf("10.0.1.%d", len(nb.cfg.Hosts)+1)})
	return nb
}

// WithExisting replaces the existing-cluster storage description.
func (b *ConfigBuilder) WithExisting(existing config.ExistingConfig) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Existing = existing
	return nb
}

// WithUpload configures a tarball bucket.
func (b *ConfigBuilder) WithUpload(upload config.UploadConfig) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Upload = upload
	return nb
}

// Build returns a copy of the configuration.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	cfg := b.cfg
	cfg.Sections = make(map[string]map[string]string, len(b.cfg.Sections))
	for name, section := range b.cfg.Sections {
		cfg.Sections[name] = maps.Clone(section)
	}
	cfg.Nodes = make([]config.Node, len(b.cfg.Nodes))
	for i, n := range b.cfg.Nodes {
		cfg.Nodes[i] = config.Node{Name: n.Name, Services: slices.Clone(n.Services)}
	}
	cfg.Hosts = slices.Clone(b.cfg.Hosts)
	cfg.Checksums = make(config.Checksums, len(b.cfg.Checksums))
	for sw, versions := range b.cfg.Checksums {
		cfg.Checksums[sw] = maps.Clone(versions)
	}
	return &ConfigBuilder{cfg: cfg}
}
