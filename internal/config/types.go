package config

import (
	"path/filepath"
)

// Config is a loaded cluster description.
type Config struct {
	// Home is the directory holding conf/ and ansible/.
	Home string

	// ClusterName selects conf/hosts/<ClusterName>.
	ClusterName string

	// Sections holds every flat option section (general, ansible-vars,
	// performance and the performance profiles) as raw string values.
	Sections map[string]map[string]string

	Existing ExistingConfig
	Nodes    []Node
	Upload   UploadConfig

	// Hosts come from conf/hosts/<ClusterName>, in file order.
	Hosts []Host

	Checksums Checksums
}

// ExistingConfig describes storage on machines that were provisioned
// outside of muchos.
type ExistingConfig struct {
	MountRoot string `mapstructure:"mount_root"`

	// MetricsDriveIDs, Mounts and Devices are comma separated lists.
	MetricsDriveIDs string `mapstructure:"metrics_drives_ids"`
	Mounts          string `mapstructure:"mounts"`
	Devices         string `mapstructure:"devices"`
}

// Node places services on a host.
type Node struct {
	Name     string   `mapstructure:"name"`
	Services []string `mapstructure:"services"`
}

// UploadConfig points at an S3-compatible bucket holding software tarballs.
// It is optional; an empty Bucket disables it.
type UploadConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Enabled reports whether a tarball bucket is configured.
func (u UploadConfig) Enabled() bool {
	return u.Bucket != ""
}

// Host is one line of the hosts file.
type Host struct {
	Name      string
	PrivateIP string
	PublicIP  string
}

// HostsPath is the generated Ansible inventory. Its presence marks a
// cluster that has been synced at least once.
func (c *Config) HostsPath() string {
	return filepath.Join(c.Home, AnsibleDir, "conf", "hosts")
}

// AnsiblePath is the local directory pushed to the proxy.
func (c *Config) AnsiblePath() string {
	return filepath.Join(c.Home, AnsibleDir)
}

// UploadPath is where software tarballs are looked up locally.
func (c *Config) UploadPath() string {
	return filepath.Join(c.Home, UploadDir)
}

// KeysPath is the optional local keys file copied into the inventory.
func (c *Config) KeysPath() string {
	return filepath.Join(c.Home, KeysFile)
}
