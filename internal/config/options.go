package config

import (
	"fmt"
	"maps"
	"strings"
)

// Get returns the raw value of an option.
func (c *Config) Get(section, option string) (string, bool) {
	v, ok := c.Sections[section][option]
	return v, ok
}

// HasOption reports whether an option is set in a section.
func (c *Config) HasOption(section, option string) bool {
	_, ok := c.Get(section, option)
	return ok
}

// Items returns a copy of every option in a section.
func (c *Config) Items(section string) map[string]string {
	return maps.Clone(c.Sections[section])
}

func (c *Config) general(option string) string {
	v, _ := c.Get(SectionGeneral, option)
	return v
}

// ClusterType defaults to ec2 when unset.
func (c *Config) ClusterType() string {
	if t := c.general("cluster_type"); t != "" {
		return t
	}
	return ClusterTypeEC2
}

// ClusterUser is the account used to log into every node.
func (c *Config) ClusterUser() string { return c.general("cluster_user") }

// ClusterBasedir is the directory on the proxy that receives ansible/ and
// tarballs/.
func (c *Config) ClusterBasedir() string { return c.general("cluster_basedir") }

// ProxyHostname names the gateway node.
func (c *Config) ProxyHostname() string { return c.general("proxy_hostname") }

// ProxySocksPort is the optional local port for SOCKS forwarding through
// the proxy.
func (c *Config) ProxySocksPort() (string, bool) {
	port, ok := c.Get(SectionGeneral, "proxy_socks_port")
	return port, ok && port != ""
}

// Profile names the active performance profile section.
func (c *Config) Profile() string {
	v, _ := c.Get(SectionPerformance, "profile")
	return v
}

// Version returns the configured version of a piece of software, taken
// from the general option <software>_version.
func (c *Config) Version(software string) string {
	return c.general(software + "_version")
}

// Checksum returns the sha256 of the configured version of software. It
// returns an empty string when no version is configured.
func (c *Config) Checksum(software string) (string, error) {
	version := c.Version(software)
	if version == "" {
		return "", nil
	}
	sum, ok := c.Checksums[software][version]
	if !ok {
		return "", fmt.Errorf("no checksum for %s %s in %s", software, version, ChecksumsFile)
	}
	return sum, nil
}

// Host looks up a host by name.
func (c *Config) Host(name string) (Host, bool) {
	for _, h := range c.Hosts {
		if h.Name == name {
			return h, true
		}
	}
	return Host{}, false
}

// ProxyIP is the address used to reach the proxy: its public IP when the
// hosts file has one, its private IP otherwise.
func (c *Config) ProxyIP() (string, error) {
	h, ok := c.Host(c.ProxyHostname())
	if !ok {
		return "", fmt.Errorf("proxy host %q is not listed in %s/%s", c.ProxyHostname(), HostsDir, c.ClusterName)
	}
	if h.PublicIP != "" {
		return h.PublicIP, nil
	}
	return h.PrivateIP, nil
}

// SplitList splits a comma separated option value, dropping empty items.
func SplitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
