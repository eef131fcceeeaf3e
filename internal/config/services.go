package config

import "slices"

// HasService reports whether any node runs service.
func (c *Config) HasService(service string) bool {
	for _, n := range c.Nodes {
		if slices.Contains(n.Services, service) {
			return true
		}
	}
	return false
}

// ServiceHostnames lists the nodes running service, in nodes section order.
func (c *Config) ServiceHostnames(service string) []string {
	var hosts []string
	for _, n := range c.Nodes {
		if slices.Contains(n.Services, service) {
			hosts = append(hosts, n.Name)
		}
	}
	return hosts
}

// NodeType is worker for nodes running the worker service and default for
// everything else.
func (c *Config) NodeType(hostname string) string {
	for _, n := range c.Nodes {
		if n.Name == hostname && slices.Contains(n.Services, ServiceWorker) {
			return NodeTypeWorker
		}
	}
	return NodeTypeDefault
}

// PrivateIPHostnames returns every host of the hosts file, in file order.
func (c *Config) PrivateIPHostnames() []Host {
	return slices.Clone(c.Hosts)
}
