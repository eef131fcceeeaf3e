package inventory

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/imamik/muchos/internal/config"
)

// HostsFile renders the Ansible inventory. Single-host groups take the
// first node running the service.
func HostsFile(cfg *config.Config, hostVars map[string]string) (string, error) {
	var b strings.Builder

	first := func(service string) (string, error) {
		hosts := cfg.ServiceHostnames(service)
		if len(hosts) == 0 {
			return "", fmt.Errorf("no node runs %s", service)
		}
		return hosts[0], nil
	}
	group := func(name string, hosts ...string) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s]\n", name)
		for _, h := range hosts {
			b.WriteString(h + "\n")
		}
	}

	group("proxy", cfg.ProxyHostname())

	for _, service := range []string{config.ServiceAccumuloMaster, config.ServiceNamenode, config.ServiceResourceManager} {
		host, err := first(service)
		if err != nil {
			return "", err
		}
		group(service, host)
	}

	for _, service := range []string{config.ServiceSpark, config.ServiceMesosMaster, config.ServiceMetrics, config.ServiceSwarmManager} {
		if cfg.HasService(service) {
			host, _ := first(service)
			group(service, host)
		}
	}

	var zookeepers []string
	for i, host := range cfg.ServiceHostnames(config.ServiceZookeeper) {
		zookeepers = append(zookeepers, fmt.Sprintf("%s id=%d", host, i+1))
	}
	group("zookeepers", zookeepers...)

	for _, service := range []string{config.ServiceFluo, config.ServiceFluoYarn} {
		if cfg.HasService(service) {
			group(service, cfg.ServiceHostnames(service)...)
		}
	}

	group("workers", cfg.ServiceHostnames(config.ServiceWorker)...)
	group("accumulo:children", "accumulomaster", "workers")
	group("hadoop:children", "namenode", "resourcemanager", "workers")

	var nodes []string
	for _, h := range cfg.PrivateIPHostnames() {
		nodes = append(nodes, fmt.Sprintf("%s ansible_ssh_host=%s node_type=%s", h.Name, h.PrivateIP, cfg.NodeType(h.Name)))
	}
	group("nodes", nodes...)

	var vars []string
	for _, name := range sortedKeys(hostVars) {
		vars = append(vars, strings.TrimRight(fmt.Sprintf("%s = %s", name, hostVars[name]), " "))
	}
	group("all:vars", vars...)

	return b.String(), nil
}

// GroupVars renders group_vars/all.
func GroupVars(playVars map[string]string) string {
	var b strings.Builder
	for _, name := range sortedKeys(playVars) {
		b.WriteString(strings.TrimRight(fmt.Sprintf("%s: %s", name, playVars[name]), " "))
		b.WriteString("\n")
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return slices.Compact(keys)
}
