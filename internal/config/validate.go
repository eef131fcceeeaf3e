package config

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks the configuration for errors that would otherwise
// surface halfway through a deployment.
func (c *Config) Validate() error {
	var errs []error

	for _, option := range []string{"cluster_user", "cluster_basedir", "proxy_hostname"} {
		if c.general(option) == "" {
			errs = append(errs, fmt.Errorf("%s.%s is required", SectionGeneral, option))
		}
	}

	if profile := c.Profile(); profile != "" {
		if _, ok := c.Sections[profile]; !ok {
			errs = append(errs, fmt.Errorf("performance profile %q has no section", profile))
		}
	}

	if err := c.validateNodes(); err != nil {
		errs = append(errs, err)
	}

	if proxy := c.ProxyHostname(); proxy != "" {
		if _, ok := c.Host(proxy); !ok {
			errs = append(errs, fmt.Errorf("proxy host %q is not listed in the hosts file", proxy))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) validateNodes() error {
	var errs []error
	seen := make(map[string]bool)

	for _, n := range c.Nodes {
		if n.Name == "" {
			errs = append(errs, fmt.Errorf("node without a name"))
			continue
		}
		if seen[n.Name] {
			errs = append(errs, fmt.Errorf("node %q is listed twice", n.Name))
		}
		seen[n.Name] = true

		if _, ok := c.Host(n.Name); !ok {
			errs = append(errs, fmt.Errorf("node %q is not listed in the hosts file", n.Name))
		}
		for _, svc := range n.Services {
			if !slices.Contains(KnownServices, svc) {
				errs = append(errs, fmt.Errorf("node %q has unknown service %q", n.Name, svc))
			}
		}
	}

	for _, svc := range RequiredServices {
		if !c.HasService(svc) {
			errs = append(errs, fmt.Errorf("service %q must run on at least one node", svc))
		}
	}

	return errors.Join(errs...)
}
