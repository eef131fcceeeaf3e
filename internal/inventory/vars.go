package inventory

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/imamik/muchos/internal/config"
)

// Vars are the two flat variable sets written for Ansible.
type Vars struct {
	// Host goes into the [all:vars] section of the hosts file.
	Host map[string]string

	// Play goes into group_vars/all.
	Play map[string]string
}

// Options consumed by muchos itself rather than by the playbooks.
var excludedOptions = []string{"proxy_hostname", "proxy_socks_port"}

// Software whose <name>_sha256 play variable comes from the checksums file.
var checksummedSoftware = []string{"accumulo", "fluo", "fluo_yarn", "hadoop", "spark", "zookeeper"}

// BuildVars merges the general, ansible-vars and active performance profile
// sections over fresh copies of the variable defaults. Only recognized
// variable names are taken; a name known to both sets lands in both.
func BuildVars(cfg *config.Config) (*Vars, error) {
	if t := cfg.ClusterType(); t != config.ClusterTypeExisting {
		return nil, fmt.Errorf("cannot render variables for cluster_type %q", t)
	}

	v := &Vars{
		Host: config.HostVarDefaults(),
		Play: config.PlayVarDefaults(),
	}

	sections := []string{config.SectionGeneral, config.SectionAnsibleVars}
	if profile := cfg.Profile(); profile != "" {
		sections = append(sections, profile)
	}
	for _, section := range sections {
		for name, value := range cfg.Items(section) {
			if slices.Contains(excludedOptions, name) {
				continue
			}
			if _, ok := v.Host[name]; ok {
				v.Host[name] = value
			}
			if _, ok := v.Play[name]; ok {
				v.Play[name] = value
			}
		}
	}

	for _, software := range checksummedSoftware {
		sum, err := cfg.Checksum(software)
		if err != nil {
			return nil, err
		}
		v.Play[software+"_sha256"] = sum
	}

	if err := v.addStorage(cfg.Existing); err != nil {
		return nil, err
	}
	return v, nil
}

// addStorage describes the data mounts of existing nodes. Every node type
// shares the same mounts and devices.
func (v *Vars) addStorage(existing config.ExistingConfig) error {
	mounts := config.SplitList(existing.Mounts)
	devices := config.SplitList(existing.Devices)

	driveIDs, err := listLiteral(config.SplitList(existing.MetricsDriveIDs))
	if err != nil {
		return err
	}

	storage := func() *yaml.Node {
		return mapping(
			quoted("mounts"), sequence(mounts),
			quoted("devices"), sequence(devices),
		)
	}
	nodeTypeMap, err := literal(mapping(
		quoted(config.NodeTypeDefault), storage(),
		quoted(config.NodeTypeWorker), storage(),
	))
	if err != nil {
		return err
	}

	dataDirs, err := listLiteral(mounts)
	if err != nil {
		return err
	}

	v.Play["mount_root"] = existing.MountRoot
	v.Play["metrics_drive_ids"] = driveIDs
	v.Play["node_type_map"] = nodeTypeMap
	v.Host["worker_data_dirs"] = dataDirs
	v.Host["default_data_dirs"] = dataDirs
	return nil
}
