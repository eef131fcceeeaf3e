package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Load reads the cluster description for cluster from the home directory
// and validates it.
func Load(home, cluster string) (*Config, error) {
	if cluster == "" {
		return nil, fmt.Errorf("cluster name is required")
	}

	cfg, err := LoadFile(filepath.Join(home, ConfigFile))
	if err != nil {
		return nil, err
	}
	cfg.Home = home
	cfg.ClusterName = cluster

	hostsPath := filepath.Join(home, HostsDir, cluster)
	// #nosec G304
	hostsData, err := os.ReadFile(hostsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read hosts file for cluster %s: %w", cluster, err)
	}
	if cfg.Hosts, err = ParseHosts(hostsData); err != nil {
		return nil, fmt.Errorf("invalid hosts file %s: %w", hostsPath, err)
	}

	checksumsPath := filepath.Join(home, ChecksumsFile)
	// #nosec G304
	checksumData, err := os.ReadFile(checksumsPath)
	switch {
	case os.IsNotExist(err):
		cfg.Checksums = Checksums{}
	case err != nil:
		return nil, fmt.Errorf("failed to read checksums file: %w", err)
	default:
		if cfg.Checksums, err = ParseChecksums(checksumData); err != nil {
			return nil, fmt.Errorf("invalid checksums file %s: %w", checksumsPath, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFile parses conf/muchos.yaml. Home, ClusterName, Hosts and
// Checksums are left empty.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes the YAML config document.
func Parse(data []byte) (*Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg := &Config{Sections: make(map[string]map[string]string)}

	for name, value := range raw {
		var err error
		switch name {
		case SectionExisting:
			err = decode(value, &cfg.Existing)
		case SectionUpload:
			err = decode(value, &cfg.Upload)
		case SectionNodes:
			err = decode(value, &cfg.Nodes)
		default:
			cfg.Sections[name], err = flatten(value)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode section %q: %w", name, err)
		}
	}

	return cfg, nil
}

func decode(input, output interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// flatten turns an option section into raw string values. Options are
// scalars; nested values are rejected.
func flatten(value interface{}) (map[string]string, error) {
	if value == nil {
		return map[string]string{}, nil
	}
	section, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a mapping of options, got %T", value)
	}

	out := make(map[string]string, len(section))
	for key, v := range section {
		switch v := v.(type) {
		case nil:
			out[key] = ""
		case map[string]interface{}, []interface{}:
			return nil, fmt.Errorf("option %q must be a scalar", key)
		default:
			out[key] = fmt.Sprint(v)
		}
	}
	return out, nil
}
