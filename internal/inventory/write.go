package inventory

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/imamik/muchos/internal/config"
)

// Files are the paths written by Write.
type Files struct {
	Site      string
	Hosts     string
	GroupVars string
	Keys      string
}

// Write renders the inventory under <home>/ansible. Existing files are
// replaced.
func Write(cfg *config.Config) (*Files, error) {
	vars, err := BuildVars(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build variables: %w", err)
	}
	hosts, err := HostsFile(cfg, vars.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to render hosts file: %w", err)
	}

	root := cfg.AnsiblePath()
	files := &Files{
		Site:      filepath.Join(root, "site.yml"),
		Hosts:     cfg.HostsPath(),
		GroupVars: filepath.Join(root, "group_vars", "all"),
		Keys:      filepath.Join(root, "conf", "keys"),
	}

	for path, content := range map[string]string{
		files.Site:      SiteIndex(cfg),
		files.Hosts:     hosts,
		files.GroupVars: GroupVars(vars.Play),
	} {
		if err := writeFile(path, content); err != nil {
			return nil, err
		}
	}

	if err := copyKeys(cfg.KeysPath(), files.Keys); err != nil {
		return nil, err
	}
	return files, nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	// #nosec G306
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// copyKeys copies src to dst, or leaves an empty dst when src is missing.
func copyKeys(src, dst string) error {
	// #nosec G304
	in, err := os.Open(src)
	if errors.Is(err, os.ErrNotExist) {
		return writeFile(dst, "")
	}
	if err != nil {
		return fmt.Errorf("failed to open keys file: %w", err)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	// #nosec G304
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy keys file: %w", err)
	}
	return out.Close()
}
