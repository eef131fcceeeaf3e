package config

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// ParseHosts reads "hostname private_ip [public_ip]" lines. Blank lines
// and lines starting with # are ignored.
func ParseHosts(data []byte) ([]Host, error) {
	var hosts []Host
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("line %d: expected 'hostname private_ip [public_ip]', got %q", lineNo, line)
		}

		host := Host{Name: fields[0], PrivateIP: fields[1]}
		if len(fields) == 3 {
			host.PublicIP = fields[2]
		}
		if seen[host.Name] {
			return nil, fmt.Errorf("line %d: duplicate host %q", lineNo, host.Name)
		}
		seen[host.Name] = true
		hosts = append(hosts, host)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return hosts, nil
}
