package config

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// Checksums maps software name to version to checksum.
type Checksums map[string]map[string]string

// ParseChecksums reads "software:version:[algorithm:]hash" lines. Only
// sha256 sums are accepted when an algorithm is given.
func ParseChecksums(data []byte) (Checksums, error) {
	sums := Checksums{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ":")
		var software, version, hash string
		switch len(parts) {
		case 3:
			software, version, hash = parts[0], parts[1], parts[2]
		case 4:
			if parts[2] != "sha256" {
				return nil, fmt.Errorf("line %d: unsupported checksum algorithm %q", lineNo, parts[2])
			}
			software, version, hash = parts[0], parts[1], parts[3]
		default:
			return nil, fmt.Errorf("line %d: expected 'software:version:[algorithm:]hash', got %q", lineNo, line)
		}

		if software == "" || version == "" || hash == "" {
			return nil, fmt.Errorf("line %d: empty field in %q", lineNo, line)
		}
		if sums[software] == nil {
			sums[software] = make(map[string]string)
		}
		sums[software][version] = hash
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sums, nil
}
