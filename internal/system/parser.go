package system

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/docker/go-units"
)

var plainNumber = regexp.MustCompile(`^\d+$`)

// ParseSizeMB converts a size string to whole megabytes.
// A bare number is taken as megabytes; suffixed values (512M, 2G, 1.5g)
// are parsed as binary units.
func ParseSizeMB(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	if plainNumber.MatchString(s) {
		value, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid size value: %s", s)
		}
		return value, nil
	}

	bytes, err := units.RAMInBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size format: %s (use format like 64, 512M, 2G)", s)
	}
	mb := bytes / units.MiB
	if mb < 1 {
		return 0, fmt.Errorf("size too small: %s (minimum is 1M)", s)
	}
	return int(mb), nil
}

// FormatSizeMB converts megabytes to a human-readable size
func FormatSizeMB(mb int) string {
	return units.BytesSize(float64(mb) * units.MiB)
}

// FormatSize converts bytes to a human-readable size
func FormatSize(bytes uint64) string {
	return units.BytesSize(float64(bytes))
}
