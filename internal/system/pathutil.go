package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateVolumeName checks that a volume name can be used as a single
// directory name under the mount root.
func ValidateVolumeName(name string) error {
	if name == "" {
		return fmt.Errorf("volume name is empty")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid volume name: %q", name)
	}
	if strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("volume name must not contain '/' or NUL: %q", name)
	}
	return nil
}

// SplitFolders parses a comma separated folder list, dropping blanks
func SplitFolders(s string) []string {
	var folders []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			folders = append(folders, f)
		}
	}
	return folders
}

// IsLocalPath reports whether rel stays inside its parent once joined.
// Absolute paths and paths escaping with .. are rejected.
func IsLocalPath(rel string) bool {
	return rel != "" && filepath.IsLocal(rel)
}

// DirExists reports whether path exists and is a directory
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
