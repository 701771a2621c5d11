package snapshot

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/whichllm/pkg/constants"
	"github.com/agentstation/whichllm/pkg/errors"
)

// Usage describes the artifacts present in a cache directory.
type Usage struct {
	Dir       string `json:"dir" yaml:"dir"`
	Artifacts int    `json:"artifacts" yaml:"artifacts"`
	Files     int    `json:"files" yaml:"files"`
	Bytes     int64  `json:"bytes" yaml:"bytes"`
}

// isArtifactFile reports whether name belongs to a store: a data file, a
// sidecar or an abandoned temporary.
func isArtifactFile(name string) bool {
	return strings.HasSuffix(name, constants.DataExtension) ||
		strings.HasSuffix(name, constants.MetaExtension) ||
		(strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp"))
}

// Scan reports the artifacts in dir. A missing directory is empty.
func Scan(dir string) (Usage, error) {
	usage := Usage{Dir: dir}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return usage, nil
		}
		return usage, errors.WrapIO("read", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isArtifactFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return usage, errors.WrapIO("stat", filepath.Join(dir, entry.Name()), err)
		}
		usage.Files++
		usage.Bytes += info.Size()
		if strings.HasSuffix(entry.Name(), constants.DataExtension) {
			usage.Artifacts++
		}
	}
	return usage, nil
}

// Clear removes every artifact file in dir and returns how many were
// removed. Unrelated files are left alone.
func Clear(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.WrapIO("read", dir, err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !isArtifactFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return removed, errors.WrapIO("remove", path, err)
		}
		removed++
	}
	return removed, nil
}
