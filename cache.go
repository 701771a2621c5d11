package whichllm

import (
	"github.com/agentstation/whichllm/pkg/logging"
	"github.com/agentstation/whichllm/pkg/snapshot"
)

// Compile-time interface check to ensure proper implementation.
var _ Cache = (*client)(nil)

// Cache handles cache maintenance.
type Cache interface {
	// CacheDir returns the directory holding all artifacts
	CacheDir() string

	// CacheStats reports the artifacts present in the cache directory
	CacheStats() (snapshot.Usage, error)

	// ClearCache removes every artifact and returns how many files were removed
	ClearCache() (int, error)
}

// CacheDir returns the cache directory.
func (c *client) CacheDir() string {
	return c.options.cacheDir
}

// CacheStats reports the artifacts present in the cache directory.
func (c *client) CacheStats() (snapshot.Usage, error) {
	return snapshot.Scan(c.options.cacheDir)
}

// ClearCache removes every artifact. The next refresh refetches both sources.
func (c *client) ClearCache() (int, error) {
	n, err := snapshot.Clear(c.options.cacheDir)
	if err != nil {
		return n, err
	}
	logging.Info().Str("dir", c.options.cacheDir).Int("files", n).Msg("Cache cleared")
	return n, nil
}
