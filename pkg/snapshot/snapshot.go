// Package snapshot persists record collections as columnar artifacts.
//
// Each artifact is a single Parquet data file whose footer carries the
// metadata: the fetch or fusion timestamp, the content fingerprint and
// provenance. The file is written to a temporary and renamed into place, so a
// reader sees either the previous artifact or the new one. A YAML copy of the
// metadata is kept next to the data file for inspection; it is never read
// back.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/agentstation/whichllm/pkg/constants"
	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/provenance"
	"github.com/agentstation/whichllm/pkg/sources"
)

// FormatVersion is bumped whenever the column layout changes.
const FormatVersion = 1

// Meta describes an artifact. It is embedded in the data file footer and
// mirrored to a YAML sidecar.
type Meta struct {
	Name        string             `yaml:"name" json:"name"`
	Version     int                `yaml:"version" json:"version"`
	Source      sources.ID         `yaml:"source,omitempty" json:"source,omitempty"`
	FetchedAt   time.Time          `yaml:"fetched_at" json:"fetched_at"`
	Fingerprint string             `yaml:"fingerprint" json:"fingerprint"`
	Records     int                `yaml:"records" json:"records"`
	Dropped     int                `yaml:"dropped,omitempty" json:"dropped,omitempty"`
	Fusion      *provenance.Fusion `yaml:"fusion,omitempty" json:"fusion,omitempty"`
}

// Snapshot is a record collection and its metadata.
type Snapshot[T any] struct {
	Records []T
	Meta    Meta
}

// New builds a snapshot and computes its fingerprint.
func New[T any](name string, recs []T, fetchedAt time.Time) (*Snapshot[T], error) {
	if recs == nil {
		recs = []T{}
	}
	fp, err := Fingerprint(recs)
	if err != nil {
		return nil, err
	}
	return &Snapshot[T]{
		Records: recs,
		Meta: Meta{
			Name:        name,
			Version:     FormatVersion,
			FetchedAt:   fetchedAt.UTC(),
			Fingerprint: fp,
			Records:     len(recs),
		},
	}, nil
}

// Fingerprint returns a stable hash of the serialized collection. Nil and
// empty collections hash identically.
func Fingerprint[T any](recs []T) (string, error) {
	if recs == nil {
		recs = []T{}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return "", errors.WrapParse("json", "fingerprint", err)
	}
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

// DefaultDir returns the cache directory: $WHICH_LLM_CACHE_DIR when set,
// otherwise the user cache directory plus "which-llm".
func DefaultDir() (string, error) {
	if dir := os.Getenv(constants.CacheDirEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", errors.NewConfigError("cache", "cannot determine user cache directory", err)
	}
	return filepath.Join(base, constants.CacheDirName), nil
}
