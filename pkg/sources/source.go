// Package sources defines the contract shared by upstream data sources.
// A source fetches one bulk collection of raw records, reports the records
// it had to drop, and declares the policy that decides when its cached
// snapshot must be refetched.
//
// Sources never perform cross-source logic; linking records between sources
// is the matcher's job.
//
// Example usage:
//
//	batch, err := src.Fetch(ctx)
//	if err != nil {
//	    // fall back to the previous snapshot
//	}
//	log.Printf("%d records, %d dropped", len(batch.Records), batch.Dropped())
package sources

import (
	"context"
	"slices"

	"github.com/agentstation/whichllm/pkg/records"
)

// ID represents the identifier of a data source.
type ID string

// String returns the string representation of a source name.
func (id ID) String() string {
	return string(id)
}

// Known source identifiers. They double as artifact base names in the cache.
const (
	ArtificialAnalysisID ID = "artificial_analysis"
	ModelsDevID          ID = "models_dev"
)

// IDs returns all available source identifiers.
func IDs() []ID {
	return []ID{
		ArtificialAnalysisID,
		ModelsDevID,
	}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Role is the part a source plays in fusion.
type Role string

const (
	// Primary sources are authoritative; every merged entity comes from one
	// primary record.
	Primary Role = "primary"
	// Secondary sources enrich primary records when a match is found.
	Secondary Role = "secondary"
)

// Source fetches raw records of type T from one upstream.
type Source[T records.Record] interface {
	// ID returns the identifier of this source
	ID() ID

	// Role returns whether this source is primary or secondary
	Role() Role

	// Policy returns the cache validity policy for this source
	Policy() Policy

	// Fetch retrieves the full collection from upstream. Records missing a
	// mandatory identity field are dropped and reported on the batch.
	Fetch(ctx context.Context) (*Batch[T], error)
}

// Batch is the outcome of one fetch.
type Batch[T records.Record] struct {
	Records []T
	// Skipped holds one schema error per dropped record.
	Skipped []error
}

// Dropped returns the number of records rejected during parsing.
func (b *Batch[T]) Dropped() int {
	if b == nil {
		return 0
	}
	return len(b.Skipped)
}

// Len returns the number of accepted records.
func (b *Batch[T]) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Records)
}
