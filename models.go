package whichllm

import (
	"github.com/agentstation/whichllm/pkg/models"
	"github.com/agentstation/whichllm/pkg/snapshot"
)

// Compile-time interface check to ensure proper implementation.
var _ Catalog = (*client)(nil)

// Catalog provides read access to the merged view.
type Catalog interface {
	// Models returns every fused model in primary order. It returns a
	// NotFoundError when no merged view has been committed yet.
	Models() ([]models.Model, error)

	// Meta returns the merged view's metadata, including the fusion
	// provenance.
	Meta() (*snapshot.Meta, error)
}

// Models returns every fused model in primary order.
func (c *client) Models() ([]models.Model, error) {
	snap, err := c.orchestrator.Merged().Load()
	if err != nil {
		return nil, err
	}
	out := make([]models.Model, len(snap.Records))
	for i := range snap.Records {
		out[i] = models.FromRow(&snap.Records[i])
	}
	return out, nil
}

// Meta returns the merged view's metadata.
func (c *client) Meta() (*snapshot.Meta, error) {
	return c.orchestrator.Merged().LoadMeta()
}
