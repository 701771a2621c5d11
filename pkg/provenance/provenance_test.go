package provenance

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/whichllm/pkg/sources"
)

func TestTracker(t *testing.T) {
	tr := NewTracker(true)
	tr.Track("openai/gpt-4o", "input_price", Provenance{Source: sources.ArtificialAnalysisID, Value: 2.5, Authority: 100})
	tr.Track("openai/gpt-4o", "release_date", Provenance{Source: sources.ModelsDevID, Value: "2024-05-13", Authority: 90})
	tr.Track("acme/rocket-1", "input_price", Provenance{Source: sources.ModelsDevID, Value: 1.0, Authority: 90})

	summary := tr.Summary()
	assert.Equal(t, 1, summary["input_price"][sources.ArtificialAnalysisID])
	assert.Equal(t, 1, summary["input_price"][sources.ModelsDevID])
	assert.Equal(t, 1, summary["release_date"][sources.ModelsDevID])
	assert.Equal(t, "input_price: artificial_analysis=1 models_dev=1\nrelease_date: models_dev=1\n", summary.String())
}

func TestTrackerLatestWins(t *testing.T) {
	tr := NewTracker(true)
	tr.Track("openai/gpt-4o", "input_price", Provenance{Source: sources.ModelsDevID})
	tr.Track("openai/gpt-4o", "input_price", Provenance{Source: sources.ArtificialAnalysisID})

	summary := tr.Summary()
	require.Len(t, summary["input_price"], 1)
	assert.Equal(t, 1, summary["input_price"][sources.ArtificialAnalysisID])
}

func TestTrackerDisabled(t *testing.T) {
	tr := NewTracker(false)
	tr.Track("openai/gpt-4o", "input_price", Provenance{Source: sources.ArtificialAnalysisID})
	assert.Empty(t, tr.Summary())
}

func TestTrackerConcurrent(t *testing.T) {
	tr := NewTracker(true)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Track(fmt.Sprintf("acme/m%d", i), "input_price", Provenance{Source: sources.ModelsDevID, Value: i})
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, tr.Summary()["input_price"][sources.ModelsDevID])
}

func TestFusionProduces(t *testing.T) {
	var nilFusion *Fusion
	assert.False(t, nilFusion.Produces(Input{}, Input{}, ""))

	a := Input{Fingerprint: "a"}
	b := Input{Fingerprint: "b"}
	f := &Fusion{Primary: a, Secondary: b, Config: "cfg"}

	tests := []struct {
		name      string
		primary   Input
		secondary Input
		config    string
		want      bool
	}{
		{"same inputs", a, b, "cfg", true},
		{"fetch time ignored", Input{Fingerprint: "a", FetchedAt: time.Now()}, b, "cfg", true},
		{"secondary changed", a, Input{Fingerprint: "c"}, "cfg", false},
		{"primary changed", Input{Fingerprint: "c"}, b, "cfg", false},
		{"secondary went stale", a, Input{Fingerprint: "b", Stale: true}, "cfg", false},
		{"config changed", a, b, "other", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Produces(tt.primary, tt.secondary, tt.config))
		})
	}

	// A view built from a stale input is not reused once the source recovers
	stale := &Fusion{Primary: a, Secondary: Input{Fingerprint: "b", Stale: true}}
	assert.False(t, stale.Produces(a, b, ""))
}
