package whichllm

import (
	"reflect"
	"sync"

	"github.com/agentstation/whichllm/pkg/fusion"
	"github.com/agentstation/whichllm/pkg/models"
)

// Hook function types for merged view events
type (
	// ModelAddedHook is called when a model enters the merged view
	ModelAddedHook func(model models.Model)

	// ModelUpdatedHook is called when a fused model changes
	ModelUpdatedHook func(old, new models.Model)

	// ModelRemovedHook is called when a model leaves the merged view
	ModelRemovedHook func(model models.Model)

	// FusedHook is called after every committed fusion
	FusedHook func(result *fusion.Result)
)

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// Hooks provides event callback registration.
type Hooks interface {
	// OnModelAdded registers a callback for when models are added
	OnModelAdded(ModelAddedHook)

	// OnModelUpdated registers a callback for when models are updated
	OnModelUpdated(ModelUpdatedHook)

	// OnModelRemoved registers a callback for when models are removed
	OnModelRemoved(ModelRemovedHook)

	// OnFused registers a callback for committed fusions
	OnFused(FusedHook)
}

// hooks manages event callbacks for merged view changes
type hooks struct {
	mu             sync.RWMutex
	onModelAdded   []ModelAddedHook
	onModelUpdated []ModelUpdatedHook
	onModelRemoved []ModelRemovedHook
	onFused        []FusedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

func (c *client) OnModelAdded(fn ModelAddedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onModelAdded = append(c.hooks.onModelAdded, fn)
}

func (c *client) OnModelUpdated(fn ModelUpdatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onModelUpdated = append(c.hooks.onModelUpdated, fn)
}

func (c *client) OnModelRemoved(fn ModelRemovedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onModelRemoved = append(c.hooks.onModelRemoved, fn)
}

func (c *client) OnFused(fn FusedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onFused = append(c.hooks.onFused, fn)
}

// active reports whether any callback is registered.
func (h *hooks) active() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.onModelAdded)+len(h.onModelUpdated)+len(h.onModelRemoved)+len(h.onFused) > 0
}

// trigger compares the old and new merged views by composite key and fires
// the matching hooks.
func (h *hooks) trigger(before, after []models.Model, result *fusion.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	oldByKey := make(map[string]models.Model, len(before))
	for _, m := range before {
		oldByKey[m.Key()] = m
	}
	newByKey := make(map[string]struct{}, len(after))

	for _, m := range after {
		key := m.Key()
		newByKey[key] = struct{}{}
		if old, exists := oldByKey[key]; exists {
			if !reflect.DeepEqual(old, m) {
				for _, hook := range h.onModelUpdated {
					hook(old, m)
				}
			}
			continue
		}
		for _, hook := range h.onModelAdded {
			hook(m)
		}
	}

	for _, m := range before {
		if _, exists := newByKey[m.Key()]; !exists {
			for _, hook := range h.onModelRemoved {
				hook(m)
			}
		}
	}

	for _, hook := range h.onFused {
		hook(result)
	}
}
