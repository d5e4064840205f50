package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/aicred/aicred/internal/errors"
)

// ProviderInstances owns the configured provider instances, keyed by
// id. All access goes through its methods; each method is atomic under
// a single-writer/multi-reader lock, but callers composing several
// calls get no cross-call transaction.
type ProviderInstances struct {
	mu        sync.RWMutex
	instances map[string]*ProviderInstance
}

// NewProviderInstances creates an empty collection.
func NewProviderInstances() *ProviderInstances {
	return &ProviderInstances{instances: make(map[string]*ProviderInstance)}
}

// RestoreProviderInstances rebuilds a collection from persisted
// instances. Unlike Add, restoring is not a mutation: created_at and
// updated_at come back exactly as stored.
func RestoreProviderInstances(insts []*ProviderInstance) *ProviderInstances {
	c := NewProviderInstances()
	for _, inst := range insts {
		c.instances[inst.ID] = inst
	}
	return c
}

// Add inserts a new instance, failing on id collision.
func (c *ProviderInstances) Add(inst *ProviderInstance) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.instances[inst.ID]; exists {
		return errors.ConflictError{
			Resource:   "instance",
			ID:         inst.ID,
			Message:    "instance id already exists",
			Suggestion: "Use a different id, or replace the existing instance explicitly",
		}
	}
	c.insertLocked(inst)
	return nil
}

// AddOrReplace inserts an instance, replacing any existing instance
// with the same id wholesale.
func (c *ProviderInstances) AddOrReplace(inst *ProviderInstance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.insertLocked(inst)
}

func (c *ProviderInstances) insertLocked(inst *ProviderInstance) {
	now := time.Now().UTC()
	if inst.CreatedAt.IsZero() {
		inst.CreatedAt = now
	}
	inst.UpdatedAt = now
	c.instances[inst.ID] = inst
}

// Remove deletes an instance by id.
func (c *ProviderInstances) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.instances[id]; !exists {
		return errors.NotFoundError{Resource: "instance", ID: id}
	}
	delete(c.instances, id)
	return nil
}

// Get looks up an instance by id.
func (c *ProviderInstances) Get(id string) (*ProviderInstance, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inst, ok := c.instances[id]
	return inst, ok
}

// SetActive flips the active flag on an instance.
func (c *ProviderInstances) SetActive(id string, active bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	inst, exists := c.instances[id]
	if !exists {
		return errors.NotFoundError{Resource: "instance", ID: id}
	}
	inst.Active = active
	inst.UpdatedAt = time.Now().UTC()
	return nil
}

// All returns every instance sorted by id.
func (c *ProviderInstances) All() []*ProviderInstance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sortedLocked(func(*ProviderInstance) bool { return true })
}

// ByType returns instances of one provider type, sorted by id.
func (c *ProviderInstances) ByType(providerType string) []*ProviderInstance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sortedLocked(func(p *ProviderInstance) bool { return p.ProviderType == providerType })
}

// Active returns active instances sorted by id.
func (c *ProviderInstances) Active() []*ProviderInstance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sortedLocked(func(p *ProviderInstance) bool { return p.Active })
}

func (c *ProviderInstances) sortedLocked(keep func(*ProviderInstance) bool) []*ProviderInstance {
	out := make([]*ProviderInstance, 0, len(c.instances))
	for _, inst := range c.instances {
		if keep(inst) {
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns all instance ids, sorted.
func (c *ProviderInstances) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.instances))
	for id := range c.instances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of instances.
func (c *ProviderInstances) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.instances)
}

// Clear removes every instance.
func (c *ProviderInstances) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances = make(map[string]*ProviderInstance)
}

// Validate collects every violation across all instances. It never
// stops at the first problem.
func (c *ProviderInstances) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var verrs errors.ValidationErrors
	for _, id := range c.sortedIDsLocked() {
		c.instances[id].validateInto(&verrs)
	}
	return verrs.ErrOrNil()
}

func (c *ProviderInstances) sortedIDsLocked() []string {
	ids := make([]string, 0, len(c.instances))
	for id := range c.instances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Merge folds other into the receiver. An id present in both is
// replaced wholesale by the incoming instance; no field-level union.
// Incoming instances keep their own timestamps.
func (c *ProviderInstances) Merge(other *ProviderInstances) {
	if other == nil {
		return
	}

	incoming := other.All()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, inst := range incoming {
		c.instances[inst.ID] = inst
	}
}
