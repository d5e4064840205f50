// Package labels provides the two classification mechanisms over
// configured instances and models: non-exclusive tags and exclusive
// labels. The two repositories share the assignment shape but enforce
// different uniqueness rules.
package labels

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aicred/aicred/internal/errors"
)

// Target identifies what a tag or label is attached to. An empty
// ModelID means the assignment is instance-level.
type Target struct {
	InstanceID string `yaml:"instance_id" json:"instance_id"`
	ModelID    string `yaml:"model_id,omitempty" json:"model_id,omitempty"`
}

// Tag is a non-exclusive marker: any number of tags per target, any
// number of targets per tag.
type Tag struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Color       string    `yaml:"color,omitempty" json:"color,omitempty"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
}

// TagAssignment is one (tag, target) edge in the many-to-many join.
type TagAssignment struct {
	ID         string    `yaml:"id" json:"id"`
	TagID      string    `yaml:"tag_id" json:"tag_id"`
	InstanceID string    `yaml:"instance_id" json:"instance_id"`
	ModelID    string    `yaml:"model_id,omitempty" json:"model_id,omitempty"`
	AssignedAt time.Time `yaml:"assigned_at" json:"assigned_at"`
}

// TagRepo owns tag definitions and their assignments.
type TagRepo struct {
	mu          sync.RWMutex
	tags        map[string]*Tag
	assignments []TagAssignment
}

// NewTagRepo creates an empty tag repository.
func NewTagRepo() *TagRepo {
	return &TagRepo{tags: make(map[string]*Tag)}
}

// RestoreTagRepo rebuilds a repository from persisted definitions and
// assignments, keeping their original ids and timestamps.
func RestoreTagRepo(tags []Tag, assignments []TagAssignment) *TagRepo {
	r := NewTagRepo()
	for i := range tags {
		tag := tags[i]
		r.tags[tag.ID] = &tag
	}
	r.assignments = append(r.assignments, assignments...)
	return r
}

// AddTag inserts a tag definition, failing on id collision.
func (r *TagRepo) AddTag(tag Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tags[tag.ID]; exists {
		return errors.ConflictError{Resource: "tag", ID: tag.ID, Message: "tag id already exists"}
	}
	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = time.Now().UTC()
	}
	r.tags[tag.ID] = &tag
	return nil
}

// RemoveTag deletes a tag and cascades to its assignments.
func (r *TagRepo) RemoveTag(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tags[id]; !exists {
		return errors.NotFoundError{Resource: "tag", ID: id}
	}
	delete(r.tags, id)

	kept := r.assignments[:0]
	for _, a := range r.assignments {
		if a.TagID != id {
			kept = append(kept, a)
		}
	}
	r.assignments = kept
	return nil
}

// Get looks up a tag definition by id.
func (r *TagRepo) Get(id string) (*Tag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tag, ok := r.tags[id]
	return tag, ok
}

// Tags returns all tag definitions sorted by id.
func (r *TagRepo) Tags() []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tag, 0, len(r.tags))
	for _, tag := range r.tags {
		out = append(out, *tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Assign attaches a tag to a target. A duplicate (tag, target) pair
// is rejected; distinct tags on the same target are fine.
func (r *TagRepo) Assign(tagID string, target Target) (*TagAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tags[tagID]; !exists {
		return nil, errors.NotFoundError{Resource: "tag", ID: tagID}
	}
	for _, a := range r.assignments {
		if a.TagID == tagID && a.InstanceID == target.InstanceID && a.ModelID == target.ModelID {
			return nil, errors.ConflictError{
				Resource: "tag assignment",
				ID:       tagID,
				Message:  "tag is already assigned to this target",
			}
		}
	}

	assignment := TagAssignment{
		ID:         uuid.NewString(),
		TagID:      tagID,
		InstanceID: target.InstanceID,
		ModelID:    target.ModelID,
		AssignedAt: time.Now().UTC(),
	}
	r.assignments = append(r.assignments, assignment)
	return &assignment, nil
}

// Unassign removes one (tag, target) edge.
func (r *TagRepo) Unassign(tagID string, target Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.assignments {
		if a.TagID == tagID && a.InstanceID == target.InstanceID && a.ModelID == target.ModelID {
			r.assignments = append(r.assignments[:i], r.assignments[i+1:]...)
			return nil
		}
	}
	return errors.NotFoundError{Resource: "tag assignment", ID: tagID}
}

// TagsFor returns the tags attached to a target, sorted by id.
func (r *TagRepo) TagsFor(target Target) []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Tag
	for _, a := range r.assignments {
		if a.InstanceID == target.InstanceID && a.ModelID == target.ModelID {
			if tag, ok := r.tags[a.TagID]; ok {
				out = append(out, *tag)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Assignments returns every assignment in insertion order.
func (r *TagRepo) Assignments() []TagAssignment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]TagAssignment(nil), r.assignments...)
}

// Clear removes all tags and assignments.
func (r *TagRepo) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags = make(map[string]*Tag)
	r.assignments = nil
}
