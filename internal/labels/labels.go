package labels

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aicred/aicred/internal/errors"
)

// Label is an exclusive classification slot: unique by name across
// the repository, and a target holds at most one label at a time.
type Label struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Color       string    `yaml:"color,omitempty" json:"color,omitempty"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
}

// LabelAssignment binds a target to its single label.
type LabelAssignment struct {
	ID         string    `yaml:"id" json:"id"`
	LabelName  string    `yaml:"label_name" json:"label_name"`
	InstanceID string    `yaml:"instance_id" json:"instance_id"`
	ModelID    string    `yaml:"model_id,omitempty" json:"model_id,omitempty"`
	AssignedAt time.Time `yaml:"assigned_at" json:"assigned_at"`
}

// LabelRepo owns label definitions (keyed by name) and assignments.
type LabelRepo struct {
	mu          sync.RWMutex
	labels      map[string]*Label
	assignments []LabelAssignment
}

// NewLabelRepo creates an empty label repository.
func NewLabelRepo() *LabelRepo {
	return &LabelRepo{labels: make(map[string]*Label)}
}

// RestoreLabelRepo rebuilds a repository from persisted definitions
// and assignments, keeping their original ids and timestamps.
func RestoreLabelRepo(defs []Label, assignments []LabelAssignment) *LabelRepo {
	r := NewLabelRepo()
	for i := range defs {
		label := defs[i]
		r.labels[label.Name] = &label
	}
	r.assignments = append(r.assignments, assignments...)
	return r
}

// AddLabel inserts a label definition, failing when the name exists.
func (r *LabelRepo) AddLabel(label Label) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.labels[label.Name]; exists {
		return errors.ConflictError{
			Resource:   "label",
			ID:         label.Name,
			Message:    "label name already exists",
			Suggestion: "Label names are unique; pick another name or reuse the existing label",
		}
	}
	if label.ID == "" {
		label.ID = uuid.NewString()
	}
	if label.CreatedAt.IsZero() {
		label.CreatedAt = time.Now().UTC()
	}
	r.labels[label.Name] = &label
	return nil
}

// RemoveLabel deletes a label definition and cascades to assignments.
func (r *LabelRepo) RemoveLabel(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.labels[name]; !exists {
		return errors.NotFoundError{Resource: "label", ID: name}
	}
	delete(r.labels, name)

	kept := r.assignments[:0]
	for _, a := range r.assignments {
		if a.LabelName != name {
			kept = append(kept, a)
		}
	}
	r.assignments = kept
	return nil
}

// Get looks up a label definition by name.
func (r *LabelRepo) Get(name string) (*Label, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	label, ok := r.labels[name]
	return label, ok
}

// Labels returns all definitions sorted by name.
func (r *LabelRepo) Labels() []Label {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Label, 0, len(r.labels))
	for _, label := range r.labels {
		out = append(out, *label)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Assign binds a label to a target, superseding any existing label on
// that exact target. A reader never observes two labels on one target.
func (r *LabelRepo) Assign(labelName string, target Target) (*LabelAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.labels[labelName]; !exists {
		return nil, errors.NotFoundError{
			Resource:   "label",
			ID:         labelName,
			Suggestion: "Define the label first with AddLabel",
		}
	}

	kept := r.assignments[:0]
	for _, a := range r.assignments {
		if a.InstanceID == target.InstanceID && a.ModelID == target.ModelID {
			continue // superseded
		}
		kept = append(kept, a)
	}
	r.assignments = kept

	assignment := LabelAssignment{
		ID:         uuid.NewString(),
		LabelName:  labelName,
		InstanceID: target.InstanceID,
		ModelID:    target.ModelID,
		AssignedAt: time.Now().UTC(),
	}
	r.assignments = append(r.assignments, assignment)
	return &assignment, nil
}

// Unassign removes the label from a target, if any.
func (r *LabelRepo) Unassign(target Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.assignments {
		if a.InstanceID == target.InstanceID && a.ModelID == target.ModelID {
			r.assignments = append(r.assignments[:i], r.assignments[i+1:]...)
			return nil
		}
	}
	return errors.NotFoundError{Resource: "label assignment", ID: target.InstanceID}
}

// LabelFor returns the label currently assigned to a target.
func (r *LabelRepo) LabelFor(target Target) (*Label, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.assignments {
		if a.InstanceID == target.InstanceID && a.ModelID == target.ModelID {
			label, ok := r.labels[a.LabelName]
			return label, ok
		}
	}
	return nil, false
}

// Assignments returns every assignment in insertion order.
func (r *LabelRepo) Assignments() []LabelAssignment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]LabelAssignment(nil), r.assignments...)
}

// Clear removes all labels and assignments.
func (r *LabelRepo) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels = make(map[string]*Label)
	r.assignments = nil
}
