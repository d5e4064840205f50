package workflow

import (
	"errors"

	"github.com/aicred/aicred/internal/labels"
	"github.com/aicred/aicred/internal/registry"
	"github.com/aicred/aicred/pkg/keyfinder"
)

// ErrCancelled is returned by a collaborator to abort the session at
// any suspension point. The session guarantees zero persisted side
// effects on cancellation.
var ErrCancelled = errors.New("curation cancelled")

// Resolution is the collaborator's choice when persisted
// configuration already exists.
type Resolution string

const (
	// ResolutionMerge keeps existing instances and adds only the new
	// ones whose ids are not taken.
	ResolutionMerge Resolution = "merge"
	// ResolutionReplace discards all prior persisted state.
	ResolutionReplace Resolution = "replace"
	// ResolutionCancel aborts with zero writes.
	ResolutionCancel Resolution = "cancel"
)

// InstanceDraft is a provider instance under construction during the
// configuring step. Key hashes refer to values held in the session's
// vault.
type InstanceDraft struct {
	ID           string
	DisplayName  string
	ProviderType string
	BaseURL      string
	KeyHashes    []string
	Models       []registry.Model
}

// LabelChoice is one label assignment requested during labeling.
type LabelChoice struct {
	LabelName string
	Target    labels.Target
}

// Summary is what the collaborator sees before the final write.
type Summary struct {
	Instances   []*registry.ProviderInstance
	LabelCount  int
	Resolution  Resolution
	InstanceDir string
}

// Collaborator supplies the decisions the curation session suspends
// on. Implementations may be a human at a terminal or automation; an
// ErrCancelled return from any method aborts the session.
type Collaborator interface {
	// ReviewKeys returns the hashes of the keys to keep. preselected
	// holds the default selection (High and VeryHigh confidence).
	ReviewKeys(result *keyfinder.ScanResult, preselected []string) ([]string, error)

	// ConfigureInstance may adjust a draft before it becomes an
	// instance. Returning the draft unchanged accepts the defaults.
	ConfigureInstance(draft InstanceDraft) (InstanceDraft, error)

	// ChooseLabels returns label assignments for the configured
	// instances. A nil slice skips labeling entirely.
	ChooseLabels(instances []*registry.ProviderInstance) ([]LabelChoice, error)

	// ResolveExisting decides what happens to pre-existing persisted
	// configuration.
	ResolveExisting() (Resolution, error)

	// ConfirmPersist is the last gate before anything is written.
	ConfirmPersist(summary Summary) (bool, error)
}

// AutoCollaborator accepts every default: the preselected keys, the
// drafted instances, and no labels. It cannot resolve an existing
// configuration on its own; that choice must come from the caller.
type AutoCollaborator struct{}

// ReviewKeys accepts the default selection unchanged.
func (AutoCollaborator) ReviewKeys(_ *keyfinder.ScanResult, preselected []string) ([]string, error) {
	return preselected, nil
}

// ConfigureInstance accepts the draft unchanged.
func (AutoCollaborator) ConfigureInstance(draft InstanceDraft) (InstanceDraft, error) {
	return draft, nil
}

// ChooseLabels skips labeling.
func (AutoCollaborator) ChooseLabels(_ []*registry.ProviderInstance) ([]LabelChoice, error) {
	return nil, nil
}

// ResolveExisting refuses to guess; overwriting or merging persisted
// state needs an explicit instruction.
func (AutoCollaborator) ResolveExisting() (Resolution, error) {
	return ResolutionCancel, errors.New("existing configuration found: pass an explicit resolution (merge or replace) in auto-accept mode")
}

// ConfirmPersist proceeds.
func (AutoCollaborator) ConfirmPersist(Summary) (bool, error) {
	return true, nil
}
