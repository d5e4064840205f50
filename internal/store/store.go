// Package store persists the configured instances and the tag/label
// repositories as two YAML documents under the user's config
// directory. Writes are atomic replacements; on any failure the prior
// document survives untouched.
package store

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aicred/aicred/internal/errors"
	"github.com/aicred/aicred/internal/labels"
	"github.com/aicred/aicred/internal/registry"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600

	instancesFile = "instances.yaml"
	labelsFile    = "labels.yaml"

	documentVersion = 1
)

// Store reads and writes the two persisted documents in one directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns the standard config location
// ($XDG_CONFIG_HOME/aicred or ~/.config/aicred).
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.IOError{Op: "locate config directory", Err: err}
	}
	return filepath.Join(base, "aicred"), nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// InstancesPath returns the instances document path.
func (s *Store) InstancesPath() string {
	return filepath.Join(s.dir, instancesFile)
}

// LabelsPath returns the labels document path.
func (s *Store) LabelsPath() string {
	return filepath.Join(s.dir, labelsFile)
}

// Exists reports whether an instances document is present. It drives
// the conflict-resolution step of the curation workflow.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.InstancesPath())
	return err == nil && info.Mode().IsRegular()
}

type instancesDocument struct {
	Version   int                                   `yaml:"version" json:"version"`
	Instances map[string]*registry.ProviderInstance `yaml:"instances" json:"instances"`
}

type labelsDocument struct {
	Version          int                      `yaml:"version" json:"version"`
	Labels           map[string]labels.Label  `yaml:"labels" json:"labels"`
	Assignments      []labels.LabelAssignment `yaml:"assignments" json:"assignments"`
	Tags             map[string]labels.Tag    `yaml:"tags,omitempty" json:"tags,omitempty"`
	TagAssignments   []labels.TagAssignment   `yaml:"tag_assignments,omitempty" json:"tag_assignments,omitempty"`
}

// SaveInstances writes the instances document.
func (s *Store) SaveInstances(collection *registry.ProviderInstances) error {
	doc := instancesDocument{
		Version:   documentVersion,
		Instances: make(map[string]*registry.ProviderInstance),
	}
	for _, inst := range collection.All() {
		doc.Instances[inst.ID] = inst
	}
	return s.writeDocument(s.InstancesPath(), doc)
}

// LoadInstances reads the instances document. A missing file yields
// an empty collection.
func (s *Store) LoadInstances() (*registry.ProviderInstances, error) {
	data, err := os.ReadFile(s.InstancesPath())
	if os.IsNotExist(err) {
		return registry.NewProviderInstances(), nil
	}
	if err != nil {
		return nil, errors.IOError{Path: s.InstancesPath(), Op: "read", Err: err}
	}

	if err := validateDocument(s.InstancesPath(), data, instancesSchema); err != nil {
		return nil, err
	}

	var doc instancesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.SerializationError{
			Format:     "yaml",
			Path:       s.InstancesPath(),
			Suggestion: "The instances document is corrupt; restore it from backup or remove it",
			Err:        err,
		}
	}

	insts := make([]*registry.ProviderInstance, 0, len(doc.Instances))
	for _, inst := range doc.Instances {
		insts = append(insts, inst)
	}
	return registry.RestoreProviderInstances(insts), nil
}

// SaveLabels writes the labels document, covering both repositories.
func (s *Store) SaveLabels(tags *labels.TagRepo, lbls *labels.LabelRepo) error {
	doc := labelsDocument{
		Version:     documentVersion,
		Labels:      make(map[string]labels.Label),
		Assignments: lbls.Assignments(),
	}
	for _, label := range lbls.Labels() {
		doc.Labels[label.Name] = label
	}
	if tags != nil {
		tagDefs := tags.Tags()
		if len(tagDefs) > 0 {
			doc.Tags = make(map[string]labels.Tag, len(tagDefs))
			for _, tag := range tagDefs {
				doc.Tags[tag.ID] = tag
			}
		}
		doc.TagAssignments = tags.Assignments()
	}
	return s.writeDocument(s.LabelsPath(), doc)
}

// LoadLabels reads the labels document. A missing file yields empty
// repositories.
func (s *Store) LoadLabels() (*labels.TagRepo, *labels.LabelRepo, error) {
	data, err := os.ReadFile(s.LabelsPath())
	if os.IsNotExist(err) {
		return labels.NewTagRepo(), labels.NewLabelRepo(), nil
	}
	if err != nil {
		return nil, nil, errors.IOError{Path: s.LabelsPath(), Op: "read", Err: err}
	}

	if err := validateDocument(s.LabelsPath(), data, labelsSchema); err != nil {
		return nil, nil, err
	}

	var doc labelsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, errors.SerializationError{
			Format:     "yaml",
			Path:       s.LabelsPath(),
			Suggestion: "The labels document is corrupt; restore it from backup or remove it",
			Err:        err,
		}
	}

	labelDefs := make([]labels.Label, 0, len(doc.Labels))
	for _, label := range doc.Labels {
		labelDefs = append(labelDefs, label)
	}
	tagDefs := make([]labels.Tag, 0, len(doc.Tags))
	for _, tag := range doc.Tags {
		tagDefs = append(tagDefs, tag)
	}

	return labels.RestoreTagRepo(tagDefs, doc.TagAssignments),
		labels.RestoreLabelRepo(labelDefs, doc.Assignments),
		nil
}

// writeDocument marshals and atomically replaces one document. The
// temp file lives in the target directory so the rename cannot cross
// filesystems.
func (s *Store) writeDocument(path string, doc interface{}) error {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return errors.IOError{
			Path:       s.dir,
			Op:         "create config directory",
			Suggestion: "Check permissions on the parent directory",
			Err:        err,
		}
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.SerializationError{Format: "yaml", Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.IOError{Path: s.dir, Op: "create temp file", Err: err}
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if err := tmp.Chmod(filePerm); err != nil {
		cleanup()
		return errors.IOError{Path: tmpName, Op: "chmod", Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return errors.IOError{Path: tmpName, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.IOError{Path: tmpName, Op: "close", Err: err}
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.IOError{Path: path, Op: "replace", Err: err}
	}
	return nil
}
