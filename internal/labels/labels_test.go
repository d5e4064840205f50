package labels_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aicred/aicred/internal/errors"
	"github.com/aicred/aicred/internal/labels"
)

// TestTagDuplicateAssignmentRejected verifies the (tag, target) rule
func TestTagDuplicateAssignmentRejected(t *testing.T) {
	t.Parallel()

	repo := labels.NewTagRepo()
	require.NoError(t, repo.AddTag(labels.Tag{ID: "fast", Name: "Fast"}))

	target := labels.Target{InstanceID: "groq-default"}

	first, err := repo.Assign("fast", target)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.AssignedAt.IsZero())

	_, err = repo.Assign("fast", target)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
	assert.Len(t, repo.Assignments(), 1)
}

// TestTagManyPerTarget verifies tags are non-exclusive
func TestTagManyPerTarget(t *testing.T) {
	t.Parallel()

	repo := labels.NewTagRepo()
	require.NoError(t, repo.AddTag(labels.Tag{ID: "fast", Name: "Fast"}))
	require.NoError(t, repo.AddTag(labels.Tag{ID: "cheap", Name: "Cheap"}))

	target := labels.Target{InstanceID: "groq-default"}
	_, err := repo.Assign("fast", target)
	require.NoError(t, err)
	_, err = repo.Assign("cheap", target)
	require.NoError(t, err)

	tags := repo.TagsFor(target)
	require.Len(t, tags, 2)
	assert.Equal(t, "cheap", tags[0].ID)
	assert.Equal(t, "fast", tags[1].ID)
}

// TestTagTargetsDistinguishedByModel verifies instance vs model scope
func TestTagTargetsDistinguishedByModel(t *testing.T) {
	t.Parallel()

	repo := labels.NewTagRepo()
	require.NoError(t, repo.AddTag(labels.Tag{ID: "fast", Name: "Fast"}))

	instanceLevel := labels.Target{InstanceID: "groq-default"}
	modelLevel := labels.Target{InstanceID: "groq-default", ModelID: "llama-3.1-8b-instant"}

	_, err := repo.Assign("fast", instanceLevel)
	require.NoError(t, err)
	_, err = repo.Assign("fast", modelLevel)
	require.NoError(t, err, "same tag on a different target is allowed")

	assert.Len(t, repo.TagsFor(instanceLevel), 1)
	assert.Len(t, repo.TagsFor(modelLevel), 1)
}

// TestTagDuplicateDefinitionRejected verifies tag id uniqueness
func TestTagDuplicateDefinitionRejected(t *testing.T) {
	t.Parallel()

	repo := labels.NewTagRepo()
	require.NoError(t, repo.AddTag(labels.Tag{ID: "fast", Name: "Fast"}))
	err := repo.AddTag(labels.Tag{ID: "fast", Name: "Other"})
	assert.True(t, errors.IsConflict(err))
}

// TestRemoveTagCascades verifies assignments go with their tag
func TestRemoveTagCascades(t *testing.T) {
	t.Parallel()

	repo := labels.NewTagRepo()
	require.NoError(t, repo.AddTag(labels.Tag{ID: "fast", Name: "Fast"}))
	_, err := repo.Assign("fast", labels.Target{InstanceID: "a"})
	require.NoError(t, err)
	_, err = repo.Assign("fast", labels.Target{InstanceID: "b"})
	require.NoError(t, err)

	require.NoError(t, repo.RemoveTag("fast"))
	assert.Empty(t, repo.Assignments())
	assert.True(t, errors.IsNotFound(repo.RemoveTag("fast")))
}

// TestTagUnassign verifies single-edge removal
func TestTagUnassign(t *testing.T) {
	t.Parallel()

	repo := labels.NewTagRepo()
	require.NoError(t, repo.AddTag(labels.Tag{ID: "fast", Name: "Fast"}))
	target := labels.Target{InstanceID: "a"}
	_, err := repo.Assign("fast", target)
	require.NoError(t, err)

	require.NoError(t, repo.Unassign("fast", target))
	assert.Empty(t, repo.TagsFor(target))
	assert.True(t, errors.IsNotFound(repo.Unassign("fast", target)))
}

// TestLabelNameUnique verifies label definition uniqueness by name
func TestLabelNameUnique(t *testing.T) {
	t.Parallel()

	repo := labels.NewLabelRepo()
	require.NoError(t, repo.AddLabel(labels.Label{Name: "production"}))

	err := repo.AddLabel(labels.Label{Name: "production"})
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

// TestLabelAssignmentSupersedes verifies at most one label per target
func TestLabelAssignmentSupersedes(t *testing.T) {
	t.Parallel()

	repo := labels.NewLabelRepo()
	require.NoError(t, repo.AddLabel(labels.Label{Name: "production"}))
	require.NoError(t, repo.AddLabel(labels.Label{Name: "staging"}))

	target := labels.Target{InstanceID: "openai-default"}

	_, err := repo.Assign("production", target)
	require.NoError(t, err)
	_, err = repo.Assign("staging", target)
	require.NoError(t, err)

	assignments := repo.Assignments()
	require.Len(t, assignments, 1, "old assignment removed, exactly one remains")
	assert.Equal(t, "staging", assignments[0].LabelName)

	label, ok := repo.LabelFor(target)
	require.True(t, ok)
	assert.Equal(t, "staging", label.Name)
}

// TestLabelDistinctTargetsIndependent verifies per-target exclusivity
func TestLabelDistinctTargetsIndependent(t *testing.T) {
	t.Parallel()

	repo := labels.NewLabelRepo()
	require.NoError(t, repo.AddLabel(labels.Label{Name: "production"}))

	_, err := repo.Assign("production", labels.Target{InstanceID: "a"})
	require.NoError(t, err)
	_, err = repo.Assign("production", labels.Target{InstanceID: "a", ModelID: "gpt-4o"})
	require.NoError(t, err)

	assert.Len(t, repo.Assignments(), 2, "instance-level and model-level targets are distinct")
}

// TestLabelAssignUnknownName verifies definitions must exist first
func TestLabelAssignUnknownName(t *testing.T) {
	t.Parallel()

	repo := labels.NewLabelRepo()
	_, err := repo.Assign("nope", labels.Target{InstanceID: "a"})
	assert.True(t, errors.IsNotFound(err))
}

// TestLabelUnassignAndRemove verifies removal paths
func TestLabelUnassignAndRemove(t *testing.T) {
	t.Parallel()

	repo := labels.NewLabelRepo()
	require.NoError(t, repo.AddLabel(labels.Label{Name: "production"}))
	target := labels.Target{InstanceID: "a"}
	_, err := repo.Assign("production", target)
	require.NoError(t, err)

	require.NoError(t, repo.Unassign(target))
	_, ok := repo.LabelFor(target)
	assert.False(t, ok)

	_, err = repo.Assign("production", target)
	require.NoError(t, err)
	require.NoError(t, repo.RemoveLabel("production"))
	assert.Empty(t, repo.Assignments(), "removing a label cascades to assignments")
}

// TestClearRepos verifies bulk teardown
func TestClearRepos(t *testing.T) {
	t.Parallel()

	tags := labels.NewTagRepo()
	require.NoError(t, tags.AddTag(labels.Tag{ID: "t", Name: "T"}))
	tags.Clear()
	assert.Empty(t, tags.Tags())

	lbls := labels.NewLabelRepo()
	require.NoError(t, lbls.AddLabel(labels.Label{Name: "l"}))
	lbls.Clear()
	assert.Empty(t, lbls.Labels())
}
