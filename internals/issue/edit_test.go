package issue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchFromEdit(t *testing.T) {
	labels := []string{"bug", "ui"}
	logins := []string{"alice"}
	state := StateClosed

	p := PatchFromEdit(EditCommand{Labels: &labels, Assignees: &logins, State: &state})

	require.NotNil(t, p.Labels)
	assert.Equal(t, []Label{{Name: "bug"}, {Name: "ui"}}, *p.Labels)
	require.NotNil(t, p.Assignees)
	assert.Equal(t, []User{{Login: "alice"}}, *p.Assignees)
	require.NotNil(t, p.State)
	assert.Equal(t, StateClosed, *p.State)
}

func TestPatchFromEdit_OnlyState(t *testing.T) {
	state := StateOpen
	p := PatchFromEdit(EditCommand{State: &state})

	assert.Nil(t, p.Labels)
	assert.Nil(t, p.Assignees)
	require.NotNil(t, p.State)
	assert.Equal(t, StateOpen, *p.State)
}

func TestEditCommand_IsEmpty(t *testing.T) {
	assert.True(t, EditCommand{}.IsEmpty())
	state := StateOpen
	assert.False(t, EditCommand{State: &state}.IsEmpty())
}

func TestLocalStatePatch_ApplyAndRevert(t *testing.T) {
	prev := Issue{
		Number:    7,
		State:     StateOpen,
		Labels:    []Label{{Name: "bug"}},
		Assignees: []User{{Login: "bob"}},
	}
	labels := []Label{{Name: "bug"}, {Name: "ui"}}
	p := LocalStatePatch{Labels: &labels}

	applied := p.Apply(prev)
	assert.Equal(t, labels, applied.Labels)
	assert.Equal(t, prev.Assignees, applied.Assignees)
	assert.Equal(t, StateOpen, applied.State)
	assert.Len(t, prev.Labels, 1, "Apply must not mutate its input")

	// An unrelated field changed after the patch survives the revert.
	closed := StateClosed
	applied = LocalStatePatch{State: &closed}.Apply(applied)

	reverted := p.Revert(applied, prev)
	assert.Equal(t, prev.Labels, reverted.Labels)
	assert.Equal(t, StateClosed, reverted.State)
}
