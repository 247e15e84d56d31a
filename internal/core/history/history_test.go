package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s := New("initial")

	assert.Equal(t, "initial", s.Current())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.Cursor())
	assert.False(t, s.IsEdited())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
	assert.False(t, s.Dirty())
}

func TestCommit_IdenticalTextIsNoop(t *testing.T) {
	s := New("a")

	require.True(t, s.Commit("b"))
	assert.False(t, s.Commit("b"))
	assert.False(t, s.Commit("b"))
	assert.Equal(t, 2, s.Len())

	assert.False(t, New("a").Commit("a"), "initial text does not commit")
}

func TestUndoRedo_RestoresFinalText(t *testing.T) {
	for _, n := range []int{1, 2, 5, 20} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			s := New("v0")
			for i := 1; i <= n; i++ {
				require.True(t, s.Commit(fmt.Sprintf("v%d", i)))
			}
			final := s.Current()

			for range n - 1 {
				_, ok := s.Undo()
				require.True(t, ok)
			}
			for range n - 1 {
				_, ok := s.Redo()
				require.True(t, ok)
			}

			assert.Equal(t, final, s.Current())
			assert.False(t, s.CanRedo())
		})
	}
}

func TestCommit_AfterUndoTruncatesRedo(t *testing.T) {
	s := New("a")
	s.Commit("b")
	s.Commit("c")

	got, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, "b", got)
	assert.True(t, s.CanRedo())

	require.True(t, s.Commit("d"))
	assert.False(t, s.CanRedo())
	assert.Equal(t, []string{"a", "b", "d"}, s.Snapshots())
	assert.Equal(t, 2, s.Cursor())
}

func TestUndo_AtStart(t *testing.T) {
	s := New("a")

	got, ok := s.Undo()
	assert.False(t, ok)
	assert.Equal(t, "a", got)

	got, ok = s.Redo()
	assert.False(t, ok)
	assert.Equal(t, "a", got)
}

func TestIsEdited(t *testing.T) {
	s := New("a")
	s.Commit("b")
	assert.True(t, s.IsEdited())

	s.Undo()
	assert.False(t, s.IsEdited(), "back at the initial snapshot")
	assert.Equal(t, "a", s.Initial())
}

func TestMarkDirty(t *testing.T) {
	s := New("a")
	s.MarkDirty()
	assert.True(t, s.Dirty())
	assert.Equal(t, 1, s.Len(), "raw edits do not create entries")
}

func TestSnapshots_IsCopy(t *testing.T) {
	s := New("a")
	s.Commit("b")

	snaps := s.Snapshots()
	snaps[0] = "mutated"
	assert.Equal(t, "a", s.Initial())
}

func TestWithMaxDepth(t *testing.T) {
	s := New("v0", WithMaxDepth(3))
	for i := 1; i <= 5; i++ {
		s.Commit(fmt.Sprintf("v%d", i))
	}

	assert.Equal(t, []string{"v0", "v4", "v5"}, s.Snapshots())
	assert.Equal(t, 2, s.Cursor())
	assert.Equal(t, "v5", s.Current())

	s.Undo()
	s.Undo()
	assert.Equal(t, "v0", s.Current(), "initial snapshot survives trimming")
}

func TestWithMaxDepth_Unlimited(t *testing.T) {
	s := New("v0", WithMaxDepth(0))
	for i := 1; i <= 50; i++ {
		s.Commit(fmt.Sprintf("v%d", i))
	}
	assert.Equal(t, 51, s.Len())
}
