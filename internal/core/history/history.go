// Package history keeps the linear undo/redo history of an edit buffer.
//
// The history is a list of whole-buffer snapshots with a cursor. Entry zero is
// always the initial reconstruction; committing while the cursor is not at the
// tail discards the redo tail.
package history

// Store holds the snapshots of one buffer. The zero value is not usable; call
// New. A Store is not safe for concurrent use.
type Store struct {
	snapshots []string
	cursor    int
	dirty     bool
	maxDepth  int
}

// Option configures a Store.
type Option func(*Store)

// WithMaxDepth bounds the number of snapshots kept, including the initial one.
// Values below 2 mean unlimited.
func WithMaxDepth(n int) Option {
	return func(s *Store) {
		if n >= 2 {
			s.maxDepth = n
		}
	}
}

// New creates a Store whose only snapshot is initial.
func New(initial string, opts ...Option) *Store {
	s := &Store{snapshots: []string{initial}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MarkDirty records that a raw edit happened. The flag never resets.
func (s *Store) MarkDirty() {
	s.dirty = true
}

// Dirty reports whether MarkDirty was ever called.
func (s *Store) Dirty() bool {
	return s.dirty
}

// Commit appends text as a new snapshot after the cursor. Text equal to the
// current snapshot is ignored. It reports whether an entry was added.
func (s *Store) Commit(text string) bool {
	if text == s.snapshots[s.cursor] {
		return false
	}

	s.snapshots = append(s.snapshots[:s.cursor+1], text)
	s.cursor = len(s.snapshots) - 1
	s.trim()
	return true
}

// trim drops the oldest non-initial snapshots beyond the maximum depth.
func (s *Store) trim() {
	if s.maxDepth == 0 || len(s.snapshots) <= s.maxDepth {
		return
	}
	drop := len(s.snapshots) - s.maxDepth
	kept := make([]string, 0, s.maxDepth)
	kept = append(kept, s.snapshots[0])
	kept = append(kept, s.snapshots[1+drop:]...)
	s.snapshots = kept
	s.cursor = max(s.cursor-drop, 0)
}

// Undo moves the cursor back one snapshot and returns it.
func (s *Store) Undo() (string, bool) {
	if !s.CanUndo() {
		return s.Current(), false
	}
	s.cursor--
	return s.Current(), true
}

// Redo moves the cursor forward one snapshot and returns it.
func (s *Store) Redo() (string, bool) {
	if !s.CanRedo() {
		return s.Current(), false
	}
	s.cursor++
	return s.Current(), true
}

// Current returns the snapshot at the cursor.
func (s *Store) Current() string {
	return s.snapshots[s.cursor]
}

// Initial returns the first snapshot.
func (s *Store) Initial() string {
	return s.snapshots[0]
}

// IsEdited reports whether the cursor is past the initial snapshot.
func (s *Store) IsEdited() bool {
	return s.cursor > 0
}

func (s *Store) CanUndo() bool {
	return s.cursor > 0
}

func (s *Store) CanRedo() bool {
	return s.cursor < len(s.snapshots)-1
}

// Len returns the number of snapshots.
func (s *Store) Len() int {
	return len(s.snapshots)
}

// Cursor returns the index of the current snapshot.
func (s *Store) Cursor() int {
	return s.cursor
}

// Snapshots returns a copy of all snapshots.
func (s *Store) Snapshots() []string {
	out := make([]string, len(s.snapshots))
	copy(out, s.snapshots)
	return out
}
