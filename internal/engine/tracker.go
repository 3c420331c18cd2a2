package engine

// Tracker maintains the relationship between the originally loaded
// collection and the current, edited one. It answers "is this record or
// field modified" in O(1) via a delta set keyed by record index.
//
// Invariant: index i is in the delta set iff some column of current[i]
// differs from original[i]. Every single-field edit restores the
// invariant, so an edit that reverts the last changed field removes the
// record from the set.
type Tracker struct {
	original Collection
	current  Collection
	deltas   map[int]struct{}
}

// NewTracker seeds a tracker from a freshly loaded collection. The
// original is retained as-is and never mutated; current starts as a copy.
func NewTracker(original Collection) *Tracker {
	return &Tracker{
		original: original,
		current:  original.Clone(),
		deltas:   make(map[int]struct{}),
	}
}

// Original returns the immutable originally loaded collection.
func (t *Tracker) Original() Collection { return t.original }

// Current returns the live, edited collection. Callers must treat it as
// read-only; all mutation goes through RecordEdit.
func (t *Tracker) Current() Collection { return t.current }

// Len returns the record count (identical for original and current).
func (t *Tracker) Len() int { return len(t.current) }

// RecordEdit sets current[index][column] = value, then restores the delta
// invariant for that index. Cost is a fixed number of field comparisons,
// independent of collection size.
func (t *Tracker) RecordEdit(index int, column, value string) error {
	if index < 0 || index >= len(t.current) {
		return ErrIndexOutOfRange
	}
	if err := t.current[index].SetField(column, value); err != nil {
		return err
	}

	if t.current[index].Equal(t.original[index]) {
		delete(t.deltas, index)
	} else {
		t.deltas[index] = struct{}{}
	}
	return nil
}

// IsRecordModified reports whether any field of the record at index
// differs from the original.
func (t *Tracker) IsRecordModified(index int) bool {
	_, ok := t.deltas[index]
	return ok
}

// IsFieldModified reports whether the named field at index differs from
// the original. Unknown columns and out-of-range indices report false.
func (t *Tracker) IsFieldModified(index int, column string) bool {
	if index < 0 || index >= len(t.current) {
		return false
	}
	cur, ok := t.current[index].Field(column)
	if !ok {
		return false
	}
	orig, _ := t.original[index].Field(column)
	return cur != orig
}

// ModifiedColumns returns the columns at index whose current value differs
// from the original, in header order. Nil when the record is unmodified.
func (t *Tracker) ModifiedColumns(index int) []string {
	if !t.IsRecordModified(index) {
		return nil
	}
	var cols []string
	for _, col := range Columns {
		if t.IsFieldModified(index, col) {
			cols = append(cols, col)
		}
	}
	return cols
}

// ModifiedCount returns the number of records with at least one edit.
func (t *Tracker) ModifiedCount() int { return len(t.deltas) }

// Reset discards all edits: current becomes a fresh copy of original and
// the delta set empties.
func (t *Tracker) Reset() {
	t.current = t.original.Clone()
	t.deltas = make(map[int]struct{})
}
