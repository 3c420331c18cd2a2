package engine

import (
	"errors"
	"testing"
)

func testCollection() Collection {
	return Collection{
		{Title: "A", Author: "AA", Genre: "Fantasy", PublishedYear: 1990, ISBN: "1"},
		{Title: "B", Author: "BB", Genre: "Mystery", PublishedYear: 2000, ISBN: "2"},
		{Title: "C", Author: "CC", Genre: "Fantasy", PublishedYear: 2010, ISBN: "3"},
	}
}

func TestTracker_RecordEdit(t *testing.T) {
	tr := NewTracker(testCollection())

	if err := tr.RecordEdit(0, ColTitle, "Z"); err != nil {
		t.Fatalf("RecordEdit() error = %v", err)
	}

	if !tr.IsRecordModified(0) {
		t.Error("IsRecordModified(0) = false, want true")
	}
	if tr.IsRecordModified(1) {
		t.Error("IsRecordModified(1) = true, want false")
	}
	if !tr.IsFieldModified(0, ColTitle) {
		t.Error("IsFieldModified(0, Title) = false, want true")
	}
	if tr.IsFieldModified(0, ColAuthor) {
		t.Error("IsFieldModified(0, Author) = true, want false")
	}
	if got := tr.ModifiedCount(); got != 1 {
		t.Errorf("ModifiedCount() = %d, want 1", got)
	}
	if tr.Current()[0].Title != "Z" {
		t.Errorf("Current()[0].Title = %q, want %q", tr.Current()[0].Title, "Z")
	}
	if tr.Original()[0].Title != "A" {
		t.Errorf("Original()[0].Title = %q, want %q (original must never mutate)", tr.Original()[0].Title, "A")
	}
}

func TestTracker_RevertRemovesDelta(t *testing.T) {
	tr := NewTracker(testCollection())

	tr.RecordEdit(1, ColAuthor, "edited")
	if !tr.IsRecordModified(1) {
		t.Fatal("IsRecordModified(1) = false after edit, want true")
	}

	// Editing the field back to its original value restores the invariant.
	tr.RecordEdit(1, ColAuthor, "BB")
	if tr.IsRecordModified(1) {
		t.Error("IsRecordModified(1) = true after revert, want false")
	}
	if got := tr.ModifiedCount(); got != 0 {
		t.Errorf("ModifiedCount() = %d, want 0", got)
	}
}

func TestTracker_RevertOneFieldKeepsOtherDelta(t *testing.T) {
	tr := NewTracker(testCollection())

	tr.RecordEdit(2, ColTitle, "X")
	tr.RecordEdit(2, ColISBN, "999")
	tr.RecordEdit(2, ColTitle, "C") // revert title, ISBN still edited

	if !tr.IsRecordModified(2) {
		t.Error("IsRecordModified(2) = false, want true while ISBN differs")
	}
	if tr.IsFieldModified(2, ColTitle) {
		t.Error("IsFieldModified(2, Title) = true after revert, want false")
	}
	if !tr.IsFieldModified(2, ColISBN) {
		t.Error("IsFieldModified(2, ISBN) = false, want true")
	}
}

func TestTracker_YearEditCoercion(t *testing.T) {
	tr := NewTracker(testCollection())

	tr.RecordEdit(0, ColPublishedYear, "not a year")
	if got := tr.Current()[0].PublishedYear; got != 0 {
		t.Errorf("PublishedYear = %d, want 0 (coercion default)", got)
	}
	if !tr.IsRecordModified(0) {
		t.Error("IsRecordModified(0) = false, want true (1990 -> 0)")
	}
}

func TestTracker_Errors(t *testing.T) {
	tr := NewTracker(testCollection())

	if err := tr.RecordEdit(99, ColTitle, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RecordEdit(99) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := tr.RecordEdit(-1, ColTitle, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RecordEdit(-1) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := tr.RecordEdit(0, "Publisher", "x"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("RecordEdit(bad column) error = %v, want ErrUnknownColumn", err)
	}
	if tr.ModifiedCount() != 0 {
		t.Errorf("ModifiedCount() = %d after failed edits, want 0", tr.ModifiedCount())
	}
}

func TestTracker_Reset(t *testing.T) {
	original := testCollection()
	tr := NewTracker(original)

	tr.RecordEdit(0, ColTitle, "Z")
	tr.RecordEdit(1, ColGenre, "Horror")
	tr.Reset()

	if got := tr.ModifiedCount(); got != 0 {
		t.Errorf("ModifiedCount() = %d after reset, want 0", got)
	}
	for i := range original {
		if tr.Current()[i] != original[i] {
			t.Errorf("Current()[%d] = %+v, want original %+v", i, tr.Current()[i], original[i])
		}
	}
}

func TestTracker_ModifiedColumns(t *testing.T) {
	tr := NewTracker(testCollection())

	if got := tr.ModifiedColumns(0); got != nil {
		t.Errorf("ModifiedColumns(0) = %v, want nil", got)
	}

	tr.RecordEdit(0, ColISBN, "x")
	tr.RecordEdit(0, ColTitle, "y")

	got := tr.ModifiedColumns(0)
	want := []string{ColTitle, ColISBN} // header order
	if len(got) != len(want) {
		t.Fatalf("ModifiedColumns(0) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ModifiedColumns(0)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
