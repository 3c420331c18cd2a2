package engine

import (
	"errors"
	"strings"
	"testing"
)

const sessionCSV = "Title,Author,Genre,PublishedYear,ISBN\n" +
	"A,AA,Fantasy,1990,1\n" +
	"B,BB,Mystery,2000,2\n"

func loadedSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(DefaultOptions())
	if _, err := s.Load(strings.NewReader(sessionCSV)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s
}

func TestSession_LoadSeedsState(t *testing.T) {
	s := loadedSession(t)

	stats := s.Stats()
	if stats.TotalRecords != 2 {
		t.Errorf("TotalRecords = %d, want 2", stats.TotalRecords)
	}
	if stats.ModifiedCount != 0 {
		t.Errorf("ModifiedCount = %d, want 0", stats.ModifiedCount)
	}
	if stats.Page != 1 {
		t.Errorf("Page = %d, want 1", stats.Page)
	}
	if stats.Filter != DefaultFilter() {
		t.Errorf("Filter = %+v, want default", stats.Filter)
	}
	if stats.LastLoad.Rows != 2 {
		t.Errorf("LastLoad.Rows = %d, want 2", stats.LastLoad.Rows)
	}
}

// The worked example from the edit-tracking model: edit, modified-only
// filter, reset.
func TestSession_EditFilterResetScenario(t *testing.T) {
	s := loadedSession(t)

	if err := s.EditCell(0, ColTitle, "Z"); err != nil {
		t.Fatalf("EditCell() error = %v", err)
	}

	if !s.IsRecordModified(0) {
		t.Error("IsRecordModified(0) = false, want true")
	}
	if s.IsRecordModified(1) {
		t.Error("IsRecordModified(1) = true, want false")
	}

	f := DefaultFilter()
	f.ModifiedOnly = true
	s.SetFilter(f)

	page := s.CurrentPage()
	if page.FilteredCount != 1 {
		t.Fatalf("FilteredCount = %d, want 1", page.FilteredCount)
	}
	if page.Records[0].Index != 0 {
		t.Errorf("Records[0].Index = %d, want 0", page.Records[0].Index)
	}
	if page.Records[0].Record.Title != "Z" {
		t.Errorf("Title = %q, want %q", page.Records[0].Record.Title, "Z")
	}

	s.ResetEdits()
	if got := s.ModifiedCount(); got != 0 {
		t.Errorf("ModifiedCount() = %d after reset, want 0", got)
	}
	s.SetFilter(DefaultFilter())
	page = s.CurrentPage()
	if page.Records[0].Record.Title != "A" {
		t.Errorf("Title = %q after reset, want %q", page.Records[0].Record.Title, "A")
	}
}

func TestSession_LoadFailureKeepsState(t *testing.T) {
	s := loadedSession(t)
	s.EditCell(0, ColTitle, "Z")

	if _, err := s.Load(strings.NewReader("no,usable,header\n1,2,3\n")); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("Load() error = %v, want ErrNoHeader", err)
	}

	// Prior session survives the failed load, edits included.
	if got := s.TotalRecords(); got != 2 {
		t.Errorf("TotalRecords() = %d, want 2", got)
	}
	if !s.IsRecordModified(0) {
		t.Error("IsRecordModified(0) = false, want true (edit preserved)")
	}
}

func TestSession_GenerateSample(t *testing.T) {
	s := NewSession(DefaultOptions())

	n, err := s.GenerateSample(40)
	if err != nil {
		t.Fatalf("GenerateSample() error = %v", err)
	}
	if n != 40 {
		t.Errorf("n = %d, want 40", n)
	}
	if got := s.TotalRecords(); got != 40 {
		t.Errorf("TotalRecords() = %d, want 40", got)
	}

	if _, err := s.GenerateSample(0); !errors.Is(err, ErrCountOutOfRange) {
		t.Errorf("GenerateSample(0) error = %v, want ErrCountOutOfRange", err)
	}
	if _, err := s.GenerateSample(DefaultOptions().MaxGenerateCount + 1); !errors.Is(err, ErrCountOutOfRange) {
		t.Errorf("GenerateSample(max+1) error = %v, want ErrCountOutOfRange", err)
	}
}

func TestSession_GenerateReplacesEdits(t *testing.T) {
	s := loadedSession(t)
	s.EditCell(0, ColTitle, "Z")

	if _, err := s.GenerateSample(5); err != nil {
		t.Fatalf("GenerateSample() error = %v", err)
	}
	if got := s.ModifiedCount(); got != 0 {
		t.Errorf("ModifiedCount() = %d after new load, want 0", got)
	}
	if got := len(s.History(0)); got != 0 {
		t.Errorf("len(History()) = %d after new load, want 0", got)
	}
}

func TestSession_PageSize(t *testing.T) {
	s := NewSession(DefaultOptions())
	s.GenerateSample(100)
	s.SetPage(4) // valid for size 25

	if err := s.SetPageSize(7); !errors.Is(err, ErrPageSizeNotAllowed) {
		t.Errorf("SetPageSize(7) error = %v, want ErrPageSizeNotAllowed", err)
	}

	if err := s.SetPageSize(50); err != nil {
		t.Fatalf("SetPageSize(50) error = %v", err)
	}
	stats := s.Stats()
	if stats.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", stats.PageSize)
	}
	if stats.Page != 1 {
		t.Errorf("Page = %d, want 1 (size change resets page)", stats.Page)
	}
}

func TestSession_FilterChangeReclampsPage(t *testing.T) {
	s := NewSession(DefaultOptions())
	s.GenerateSample(100)
	s.SetPage(4)

	// Impossible year range empties the view; the page must clamp to 1.
	f := DefaultFilter()
	f.YearMin = 3000
	f.YearMax = 3001
	s.SetFilter(f)

	stats := s.Stats()
	if stats.FilteredCount != 0 {
		t.Fatalf("FilteredCount = %d, want 0", stats.FilteredCount)
	}
	if stats.Page != 1 || stats.TotalPages != 1 {
		t.Errorf("(Page, TotalPages) = (%d, %d), want (1, 1)", stats.Page, stats.TotalPages)
	}
}

func TestSession_ExportRoundTrip(t *testing.T) {
	s := loadedSession(t)
	s.EditCell(1, ColAuthor, "Edited")

	decoded, _, err := DecodeString(s.ExportText())
	if err != nil {
		t.Fatalf("Decode(ExportText()) error = %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("len = %d, want 2", len(decoded))
	}
	if decoded[1].Author != "Edited" {
		t.Errorf("Author = %q, want %q (export reflects edits)", decoded[1].Author, "Edited")
	}
}

func TestSession_Genres(t *testing.T) {
	s := loadedSession(t)

	got := s.Genres()
	want := []string{"Fantasy", "Mystery"}
	if len(got) != len(want) {
		t.Fatalf("Genres() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Genres()[%d] = %q, want %q (sorted)", i, got[i], want[i])
		}
	}

	// Edits surface new genres.
	s.EditCell(0, ColGenre, "Horror")
	got = s.Genres()
	if len(got) != 2 || got[0] != "Horror" {
		t.Errorf("Genres() = %v, want [Horror Mystery]", got)
	}
}

func TestSession_History(t *testing.T) {
	s := loadedSession(t)

	s.EditCell(0, ColTitle, "X")
	s.EditCell(0, ColTitle, "Y")
	s.ResetEdits()

	entries := s.History(0)
	if len(entries) != 3 {
		t.Fatalf("len(History()) = %d, want 3", len(entries))
	}
	// Newest first.
	if entries[0].Action != ActionReset {
		t.Errorf("entries[0].Action = %q, want %q", entries[0].Action, ActionReset)
	}
	if entries[1].OldValue != "X" || entries[1].NewValue != "Y" {
		t.Errorf("entries[1] = %+v, want old X new Y", entries[1])
	}
	if entries[2].OldValue != "A" || entries[2].NewValue != "X" {
		t.Errorf("entries[2] = %+v, want old A new X", entries[2])
	}

	limited := s.History(1)
	if len(limited) != 1 || limited[0].Action != ActionReset {
		t.Errorf("History(1) = %+v, want single reset entry", limited)
	}
}

func TestSession_EditErrors(t *testing.T) {
	s := loadedSession(t)

	if err := s.EditCell(5, ColTitle, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("EditCell(5) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := s.EditCell(0, "Publisher", "x"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("EditCell(bad column) error = %v, want ErrUnknownColumn", err)
	}
	if got := len(s.History(0)); got != 0 {
		t.Errorf("len(History()) = %d after failed edits, want 0", got)
	}
}
