package engine

import (
	"io"
	"sort"
	"sync"
)

// Options configures a session. Policy knobs live here rather than as
// constants so frontends can expose them as configuration.
type Options struct {
	// PageSizes is the set of page sizes the session accepts.
	PageSizes []int

	// DefaultPageSize is the page size after a new load. Must be a
	// member of PageSizes.
	DefaultPageSize int

	// MaxGenerateCount bounds GenerateSample requests.
	MaxGenerateCount int

	// HistoryLimit bounds the in-session edit trail.
	HistoryLimit int
}

// DefaultOptions returns the standard session policy.
func DefaultOptions() Options {
	return Options{
		PageSizes:        []int{10, 25, 50, 100},
		DefaultPageSize:  25,
		MaxGenerateCount: 100000,
		HistoryLimit:     500,
	}
}

// Session orchestrates the engine: it owns the original and current
// collections (through the tracker), the active filter/sort/page
// configuration, and the edit trail. All operations the external
// presentation collaborator calls go through here.
//
// The engine's data model is single-mutator, but a Session is safe for
// concurrent use because HTTP frontends serve requests in parallel.
type Session struct {
	opts Options

	mu       sync.RWMutex
	tracker  *Tracker
	filter   FilterSpec
	sortSpec SortSpec
	pageSize int
	page     int
	history  *history
	loadInfo DecodeStats
}

// NewSession creates an empty session with the given options.
func NewSession(opts Options) *Session {
	if len(opts.PageSizes) == 0 {
		opts.PageSizes = DefaultOptions().PageSizes
	}
	if opts.DefaultPageSize == 0 {
		opts.DefaultPageSize = opts.PageSizes[0]
	}
	if opts.HistoryLimit == 0 {
		opts.HistoryLimit = DefaultOptions().HistoryLimit
	}
	s := &Session{
		opts:    opts,
		history: newHistory(opts.HistoryLimit),
	}
	s.install(Collection{}, DecodeStats{})
	return s
}

// install replaces all session state with a freshly loaded collection.
// Caller must hold the write lock (or be the constructor).
func (s *Session) install(c Collection, stats DecodeStats) {
	s.tracker = NewTracker(c)
	s.filter = DefaultFilter()
	s.sortSpec = SortSpec{}
	s.pageSize = s.opts.DefaultPageSize
	s.page = 1
	s.loadInfo = stats
	s.history.clear()
}

// Load decodes delimited text and replaces the session. The swap is
// atomic: on decode failure nothing changes and prior work is kept.
func (s *Session) Load(r io.Reader) (DecodeStats, error) {
	// Decode outside the lock; a large upload must not block readers.
	c, stats, err := Decode(r)
	if err != nil {
		return DecodeStats{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.install(c, stats)
	return stats, nil
}

// GenerateSample replaces the session with count synthetic records.
func (s *Session) GenerateSample(count int) (int, error) {
	if count < 1 || (s.opts.MaxGenerateCount > 0 && count > s.opts.MaxGenerateCount) {
		return 0, ErrCountOutOfRange
	}

	c := Generate(count)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.install(c, DecodeStats{Rows: len(c)})
	return len(c), nil
}

// EditCell sets one field of one record and records the edit in the
// session trail. Page and filter state are untouched.
func (s *Session) EditCell(index int, column, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= s.tracker.Len() {
		return ErrIndexOutOfRange
	}
	oldValue, ok := s.tracker.Current()[index].Field(column)
	if !ok {
		return ErrUnknownColumn
	}
	if err := s.tracker.RecordEdit(index, column, value); err != nil {
		return err
	}
	newValue, _ := s.tracker.Current()[index].Field(column)
	s.history.record(ActionCellEdit, index, column, oldValue, newValue)
	return nil
}

// ResetEdits restores the originally loaded collection byte for byte,
// empties the modified set, and returns to page 1.
func (s *Session) ResetEdits() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracker.Reset()
	s.page = 1
	s.history.record(ActionReset, -1, "", "", "")
}

// Export writes the current collection (edits included) as delimited text.
func (s *Session) Export(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Encode(w, s.tracker.Current())
}

// ExportText returns the current collection as delimited text.
func (s *Session) ExportText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return EncodeToString(s.tracker.Current())
}

// SetFilter replaces the filter specification and re-clamps the current
// page against the new view length.
func (s *Session) SetFilter(f FilterSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.reclampPage()
}

// Filter returns the active filter specification.
func (s *Session) Filter() FilterSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetSort replaces the sort specification. The view length is unchanged,
// but the page is re-clamped anyway for uniformity with other
// configuration changes.
func (s *Session) SetSort(spec SortSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if spec.Column != "" {
		spec.Dir = NormalizeDir(spec.Dir)
	} else {
		spec.Dir = ""
	}
	s.sortSpec = spec
	s.reclampPage()
}

// Sort returns the active sort specification.
func (s *Session) Sort() SortSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortSpec
}

// SetPageSize switches to a new page granularity and resets to page 1;
// keeping an unrelated page position across a granularity change is not
// meaningful. The size must be one of the configured allowed sizes.
func (s *Session) SetPageSize(size int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowed := false
	for _, ps := range s.opts.PageSizes {
		if ps == size {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrPageSizeNotAllowed
	}
	s.pageSize = size
	s.page = 1
	return nil
}

// PageSizes returns the allowed page sizes.
func (s *Session) PageSizes() []int {
	out := make([]int, len(s.opts.PageSizes))
	copy(out, s.opts.PageSizes)
	return out
}

// SetPage moves to a 1-based page number, clamped into the valid range
// for the current view. It never errors.
func (s *Session) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
	s.reclampPage()
}

// reclampPage clamps s.page into [1, totalPages] for the current view.
// Caller must hold the write lock.
func (s *Session) reclampPage() {
	view := s.buildView()
	_, _, s.page = Paginate(view, s.pageSize, s.page)
}

// buildView computes the filtered, sorted index view. Caller must hold
// at least the read lock.
func (s *Session) buildView() []int {
	return BuildView(s.tracker.Current(), s.tracker.IsRecordModified, s.filter, s.sortSpec)
}

// PageRecord is one record of the current page together with its
// modification flags for highlighting.
type PageRecord struct {
	Index           int      `json:"index"`
	Record          Record   `json:"record"`
	Modified        bool     `json:"modified"`
	ModifiedColumns []string `json:"modifiedColumns,omitempty"`
}

// PageResult is the current page of the filtered, sorted view.
type PageResult struct {
	Records       []PageRecord `json:"records"`
	Page          int          `json:"page"`
	TotalPages    int          `json:"totalPages"`
	PageSize      int          `json:"pageSize"`
	FilteredCount int          `json:"filteredCount"`
}

// CurrentPage materializes the current page of the view with per-record
// and per-field modified flags.
func (s *Session) CurrentPage() PageResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.buildView()
	slice, totalPages, page := Paginate(view, s.pageSize, s.page)
	s.page = page

	records := make([]PageRecord, len(slice))
	for i, idx := range slice {
		records[i] = PageRecord{
			Index:           idx,
			Record:          s.tracker.Current()[idx],
			Modified:        s.tracker.IsRecordModified(idx),
			ModifiedColumns: s.tracker.ModifiedColumns(idx),
		}
	}

	return PageResult{
		Records:       records,
		Page:          page,
		TotalPages:    totalPages,
		PageSize:      s.pageSize,
		FilteredCount: len(view),
	}
}

// Stats is a snapshot of the session for stats display.
type Stats struct {
	TotalRecords  int         `json:"totalRecords"`
	FilteredCount int         `json:"filteredCount"`
	ModifiedCount int         `json:"modifiedCount"`
	Page          int         `json:"page"`
	TotalPages    int         `json:"totalPages"`
	PageSize      int         `json:"pageSize"`
	Filter        FilterSpec  `json:"filter"`
	Sort          SortSpec    `json:"sort"`
	LastLoad      DecodeStats `json:"lastLoad"`
}

// Stats returns a consistent snapshot of counts and configuration.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.buildView()
	_, totalPages, page := Paginate(view, s.pageSize, s.page)
	s.page = page

	return Stats{
		TotalRecords:  s.tracker.Len(),
		FilteredCount: len(view),
		ModifiedCount: s.tracker.ModifiedCount(),
		Page:          page,
		TotalPages:    totalPages,
		PageSize:      s.pageSize,
		Filter:        s.filter,
		Sort:          s.sortSpec,
		LastLoad:      s.loadInfo,
	}
}

// ModifiedCount returns the number of records with at least one edit.
func (s *Session) ModifiedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.ModifiedCount()
}

// TotalRecords returns the record count of the active load.
func (s *Session) TotalRecords() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.Len()
}

// IsRecordModified reports whether the record at index carries any edit.
func (s *Session) IsRecordModified(index int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.IsRecordModified(index)
}

// IsFieldModified reports whether one field at index carries an edit.
func (s *Session) IsFieldModified(index int, column string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.IsFieldModified(index, column)
}

// Genres returns the sorted set of distinct genres present in the current
// collection, for populating a genre selector.
func (s *Session) Genres() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, rec := range s.tracker.Current() {
		if rec.Genre != "" {
			seen[rec.Genre] = struct{}{}
		}
	}
	genres := make([]string, 0, len(seen))
	for g := range seen {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}

// History returns up to limit edit-trail entries, newest first.
func (s *Session) History(limit int) []EditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.recent(limit)
}
