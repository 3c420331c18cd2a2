package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bookbench/bookbench/internal/engine"
	"github.com/bookbench/bookbench/internal/logging"
	"github.com/go-chi/chi/v5"
)

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// handleLoad replaces the session with records decoded from the request.
// Accepts either a multipart form with a "file" field or a raw CSV body.
// The load is atomic: on failure the prior session is untouched.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Session.MaxUploadBytes)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "no file provided")
			return
		}
		defer file.Close()
		src = file
		logging.FromContext(r.Context()).Debug("multipart load", "file", header.Filename)
	}

	stats, err := s.session.Load(src)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("load complete",
		"rows", stats.Rows,
		"skipped", stats.Skipped,
		"year_warnings", stats.YearWarnings,
	)
	writeJSON(w, r, stats)
}

// handleGenerate replaces the session with synthetic records.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	n, err := s.session.GenerateSample(req.Count)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("sample generated", "rows", n)
	writeJSON(w, r, map[string]int{"rows": n})
}

// handleRecords returns the current page of the filtered, sorted view
// with per-record and per-field modified flags. Query parameters update
// the session view before the page is materialized; omitted parameters
// leave the view as it was.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Has("search") || q.Has("genre") || q.Has("year_min") || q.Has("year_max") || q.Has("modified") {
		filter := s.session.Filter()
		if q.Has("search") {
			filter.Query = q.Get("search")
		}
		if q.Has("genre") {
			filter.Genre = q.Get("genre")
		}
		if raw := q.Get("year_min"); raw != "" {
			if year, err := strconv.Atoi(raw); err == nil {
				filter.YearMin = year
			}
		}
		if raw := q.Get("year_max"); raw != "" {
			if year, err := strconv.Atoi(raw); err == nil {
				filter.YearMax = year
			}
		}
		if q.Has("modified") {
			filter.ModifiedOnly = q.Get("modified") == "true" || q.Get("modified") == "1"
		}
		s.session.SetFilter(filter)
	}

	if q.Has("sort") || q.Has("dir") {
		sortSpec := s.session.Sort()
		if q.Has("sort") {
			sortSpec.Column = q.Get("sort")
		}
		if q.Has("dir") {
			sortSpec.Dir = engine.NormalizeDir(q.Get("dir"))
		}
		s.session.SetSort(sortSpec)
	}

	if raw := q.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			s.session.SetPage(page)
		}
	}

	writeJSON(w, r, s.session.CurrentPage())
}

// handleSetView updates any combination of filter, sort, page size, and
// page in one call. Omitted parts are left unchanged. The page is
// re-clamped against the resulting view.
func (s *Server) handleSetView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filter   json.RawMessage `json:"filter"`
		Sort     json.RawMessage `json:"sort"`
		PageSize *int            `json:"pageSize"`
		Page     *int            `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Filter) > 0 {
		// Unspecified bounds fall back to the open defaults, so a filter
		// like {"genre":"Horror"} does not accidentally pin the years.
		filter := engine.DefaultFilter()
		if err := json.Unmarshal(req.Filter, &filter); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid filter")
			return
		}
		s.session.SetFilter(filter)
	}

	if len(req.Sort) > 0 {
		var sortSpec engine.SortSpec
		if err := json.Unmarshal(req.Sort, &sortSpec); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid sort")
			return
		}
		s.session.SetSort(sortSpec)
	}

	if req.PageSize != nil {
		if err := s.session.SetPageSize(*req.PageSize); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	if req.Page != nil {
		s.session.SetPage(*req.Page)
	}

	writeJSON(w, r, s.session.Stats())
}

// handleStats returns the session snapshot: counts, paging, and the
// active filter and sort.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.session.Stats())
}

// handleGenres returns the sorted distinct genres in the current
// collection, for populating a genre selector.
func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string][]string{"genres": s.session.Genres()})
}

// handleEditCell sets one field of one record.
func (s *Server) handleEditCell(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid record index")
		return
	}

	var req struct {
		Column string `json:"column"`
		Value  string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.session.EditCell(index, req.Column, req.Value); err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, r, map[string]interface{}{
		"status":        "edited",
		"modified":      s.session.IsRecordModified(index),
		"modifiedCount": s.session.ModifiedCount(),
	})
}

// handleReset discards all edits and returns to page 1.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.ResetEdits()
	logging.FromContext(r.Context()).Info("edits reset")
	writeJSON(w, r, map[string]string{"status": "reset"})
}

// handleHistory returns recent edit-trail entries, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	writeJSON(w, r, map[string]interface{}{"entries": s.session.History(limit)})
}

// handleExport streams the current collection (edits included) as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="records.csv"`)

	if err := s.session.Export(w); err != nil {
		// Headers are already sent; log and give up on this response.
		logging.FromContext(r.Context()).Error("export failed", "error", err)
	}
}
