package engine

// Paginate slices a view into fixed-size pages. It never errors:
// out-of-range page numbers are clamped, since the caller may request a
// page transition before recomputing bounds after a filter change.
// totalPages is at least 1 even for an empty view, and the returned page
// is the clamped 1-based page number actually served.
func Paginate(view []int, pageSize, page int) (pageSlice []int, totalPages, clampedPage int) {
	if pageSize < 1 {
		pageSize = 1
	}

	totalPages = (len(view) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(view) {
		start = len(view)
	}
	if end > len(view) {
		end = len(view)
	}

	return view[start:end], totalPages, page
}
