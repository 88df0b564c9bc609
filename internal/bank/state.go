package bank

import "github.com/rahulpattadi/toppers/internal/domain"

// ViewState is the browsing state over one loaded question set. It is a
// value: every transition returns a new state and leaves the receiver as is.
type ViewState struct {
	all         []domain.Question
	filtered    []domain.Question
	criteria    Criteria
	currentPage int
	pageSize    int
}

// NewViewState starts browsing all with no filters, on page 1.
func NewViewState(all []domain.Question, pageSize int) ViewState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if all == nil {
		all = []domain.Question{}
	}
	criteria := DefaultCriteria()
	return ViewState{
		all:         all,
		filtered:    Filter(all, criteria),
		criteria:    criteria,
		currentPage: 1,
		pageSize:    pageSize,
	}
}

// All returns the full question set.
func (s ViewState) All() []domain.Question { return s.all }

// Filtered returns the questions matching the current criteria.
func (s ViewState) Filtered() []domain.Question { return s.filtered }

// Criteria returns the active filters.
func (s ViewState) Criteria() Criteria { return s.criteria }

// CurrentPage returns the 1-based current page.
func (s ViewState) CurrentPage() int { return s.currentPage }

// PageSize returns the number of questions per page.
func (s ViewState) PageSize() int { return s.pageSize }

// TotalPages returns the page count of the filtered set, at least 1.
func (s ViewState) TotalPages() int {
	return TotalPages(len(s.filtered), s.pageSize)
}

// Page returns the visible slice for the current page.
func (s ViewState) Page() Page {
	return Paginate(s.filtered, s.currentPage, s.pageSize)
}

// ApplyFilters recomputes the filtered set for c and returns to page 1.
func (s ViewState) ApplyFilters(c Criteria) ViewState {
	c = c.Normalized()
	s.criteria = c
	s.filtered = Filter(s.all, c)
	s.currentPage = 1
	return s
}

// GoToPage moves to target. It reports false, and returns the state
// unchanged, when target is out of range or already current.
func (s ViewState) GoToPage(target int) (ViewState, bool) {
	if target < 1 || target > s.TotalPages() || target == s.currentPage {
		return s, false
	}
	s.currentPage = target
	return s, true
}

// Next moves forward one page if possible.
func (s ViewState) Next() (ViewState, bool) {
	return s.GoToPage(s.currentPage + 1)
}

// Prev moves back one page if possible.
func (s ViewState) Prev() (ViewState, bool) {
	return s.GoToPage(s.currentPage - 1)
}

// Reload swaps in a newly loaded question set. The active criteria are
// applied to it and the view returns to page 1.
func (s ViewState) Reload(all []domain.Question) ViewState {
	if all == nil {
		all = []domain.Question{}
	}
	s.all = all
	return s.ApplyFilters(s.criteria)
}
