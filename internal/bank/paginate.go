package bank

import "github.com/rahulpattadi/toppers/internal/domain"

// DefaultPageSize is used when no positive page size is configured.
const DefaultPageSize = 5

// maxVisiblePages is the widest page window shown without ellipses.
const maxVisiblePages = 5

// Page is one slice of the filtered questions.
type Page struct {
	Visible    []domain.Question
	Page       int
	TotalPages int
	// StartIndex is the 1-based display number of the first visible question.
	// It is 1 when nothing is visible.
	StartIndex int
}

// TotalPages returns max(1, ceil(n/size)).
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate slices filtered for the given 1-based page. Pages outside the
// valid range produce an empty visible slice.
func Paginate(filtered []domain.Question, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	p := Page{
		Visible:    []domain.Question{},
		Page:       page,
		TotalPages: TotalPages(len(filtered), size),
		StartIndex: 1,
	}
	if page < 1 {
		return p
	}

	start := (page - 1) * size
	if start >= len(filtered) {
		return p
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	p.Visible = filtered[start:end]
	p.StartIndex = start + 1
	return p
}

// PageSlot is one entry of the page-number window.
type PageSlot struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Active   bool `json:"active,omitempty"`
}

// PageWindow computes the page-number buttons for current out of total.
// At most five numbers are shown. The first and last pages stay reachable,
// and ellipses mark the gaps.
func PageWindow(current, total int) []PageSlot {
	if total < 1 {
		total = 1
	}

	var numbers []int
	switch {
	case total <= maxVisiblePages:
		for i := 1; i <= total; i++ {
			numbers = append(numbers, i)
		}
	case current <= 3:
		numbers = []int{1, 2, 3, 4, 0, total}
	case current >= total-2:
		numbers = []int{1, 0, total - 3, total - 2, total - 1, total}
	default:
		numbers = []int{1, 0, current - 1, current, current + 1, 0, total}
	}

	slots := make([]PageSlot, len(numbers))
	for i, n := range numbers {
		if n == 0 {
			slots[i] = PageSlot{Ellipsis: true}
			continue
		}
		slots[i] = PageSlot{Number: n, Active: n == current}
	}
	return slots
}
