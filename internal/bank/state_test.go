package bank

import (
	"reflect"
	"testing"
)

func TestViewState_GoToPageNoOps(t *testing.T) {
	s := NewViewState(makeQuestions(12), 5)

	for _, target := range []int{0, -1, 4, 1} {
		next, ok := s.GoToPage(target)
		if ok {
			t.Errorf("GoToPage(%d) reported a change", target)
		}
		if next.CurrentPage() != 1 {
			t.Errorf("GoToPage(%d) moved to page %d", target, next.CurrentPage())
		}
	}

	next, ok := s.GoToPage(3)
	if !ok || next.CurrentPage() != 3 {
		t.Fatalf("GoToPage(3) = (%d, %v), want (3, true)", next.CurrentPage(), ok)
	}
	if s.CurrentPage() != 1 {
		t.Errorf("Expected original state untouched, got page %d", s.CurrentPage())
	}
	if got := ids(next.Page().Visible); !reflect.DeepEqual(got, []int{11, 12}) {
		t.Errorf("Page 3 visible = %v, want [11 12]", got)
	}
}

func TestViewState_PrevNextBounds(t *testing.T) {
	s := NewViewState(makeQuestions(7), 5)

	if _, ok := s.Prev(); ok {
		t.Error("Prev() on first page should be a no-op")
	}
	s, ok := s.Next()
	if !ok || s.CurrentPage() != 2 {
		t.Fatalf("Next() = (%d, %v), want (2, true)", s.CurrentPage(), ok)
	}
	if _, ok := s.Next(); ok {
		t.Error("Next() on last page should be a no-op")
	}
}

func TestViewState_ApplyFiltersResetsPage(t *testing.T) {
	s := NewViewState(FallbackQuestions(), 5)
	s, _ = s.GoToPage(2)

	s = s.ApplyFilters(Criteria{Difficulty: "easy"})

	if s.CurrentPage() != 1 {
		t.Errorf("Expected page 1 after filtering, got %d", s.CurrentPage())
	}
	if got := ids(s.Filtered()); !reflect.DeepEqual(got, []int{1, 6, 8, 9}) {
		t.Errorf("Filtered = %v, want [1 6 8 9]", got)
	}
	if s.TotalPages() != 1 {
		t.Errorf("Expected 1 total page, got %d", s.TotalPages())
	}
	if len(s.All()) != 9 {
		t.Errorf("Expected full set untouched, got %d", len(s.All()))
	}
}

func TestViewState_ReloadKeepsCriteria(t *testing.T) {
	s := NewViewState(makeQuestions(12), 5)
	s = s.ApplyFilters(Criteria{Difficulty: "hard"})
	s, _ = s.GoToPage(1)

	fresh := FallbackQuestions()
	s = s.Reload(fresh)

	if got := ids(s.Filtered()); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("Filtered after reload = %v, want [4]", got)
	}
	if s.Criteria().Difficulty != "hard" {
		t.Errorf("Expected criteria to survive reload, got %+v", s.Criteria())
	}
	if s.CurrentPage() != 1 {
		t.Errorf("Expected page 1 after reload, got %d", s.CurrentPage())
	}
}

func TestViewState_EmptySet(t *testing.T) {
	s := NewViewState(nil, 0)

	if s.TotalPages() != 1 || s.CurrentPage() != 1 {
		t.Errorf("Expected 1/1 for empty set, got %d/%d", s.CurrentPage(), s.TotalPages())
	}
	if s.PageSize() != DefaultPageSize {
		t.Errorf("Expected default page size, got %d", s.PageSize())
	}
	if _, ok := s.Next(); ok {
		t.Error("Next() on empty set should be a no-op")
	}
}
