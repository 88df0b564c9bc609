package bank

import (
	"testing"

	"github.com/rahulpattadi/toppers/internal/domain"
)

func TestRender_FirstPage(t *testing.T) {
	s := NewViewState(FallbackQuestions(), 5)

	v := Render(s, nil)

	if len(v.Cards) != 5 {
		t.Fatalf("Expected 5 cards, got %d", len(v.Cards))
	}
	if v.Empty || v.NoResults != nil {
		t.Error("Expected non-empty view")
	}
	first := v.Cards[0]
	if first.Number != 1 || first.ID != 1 {
		t.Errorf("Expected card #1 for question 1, got #%d for %d", first.Number, first.ID)
	}
	if first.DifficultyLabel != "Easy" {
		t.Errorf("Expected label Easy, got %q", first.DifficultyLabel)
	}
	if first.Meta != "numerical Problem" {
		t.Errorf("Expected meta 'numerical Problem', got %q", first.Meta)
	}
	if len(first.Tags) != 1 || first.Tags[0].Label != "Ohms Law" {
		t.Errorf("Expected tag label Ohms Law, got %+v", first.Tags)
	}
	if len(first.Steps) != 3 || first.Steps[2].Number != 3 {
		t.Errorf("Expected 3 numbered steps, got %+v", first.Steps)
	}
	if first.Image != nil {
		t.Error("Expected no image block")
	}
	if !v.Pagination.PrevDisabled || v.Pagination.NextDisabled {
		t.Errorf("Expected prev disabled and next enabled, got %+v", v.Pagination)
	}
	if v.TotalPages != 2 || v.FilteredCount != 9 || v.TotalCount != 9 {
		t.Errorf("Unexpected counts: pages=%d filtered=%d total=%d", v.TotalPages, v.FilteredCount, v.TotalCount)
	}
}

func TestRender_SecondPageNumbering(t *testing.T) {
	s := NewViewState(FallbackQuestions(), 5)
	s, _ = s.GoToPage(2)

	v := Render(s, nil)

	if len(v.Cards) != 4 {
		t.Fatalf("Expected 4 cards, got %d", len(v.Cards))
	}
	for i, c := range v.Cards {
		if c.Number != 6+i {
			t.Errorf("Card %d: expected number %d, got %d", i, 6+i, c.Number)
		}
	}
	if v.Pagination.PrevDisabled || !v.Pagination.NextDisabled {
		t.Errorf("Expected prev enabled and next disabled, got %+v", v.Pagination)
	}
}

func TestRender_NoResults(t *testing.T) {
	s := NewViewState(FallbackQuestions(), 5).ApplyFilters(Criteria{Search: "magnetism"})

	v := Render(s, nil)

	if !v.Empty || v.NoResults == nil {
		t.Fatal("Expected no-results placeholder")
	}
	if len(v.Cards) != 0 {
		t.Errorf("Expected no cards, got %d", len(v.Cards))
	}
	if !v.Pagination.PrevDisabled || !v.Pagination.NextDisabled {
		t.Errorf("Expected both controls disabled on a single empty page, got %+v", v.Pagination)
	}
}

func TestRender_ExpandedCardAndTags(t *testing.T) {
	s := NewViewState(FallbackQuestions(), 5).ApplyFilters(Criteria{Tag: "power"})
	var acc Accordion
	acc.Toggle(8, 240)

	v := Render(s, &acc)

	var expanded int
	for _, c := range v.Cards {
		if c.Expanded {
			expanded++
			if c.ID != 8 || c.Height != 240 {
				t.Errorf("Expected question 8 expanded at 240, got %d at %d", c.ID, c.Height)
			}
		}
	}
	if expanded != 1 {
		t.Errorf("Expected one expanded card, got %d", expanded)
	}

	var active []string
	for _, chip := range v.Tags {
		if chip.Active {
			active = append(active, chip.Value)
		}
	}
	if len(active) != 1 || active[0] != "power" {
		t.Errorf("Expected power chip active, got %v", active)
	}
	if v.Tags[0].Value != All {
		t.Errorf("Expected first chip to be all, got %q", v.Tags[0].Value)
	}
}

func TestNewCard_ImageBlock(t *testing.T) {
	q := domain.Question{ID: 42, Text: "t", Difficulty: domain.DifficultyHard, Type: domain.TypeDerivation, Image: "img/circuit.png"}

	c := NewCard(&q, 7)

	if c.Image == nil {
		t.Fatal("Expected image block")
	}
	if c.Image.Alt != "Diagram for question 7" {
		t.Errorf("Expected alt text by display number, got %q", c.Image.Alt)
	}
	if c.Image.Caption != "Click to enlarge" {
		t.Errorf("Unexpected caption %q", c.Image.Caption)
	}
}

func TestFormatTag(t *testing.T) {
	tests := map[string]string{
		"ohms-law":         "Ohms Law",
		"power":            "Power",
		"parallel-circuit": "Parallel Circuit",
		"":                 "",
		"a--b":             "A  B",
	}
	for in, want := range tests {
		if got := FormatTag(in); got != want {
			t.Errorf("FormatTag(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Capitalize("medium"); got != "Medium" {
		t.Errorf("Capitalize(medium) = %q", got)
	}
}
