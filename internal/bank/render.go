package bank

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rahulpattadi/toppers/internal/domain"
)

// View is the display model for one rendered page.
type View struct {
	Cards         []Card     `json:"cards"`
	Empty         bool       `json:"empty"`
	NoResults     *NoResults `json:"no_results,omitempty"`
	Pagination    Pagination `json:"pagination"`
	Tags          []TagChip  `json:"tags"`
	Criteria      Criteria   `json:"criteria"`
	Page          int        `json:"page"`
	TotalPages    int        `json:"total_pages"`
	FilteredCount int        `json:"filtered_count"`
	TotalCount    int        `json:"total_count"`
}

// Card is one question as displayed.
type Card struct {
	Number          int                 `json:"number"`
	ID              int                 `json:"id"`
	Text            string              `json:"text"`
	Difficulty      domain.Difficulty   `json:"difficulty"`
	DifficultyLabel string              `json:"difficulty_label"`
	Type            domain.QuestionType `json:"type"`
	Meta            string              `json:"meta"`
	Tags            []TagLabel          `json:"tags"`
	Solution        string              `json:"solution"`
	Steps           []Step              `json:"steps"`
	Formula         string              `json:"formula"`
	Answer          string              `json:"answer"`
	Image           *ImageBlock         `json:"image,omitempty"`
	Expanded        bool                `json:"expanded"`
	Height          int                 `json:"height"`
}

// Step is a numbered solution step.
type Step struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// TagLabel pairs a tag with its display label.
type TagLabel struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TagChip is a selectable tag filter.
type TagChip struct {
	TagLabel
	Active bool `json:"active"`
}

// ImageBlock is the diagram shown under a solution.
type ImageBlock struct {
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

// NoResults is the placeholder shown when no question is visible.
type NoResults struct {
	Title string `json:"title"`
	Hint  string `json:"hint"`
}

// Pagination holds the page controls.
type Pagination struct {
	PrevDisabled bool       `json:"prev_disabled"`
	NextDisabled bool       `json:"next_disabled"`
	Pages        []PageSlot `json:"pages"`
}

const imageCaption = "Click to enlarge"

var noResults = NoResults{
	Title: "No questions found",
	Hint:  "Try adjusting your search terms or filters.",
}

// Render builds the display model for the current page of s. acc may be
// nil, in which case every panel is collapsed.
func Render(s ViewState, acc *Accordion) View {
	page := s.Page()
	v := View{
		Cards:         make([]Card, 0, len(page.Visible)),
		Criteria:      s.Criteria(),
		Page:          s.CurrentPage(),
		TotalPages:    page.TotalPages,
		FilteredCount: len(s.Filtered()),
		TotalCount:    len(s.All()),
		Tags:          tagChips(s.All(), s.Criteria().Tag),
		Pagination: Pagination{
			PrevDisabled: s.CurrentPage() == 1,
			NextDisabled: s.CurrentPage() == page.TotalPages,
			Pages:        PageWindow(s.CurrentPage(), page.TotalPages),
		},
	}

	if len(page.Visible) == 0 {
		v.Empty = true
		nr := noResults
		v.NoResults = &nr
		return v
	}

	for i := range page.Visible {
		card := NewCard(&page.Visible[i], page.StartIndex+i)
		if acc != nil && acc.IsOpen(card.ID) {
			card.Expanded = true
			card.Height = acc.Height(card.ID)
		}
		v.Cards = append(v.Cards, card)
	}
	return v
}

// NewCard builds the display card for q shown as number.
func NewCard(q *domain.Question, number int) Card {
	c := Card{
		Number:          number,
		ID:              q.ID,
		Text:            q.Text,
		Difficulty:      q.Difficulty,
		DifficultyLabel: Capitalize(string(q.Difficulty)),
		Type:            q.Type,
		Meta:            string(q.Type) + " Problem",
		Tags:            make([]TagLabel, 0, len(q.Tags)),
		Solution:        q.Solution,
		Steps:           make([]Step, 0, len(q.Steps)),
		Formula:         q.Formula,
		Answer:          q.Answer,
	}
	for _, t := range q.Tags {
		c.Tags = append(c.Tags, TagLabel{Value: t, Label: FormatTag(t)})
	}
	for i, st := range q.Steps {
		c.Steps = append(c.Steps, Step{Number: i + 1, Text: st})
	}
	if q.HasImage() {
		c.Image = &ImageBlock{
			Src:     q.Image,
			Alt:     fmt.Sprintf("Diagram for question %d", number),
			Caption: imageCaption,
		}
	}
	return c
}

func tagChips(all []domain.Question, active string) []TagChip {
	if active == "" {
		active = All
	}
	chips := []TagChip{{TagLabel: TagLabel{Value: All, Label: "All"}, Active: active == All}}
	for _, t := range DistinctTags(all) {
		chips = append(chips, TagChip{
			TagLabel: TagLabel{Value: t, Label: FormatTag(t)},
			Active:   t == active,
		})
	}
	return chips
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// FormatTag turns a hyphenated tag into space-separated capitalized words:
// "ohms-law" becomes "Ohms Law".
func FormatTag(tag string) string {
	words := strings.Split(tag, "-")
	for i, w := range words {
		words[i] = Capitalize(w)
	}
	return strings.Join(words, " ")
}
