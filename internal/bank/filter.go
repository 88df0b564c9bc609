package bank

import (
	"strings"

	"github.com/rahulpattadi/toppers/internal/domain"
)

// All is the filter value that places no constraint on a field.
const All = "all"

// Criteria is the set of active filters.
type Criteria struct {
	Search     string `json:"search"`
	Difficulty string `json:"difficulty"`
	Type       string `json:"type"`
	Tag        string `json:"tag"`
}

// DefaultCriteria matches every question.
func DefaultCriteria() Criteria {
	return Criteria{Difficulty: All, Type: All, Tag: All}
}

// Normalized returns c with the search trimmed and empty selectors set to All.
func (c Criteria) Normalized() Criteria {
	c.Search = strings.TrimSpace(c.Search)
	c.Difficulty = selector(c.Difficulty)
	c.Type = selector(c.Type)
	c.Tag = selector(c.Tag)
	return c
}

// IsZero reports whether c matches every question.
func (c Criteria) IsZero() bool {
	return c.Normalized() == DefaultCriteria()
}

func selector(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return All
	}
	return v
}

// Matches reports whether q satisfies every predicate of c.
func (c Criteria) Matches(q *domain.Question) bool {
	c = c.Normalized()

	if c.Search != "" {
		term := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(q.Text), term) &&
			!strings.Contains(strings.ToLower(q.Solution), term) {
			return false
		}
	}
	if c.Difficulty != All && string(q.Difficulty) != c.Difficulty {
		return false
	}
	if c.Type != All && string(q.Type) != c.Type {
		return false
	}
	if c.Tag != All && !q.HasTag(c.Tag) {
		return false
	}
	return true
}

// Filter returns the questions of all that match c, preserving order.
// The result never aliases all.
func Filter(all []domain.Question, c Criteria) []domain.Question {
	out := make([]domain.Question, 0, len(all))
	for i := range all {
		if c.Matches(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out
}

// DistinctTags lists the tags of all in first-seen order.
func DistinctTags(all []domain.Question) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, q := range all {
		for _, t := range q.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags
}
