// Package domain contains core domain types for the question bank.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty is the difficulty level of a question.
type Difficulty string

// Recognized difficulty levels.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the recognized levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// QuestionType classifies how a question is solved.
type QuestionType string

// Recognized question types.
const (
	TypeNumerical  QuestionType = "numerical"
	TypeConceptual QuestionType = "conceptual"
	TypeDerivation QuestionType = "derivation"
)

// Valid reports whether t is one of the recognized types.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeNumerical, TypeConceptual, TypeDerivation:
		return true
	}
	return false
}

// Defaults applied when a source record omits part of its solution.
const (
	DefaultSolution = "Solution approach"
	DefaultFormula  = "N/A"
	DefaultAnswer   = "Answer not provided"
)

// ErrInvalidQuestion is returned by Validate for records that cannot be shown.
var ErrInvalidQuestion = errors.New("invalid question")

// Question is a normalized question record.
type Question struct {
	ID         int          `json:"id"`
	Text       string       `json:"text"`
	Difficulty Difficulty   `json:"difficulty"`
	Type       QuestionType `json:"type"`
	Tags       []string     `json:"tags"`
	Solution   string       `json:"solution"`
	Steps      []string     `json:"steps"`
	Formula    string       `json:"formula"`
	Answer     string       `json:"answer"`
	Image      string       `json:"image,omitempty"`
}

// HasImage returns true if the question carries a diagram.
func (q *Question) HasImage() bool {
	return q.Image != ""
}

// HasTag reports whether tag is attached to the question.
func (q *Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Validate checks the invariants every loaded question must hold.
func (q *Question) Validate() error {
	if q.ID == 0 {
		return fmt.Errorf("%w: missing id", ErrInvalidQuestion)
	}
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: question %d has no text", ErrInvalidQuestion, q.ID)
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("%w: question %d has difficulty %q", ErrInvalidQuestion, q.ID, q.Difficulty)
	}
	if !q.Type.Valid() {
		return fmt.Errorf("%w: question %d has type %q", ErrInvalidQuestion, q.ID, q.Type)
	}
	return nil
}
