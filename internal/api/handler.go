// Package api provides HTTP handlers for the question bank.
package api

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/rahulpattadi/toppers/internal/bank"
	"github.com/rahulpattadi/toppers/internal/browse"
	"github.com/rahulpattadi/toppers/internal/config"
	"github.com/rahulpattadi/toppers/internal/domain"
	"github.com/rahulpattadi/toppers/internal/source"
	"github.com/rahulpattadi/toppers/internal/store"
)

// Handler provides common handler utilities.
type Handler struct {
	catalog  *bank.Catalog
	reloader *source.Reloader
	repo     store.Repository
	sessions *browse.SessionManager
	site     *config.SiteConfig
	cfg      *config.Config

	description template.HTML
	subtitle    template.HTML
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(reloader *source.Reloader, repo store.Repository, sessions *browse.SessionManager, site *config.SiteConfig, cfg *config.Config) *Handler {
	md := NewMarkdown()
	return &Handler{
		catalog:     reloader.Catalog(),
		reloader:    reloader,
		repo:        repo,
		sessions:    sessions,
		site:        site,
		cfg:         cfg,
		description: md.Render(site.Site.Description),
		subtitle:    md.Render(site.Chapter.Subtitle),
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// viewQuery is the browsing position encoded in a request's query string.
type viewQuery struct {
	criteria bank.Criteria
	page     int
	open     int
	image    int
}

// parseViewQuery reads q, difficulty, type, tag, page, open and image.
// Unknown difficulty or type values and malformed numbers are rejected.
func parseViewQuery(r *http.Request) (viewQuery, error) {
	q := r.URL.Query()
	vq := viewQuery{
		criteria: bank.Criteria{
			Search:     q.Get("q"),
			Difficulty: strings.ToLower(strings.TrimSpace(q.Get("difficulty"))),
			Type:       strings.ToLower(strings.TrimSpace(q.Get("type"))),
			Tag:        q.Get("tag"),
		}.Normalized(),
		page: 1,
	}

	if d := vq.criteria.Difficulty; d != bank.All && !domain.Difficulty(d).Valid() {
		return vq, fmt.Errorf("unknown difficulty %q", d)
	}
	if t := vq.criteria.Type; t != bank.All && !domain.QuestionType(t).Valid() {
		return vq, fmt.Errorf("unknown type %q", t)
	}

	var err error
	if vq.page, err = positiveParam(q.Get("page"), 1); err != nil {
		return vq, fmt.Errorf("invalid page: %w", err)
	}
	if vq.open, err = positiveParam(q.Get("open"), 0); err != nil {
		return vq, fmt.Errorf("invalid open: %w", err)
	}
	if vq.image, err = positiveParam(q.Get("image"), 0); err != nil {
		return vq, fmt.Errorf("invalid image: %w", err)
	}
	return vq, nil
}

func positiveParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("must be >= 1, got %d", n)
	}
	return n, nil
}

// viewState builds the state for vq. A page out of range leaves the view
// on page 1.
func (h *Handler) viewState(questions []domain.Question, vq viewQuery) bank.ViewState {
	s := bank.NewViewState(questions, h.site.Display.QuestionsPerPage).ApplyFilters(vq.criteria)
	if next, ok := s.GoToPage(vq.page); ok {
		s = next
	}
	return s
}
