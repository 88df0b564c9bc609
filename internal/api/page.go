package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rahulpattadi/toppers/internal/bank"
	"github.com/rahulpattadi/toppers/internal/identity"
	"github.com/rahulpattadi/toppers/web"
)

// PageHandler serves the server-rendered question page.
type PageHandler struct {
	*Handler
}

// NewPageHandler creates a new page handler.
func NewPageHandler(base *Handler) *PageHandler {
	return &PageHandler{Handler: base}
}

// RegisterRoutes registers the page and its form actions.
func (h *PageHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Post("/theme", h.Theme)
	r.Post("/reload", h.Reload)
	r.Handle("/static/*", web.StaticHandler())
}

// Index renders the question page for the query's filters and page. The
// open and image parameters expand a panel and show its image.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	vq, err := parseViewQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	theme, _, err := h.themeFor(r.Context(), identity.DeviceIDFromContext(r.Context()))
	if err != nil {
		slog.Warn("Failed to read theme preference", "error", err)
	}

	data := &web.PageData{
		Site:        h.site,
		Description: h.description,
		Subtitle:    h.subtitle,
		Theme:       theme,
	}

	snap, ok := h.catalog.Snapshot()
	if !ok {
		data.Loading = true
		data.View = bank.Render(bank.NewViewState(nil, h.site.Display.QuestionsPerPage).ApplyFilters(vq.criteria), nil)
		h.render(w, data)
		return
	}

	state := h.viewState(snap.Questions, vq)
	acc := &bank.Accordion{}
	for _, q := range state.Page().Visible {
		if q.ID == vq.open {
			acc.Expand(q.ID)
			data.Open = q.ID
		}
	}
	data.View = bank.Render(state, acc)
	if vq.image != 0 && h.site.Display.EnableImageModal {
		for i := range data.View.Cards {
			if data.View.Cards[i].ID == vq.image {
				data.Viewer.OpenCard(&data.View.Cards[i])
			}
		}
	}

	data.Count = len(snap.Questions)
	data.Origin = snap.Origin
	if snap.Err != nil {
		data.LoadError = snap.Err.Error()
	}
	h.render(w, data)
}

func (h *PageHandler) render(w http.ResponseWriter, data *web.PageData) {
	if err := web.RenderPage(w, http.StatusOK, data); err != nil {
		slog.Error("Failed to render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// Theme toggles the theme from the page form and returns to the page.
func (h *PageHandler) Theme(w http.ResponseWriter, r *http.Request) {
	if _, err := h.toggleTheme(r); err != nil {
		if errors.Is(err, errThemeDisabled) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		slog.Error("Failed to toggle theme", "error", err)
		http.Error(w, "failed to save theme preference", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// Reload reloads the questions from the page form and returns to the page.
func (h *PageHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if _, err := h.reload(r); err != nil {
		slog.Warn("Reload could not be recorded", "error", err)
	}
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// returnPath reads the form's return target. Only local paths are honored.
func returnPath(r *http.Request) string {
	p := r.FormValue("return")
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}
