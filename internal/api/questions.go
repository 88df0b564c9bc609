package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rahulpattadi/toppers/internal/bank"
)

const errLoading = "questions are still loading"

// QuestionHandler serves the question bank as JSON.
type QuestionHandler struct {
	*Handler
}

// NewQuestionHandler creates a new question handler.
func NewQuestionHandler(base *Handler) *QuestionHandler {
	return &QuestionHandler{Handler: base}
}

// RegisterRoutes registers question, theme and config routes.
func (h *QuestionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/questions", h.ListQuestions)
		r.Get("/questions/{id}", h.GetQuestion)
		r.Get("/tags", h.ListTags)
		r.Get("/status", h.Status)
		r.Post("/reload", h.Reload)
		r.Get("/theme", h.GetTheme)
		r.Post("/theme/toggle", h.ToggleTheme)
		r.Get("/config", h.GetConfig)
	})
}

// ListQuestions returns one rendered page of the filtered questions.
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	vq, err := parseViewQuery(r)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, ok := h.catalog.Snapshot()
	if !ok {
		Error(w, http.StatusServiceUnavailable, errLoading)
		return
	}

	acc := &bank.Accordion{}
	acc.Expand(vq.open)
	JSON(w, http.StatusOK, bank.Render(h.viewState(snap.Questions, vq), acc))
}

// GetQuestion returns one question by id.
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		Error(w, http.StatusBadRequest, "invalid question id")
		return
	}
	if !h.catalog.IsReady() {
		Error(w, http.StatusServiceUnavailable, errLoading)
		return
	}

	q, ok := h.catalog.Question(id)
	if !ok {
		Error(w, http.StatusNotFound, "question not found")
		return
	}
	JSON(w, http.StatusOK, q)
}

// ListTags returns the distinct tags of the question set in first-seen order.
func (h *QuestionHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.catalog.Snapshot()
	if !ok {
		Error(w, http.StatusServiceUnavailable, errLoading)
		return
	}

	tags := bank.DistinctTags(snap.Questions)
	labels := make([]bank.TagLabel, 0, len(tags))
	for _, t := range tags {
		labels = append(labels, bank.TagLabel{Value: t, Label: bank.FormatTag(t)})
	}
	JSON(w, http.StatusOK, map[string]interface{}{"tags": labels})
}

// Status reports where the current question set came from.
func (h *QuestionHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"ready":    false,
		"sessions": h.sessions.Count(),
	}

	if snap, ok := h.catalog.Snapshot(); ok {
		resp["ready"] = true
		resp["count"] = len(snap.Questions)
		resp["origin"] = snap.Origin
		resp["source"] = snap.Source
		resp["version"] = snap.Version
		resp["loaded_at"] = snap.LoadedAt.UTC().Format(time.RFC3339)
		if snap.Err != nil {
			resp["error"] = snap.Err.Error()
		}
	}

	rec, err := h.repo.LatestLoad(r.Context())
	if err != nil {
		slog.Error("Failed to read load log", "error", err)
		Error(w, http.StatusInternalServerError, "failed to read load log")
		return
	}
	if rec != nil {
		resp["last_load"] = rec
	}

	JSON(w, http.StatusOK, resp)
}

// Reload fetches the question data again and pushes it to live sessions.
func (h *QuestionHandler) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := h.reload(r)
	if err != nil {
		Error(w, http.StatusInternalServerError, "questions reloaded but the load could not be recorded")
		return
	}

	resp := map[string]interface{}{
		"version": snap.Version,
		"origin":  snap.Origin,
		"count":   len(snap.Questions),
	}
	if snap.Err != nil {
		resp["error"] = snap.Err.Error()
	}
	JSON(w, http.StatusOK, resp)
}

// reload runs one load and broadcasts the result, even when recording it
// failed. The load outlives the request; the loader's timeout bounds it.
func (h *Handler) reload(r *http.Request) (bank.Snapshot, error) {
	slog.Info("Question reload requested", "ip", r.RemoteAddr)
	snap, err := h.reloader.Reload(context.WithoutCancel(r.Context()))
	h.sessions.Broadcast(snap)
	return snap, err
}

// GetConfig returns the site configuration for the frontend.
func (h *QuestionHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"site":             h.site.Site,
		"chapter":          h.site.Chapter,
		"display":          h.site.Display,
		"filters":          h.site.Filters,
		"description_html": h.description,
		"subtitle_html":    h.subtitle,
	})
}
