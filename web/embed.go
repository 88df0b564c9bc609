// Package web embeds the page templates and static assets and renders the
// question page.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rahulpattadi/toppers/internal/bank"
	"github.com/rahulpattadi/toppers/internal/config"
	"github.com/rahulpattadi/toppers/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"pageURL":  func(c bank.Criteria, page int) string { return PageURL(c, page, 0, 0) },
	"openURL":  openURL,
	"imageURL": PageURL,
	"prev":     func(page int) int { return page - 1 },
	"next":     func(page int) int { return page + 1 },
	"tagURL": func(c bank.Criteria, tag string) string {
		c.Tag = tag
		return PageURL(c, 1, 0, 0)
	},
}).ParseFS(templateFS, "templates/*.html"))

// PageData is everything the question page shows.
type PageData struct {
	Site        *config.SiteConfig
	Description template.HTML
	Subtitle    template.HTML
	Theme       domain.Theme
	Loading     bool
	View        bank.View
	Viewer      bank.ImageViewer
	Open        int
	Origin      domain.LoadOrigin
	LoadError   string
	Count       int
}

// RenderPage writes the full question page.
func RenderPage(w http.ResponseWriter, status int, data *PageData) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "page", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// RenderFragment renders the question list and pagination of v.
func RenderFragment(v bank.View) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "questions", v); err != nil {
		return "", fmt.Errorf("render questions: %w", err)
	}
	return buf.String(), nil
}

// StaticHandler serves the embedded assets under /static/.
func StaticHandler() http.Handler {
	subFS, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(subFS)))
}

// PageURL builds the page link for c at page. open and image select the
// expanded question and the question shown in the image viewer; zero
// means none. Default values are left out of the query.
func PageURL(c bank.Criteria, page, open, image int) string {
	c = c.Normalized()
	q := url.Values{}
	if c.Search != "" {
		q.Set("q", c.Search)
	}
	if c.Difficulty != bank.All {
		q.Set("difficulty", c.Difficulty)
	}
	if c.Type != bank.All {
		q.Set("type", c.Type)
	}
	if c.Tag != bank.All {
		q.Set("tag", c.Tag)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if open != 0 {
		q.Set("open", strconv.Itoa(open))
	}
	if image != 0 {
		q.Set("image", strconv.Itoa(image))
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

// openURL links a card's toggle: it expands id, or collapses it when it
// is already expanded.
func openURL(c bank.Criteria, page, id int, expanded bool) string {
	if expanded {
		return PageURL(c, page, 0, 0)
	}
	return PageURL(c, page, id, 0)
}
