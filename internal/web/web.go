// Package web serves the upload page in front of the JSON API.
package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/local/syllabusparser/internal/filetype"
	"github.com/local/syllabusparser/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// CourseLister is the part of store.Courses the page needs.
type CourseLister interface {
	List(ctx context.Context) ([]store.Course, error)
}

type Web struct {
	tpl            *template.Template
	courses        CourseLister
	maxUploadBytes int64
}

func New(courses CourseLister, maxUploadBytes int64) *Web {
	if maxUploadBytes <= 0 {
		maxUploadBytes = filetype.DefaultMaxSize
	}
	return &Web{
		tpl:            template.Must(template.ParseFS(templateFS, "templates/*.html")),
		courses:        courses,
		maxUploadBytes: maxUploadBytes,
	}
}

func (w *Web) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", w.handleIndex)
}

type indexData struct {
	Courses     []store.Course
	MaxUploadMB int64
	Accept      string
}

func (w *Web) handleIndex(wr http.ResponseWriter, r *http.Request) {
	data := indexData{
		MaxUploadMB: w.maxUploadBytes >> 20,
		Accept:      strings.Join([]string{".pdf", ".docx", filetype.MIMEPDF, filetype.MIMEDOCX}, ","),
	}
	if w.courses != nil {
		list, err := w.courses.List(r.Context())
		if err != nil {
			log.Warn().Err(err).Msg("list courses for index failed")
		}
		data.Courses = list
	}

	var buf bytes.Buffer
	if err := w.tpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		log.Error().Err(err).Msg("render index failed")
		http.Error(wr, "render failed", http.StatusInternalServerError)
		return
	}
	wr.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(wr)
}
