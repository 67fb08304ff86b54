package web

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/aidrug/internal/core"
	"github.com/JonMunkholm/aidrug/internal/logging"
	"github.com/JonMunkholm/aidrug/internal/render"
)

// handleView returns one view as JSON.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id, r := sessionParam(r)
	v, err := s.service.View(id, core.ViewKey(chi.URLParam(r, "view")))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleChart renders one view as SVG. Views without a chart form (the
// table and the word cloud) answer 404.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	id, r := sessionParam(r)
	v, err := s.service.View(id, core.ViewKey(chi.URLParam(r, "view")))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := render.Chart(&buf, v, chartOptions(r)); err != nil {
		if errors.Is(err, render.ErrUnsupportedKind) {
			respondError(w, r, errors.Join(core.ErrUnknownView, err), http.StatusNotFound)
			return
		}
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", render.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func chartOptions(r *http.Request) render.Options {
	return render.Options{
		Width:  min(parseIntParam(r, "w", 0), 2000),
		Height: min(parseIntParam(r, "h", 0), 2000),
	}
}

// handleWordCloud serves <category>.png from the assets directory when it
// exists, else a cloud generated from the category's keywords.
func (s *Server) handleWordCloud(w http.ResponseWriter, r *http.Request) {
	category, err := url.PathUnescape(chi.URLParam(r, "category"))
	if err != nil || category == "" || strings.ContainsAny(category, `/\`) || strings.Contains(category, "..") {
		http.NotFound(w, r)
		return
	}

	if dir := s.cfg.Dataset.AssetsDir; dir != "" {
		path := filepath.Join(dir, category+".png")
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
	}

	var buf bytes.Buffer
	if err := render.WordCloud(&buf, s.service.Keywords(category), render.Options{Width: 640, Height: 360}); err != nil {
		logging.FromContext(r.Context()).Error("word cloud render failed", "category", category, "error", err)
		http.Error(w, "word cloud unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", render.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = buf.WriteTo(w)
}

// handleControls returns the control vocabularies.
func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Controls())
}

// handleHealth reports liveness and the loaded dataset size.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ds := s.service.Dataset()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"companies": ds.Len(),
		"source":    ds.Source(),
		"loaded_at": ds.LoadedAt(),
		"sessions":  s.service.Sessions().Len(),
		"exports":   s.service.Exports().Status(),
	})
}
