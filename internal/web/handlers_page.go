package web

import (
	"net/http"

	"github.com/JonMunkholm/aidrug/internal/core"
	"github.com/JonMunkholm/aidrug/internal/logging"
	"github.com/JonMunkholm/aidrug/internal/web/templates"
)

// handleDashboard renders the page for the caller's session, starting a
// new one when the cookie is missing or the session has expired.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromCookie(r)
	if !ok {
		sess, _ = s.service.CreateSession()
		s.setSessionCookie(w, sess.ID)
		logging.WithFields(r.Context(), "session_id", sess.ID).Info("session created")
	}

	data := templates.DashboardData{
		SessionID: sess.ID,
		Controls:  s.service.Controls(),
		Selection: sess.Selection(),
		Panels:    s.panels(sess.Selection()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render dashboard", "error", err)
	}
}

// panels lists every view in display order with its kind and title.
func (s *Server) panels(sel core.Selection) []templates.PanelData {
	keys := s.service.Dashboard().ViewKeys()
	out := make([]templates.PanelData, 0, len(keys))
	for _, key := range keys {
		v, ok := s.service.Dashboard().View(sel, key)
		if !ok {
			continue
		}
		out = append(out, templates.PanelData{Key: key, Kind: v.Kind, Title: v.Title})
	}
	return out
}
