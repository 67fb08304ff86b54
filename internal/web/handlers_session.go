package web

import (
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/aidrug/internal/core"
	"github.com/JonMunkholm/aidrug/internal/logging"
)

const maxEventBody = 64 << 10

// SessionResponse is returned when a session is created or read.
type SessionResponse struct {
	SessionID string            `json:"session_id"`
	Selection core.Selection    `json:"selection"`
	Views     []core.ViewResult `json:"views,omitempty"`
}

// handleCreateSession starts a new session and returns every view.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, cycle := s.service.CreateSession()
	s.setSessionCookie(w, sess.ID)

	logging.WithFields(r.Context(), "session_id", sess.ID).Info("session created")
	writeJSON(w, http.StatusCreated, SessionResponse{
		SessionID: sess.ID,
		Selection: cycle.Selection,
		Views:     cycle.Views,
	})
}

// handleGetSession returns the current selection of a session.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, r := sessionParam(r)
	sel, err := s.service.Selection(id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{SessionID: id, Selection: sel})
}

// handleEvent applies one event and returns the recomputed views. Open
// sockets of the same session receive the same cycle.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id, r := sessionParam(r)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: read body: %v", core.ErrInvalidEvent, err), http.StatusBadRequest)
		return
	}
	ev, err := core.DecodeEvent(body)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	cycle, err := s.service.Dispatch(id, ev)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Debug("event applied",
		"type", ev.Type,
		"dirty", cycle.Dirty,
		"views", len(cycle.Views),
	)
	s.hub.Broadcast(id, Message{Type: "cycle", Cycle: &cycle})
	writeJSON(w, http.StatusOK, cycle)
}
