package web

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/aidrug/internal/core"
	"github.com/JonMunkholm/aidrug/internal/logging"
)

// clientIP returns the caller address without its port. RemoteAddr has
// already been processed by TrustedRealIP.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// sessionParam reads the {id} route parameter and tags the request
// context with it for logging.
func sessionParam(r *http.Request) (string, *http.Request) {
	id := chi.URLParam(r, "id")
	return id, r.WithContext(logging.ContextWithSession(r.Context(), id))
}

// sessionFromCookie returns the live session named by the session cookie.
func (s *Server) sessionFromCookie(r *http.Request) (*core.Session, bool) {
	c, err := r.Cookie(s.cfg.Session.CookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}
	sess, err := s.service.Sessions().Get(c.Value)
	if err != nil {
		return nil, false
	}
	return sess, true
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.cfg.Session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.Session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
