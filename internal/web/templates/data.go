// Package templates holds the HTML components of the dashboard page.
// Components are written in .templ files; run `templ generate` after
// editing them.
package templates

import (
	"github.com/JonMunkholm/aidrug/internal/controls"
	"github.com/JonMunkholm/aidrug/internal/core"
)

// PanelData describes one view slot on the page.
type PanelData struct {
	Key   core.ViewKey
	Kind  core.ViewKind
	Title string
}

// DashboardData is everything the page needs on first paint. Views fill
// themselves in over the websocket.
type DashboardData struct {
	SessionID string
	Controls  *controls.Controls
	Selection core.Selection
	Panels    []PanelData
}

func exportURL(sessionID, format string) string {
	return "/api/sessions/" + sessionID + "/export." + format
}
