package handler

import (
	"net/http"

	"zync/backend/internal/server/respond"
)

// Page templates the host renders for the admin namespace.
const (
	TemplateConfig    = "zync_config.html"
	TemplateDashboard = "zync_dashboard.html"
)

// Page is a view model handed to the host's template engine.
type Page struct {
	Template string                 `json:"template"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Message  string                 `json:"message,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// PageRenderer renders admin pages. Hosts with a template engine supply their own.
type PageRenderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, p Page)
}

// JSONRenderer writes the view model as JSON, for hosts that render pages client-side.
type JSONRenderer struct{}

func (JSONRenderer) Render(w http.ResponseWriter, _ *http.Request, status int, p Page) {
	respond.JSON(w, status, p)
}
