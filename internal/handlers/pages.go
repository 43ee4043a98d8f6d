package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/pitchside/injury-dashboard/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"percent": func(v float64) string {
		return formatPercent(v)
	},
}).ParseFS(templateFS, "templates/*.html"))

type selectOption struct {
	Value string
	Label string
}

type dashboardPage struct {
	Username    string
	State       models.DashboardState
	Roles       []string
	Types       []string
	Formats     []string
	TravelLoads []selectOption
	GaugeSize   float64
	StrokeWidth float64
}

var travelLabels = map[string]string{
	"Low":    "Low (Same city)",
	"Medium": "Medium (Domestic)",
	"High":   "High (International)",
}

// Index serves the dashboard page, sending unauthenticated sessions to /login
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil || !sess.Authenticated || sess.Expired(time.Now()) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	state := h.dashboards.Get(sess.ID).View()
	state.Username = sess.Username

	page := dashboardPage{
		Username:    sess.Username,
		State:       state,
		Roles:       models.PlayerRoles,
		Types:       models.PlayerTypes,
		Formats:     models.MatchFormats,
		GaugeSize:   200,
		StrokeWidth: 12,
	}
	for _, t := range models.TravelLoads {
		page.TravelLoads = append(page.TravelLoads, selectOption{Value: t, Label: travelLabels[t]})
	}

	h.render(w, "dashboard.html", page)
}

// LoginPage serves the login and registration form
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess != nil && sess.Authenticated && !sess.Expired(time.Now()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, "login.html", nil)
}

func (h *Handler) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Errorw("Failed to render page", "template", name, "error", err)
	}
}
