package models

import "time"

type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the /login body. /register only returns Message.
type AuthResponse struct {
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ToastVariant selects the notification style
type ToastVariant string

const (
	ToastDefault     ToastVariant = "default"
	ToastDestructive ToastVariant = "destructive"
)

// Toast is a dismissible user notification
type Toast struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Variant     ToastVariant `json:"variant"`
	CreatedAt   time.Time    `json:"created_at"`
}

// GaugeFrame is one rendered state of the risk gauge
type GaugeFrame struct {
	Displayed     float64  `json:"displayed"`
	Target        float64  `json:"target"`
	Tier          RiskTier `json:"tier"`
	Label         string   `json:"label"`
	Color         string   `json:"color"`
	TextClass     string   `json:"text_class"`
	Radius        float64  `json:"radius"`
	Circumference float64  `json:"circumference"`
	StrokeOffset  float64  `json:"stroke_offset"`
	Done          bool     `json:"done"`
}

// DashboardState is everything the result panel needs to render
type DashboardState struct {
	Username        string            `json:"username,omitempty"`
	Loading         bool              `json:"loading"`
	ShowResult      bool              `json:"show_result"`
	Outcome         PredictionOutcome `json:"outcome"`
	Gauge           *GaugeFrame       `json:"gauge,omitempty"`
	BackgroundClass string            `json:"background_class"`
	Toasts          []Toast           `json:"toasts"`
}
