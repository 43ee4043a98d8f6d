package models

// RiskTier is the semantic classification of an injury probability
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// Label is the user-facing tier label
func (t RiskTier) Label() string {
	switch t {
	case RiskLow:
		return "Low Risk"
	case RiskMedium:
		return "Medium Risk"
	case RiskHigh:
		return "High Risk"
	}
	return ""
}

// Color is the gauge stroke color
func (t RiskTier) Color() string {
	switch t {
	case RiskLow:
		return "hsl(142, 70%, 45%)"
	case RiskMedium:
		return "hsl(38, 92%, 50%)"
	case RiskHigh:
		return "hsl(0, 72%, 51%)"
	}
	return "hsl(var(--muted))"
}

// TextClass is the CSS class used for the numeral and label
func (t RiskTier) TextClass() string {
	switch t {
	case RiskLow:
		return "text-success"
	case RiskMedium:
		return "text-warning"
	case RiskHigh:
		return "text-danger"
	}
	return ""
}

// BackgroundClass tints the whole page once a result is shown
func (t RiskTier) BackgroundClass() string {
	switch t {
	case RiskLow:
		return "bg-success-light"
	case RiskMedium:
		return "bg-warning-light"
	case RiskHigh:
		return "bg-danger-light"
	}
	return ""
}
