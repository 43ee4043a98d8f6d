package models

// PlayerRecord is the flat form record as typed into the dashboard. Every
// value is the raw string input; parsing happens when a request is built.
type PlayerRecord struct {
	PlayerName          string `json:"playerName" validate:"required"`
	Age                 string `json:"age" validate:"required"`
	PlayerRole          string `json:"playerRole" validate:"required,oneofci=Batsman Bowler All-rounder Wicket-keeper"`
	PlayerType          string `json:"playerType" validate:"required,oneofci=Aggressive Smooth Numb"`
	BMI                 string `json:"bmi" validate:"required"`
	MatchesLastWeek     string `json:"matchesLastWeek" validate:"required"`
	MatchesLastMonth    string `json:"matchesLastMonth" validate:"required"`
	BallsFacedLastMatch string `json:"ballsFacedLastMatch" validate:"required"`
	AcuteWorkload       string `json:"acuteWorkload" validate:"required"`
	ChronicWorkload     string `json:"chronicWorkload" validate:"required"`
	InjuriesLast30Days  string `json:"injuriesLast30Days" validate:"required"`
	RestDays            string `json:"restDays" validate:"required"`
	TravelLoad          string `json:"travelLoad" validate:"required,oneofci=Low Medium High"`
	MatchFormat         string `json:"matchFormat" validate:"required,oneofci=Test ODI T20"`
}

// DisplayName is the name shown next to a result.
func (r PlayerRecord) DisplayName() string {
	if r.PlayerName == "" {
		return "Player"
	}
	return r.PlayerName
}

// Closed enum sets accepted by the prediction service.
var (
	PlayerRoles  = []string{"Batsman", "Bowler", "All-rounder", "Wicket-keeper"}
	PlayerTypes  = []string{"Aggressive", "Smooth", "Numb"}
	TravelLoads  = []string{"Low", "Medium", "High"}
	MatchFormats = []string{"Test", "ODI", "T20"}
)
