package models

import "time"

// PredictionRequest is the wire body for POST /predict. Built once per
// submission from a PlayerRecord and never modified afterwards.
type PredictionRequest struct {
	Age                 int     `json:"age"`
	PlayerRole          string  `json:"playerRole"`
	PlayerType          string  `json:"playerType"`
	BMI                 float64 `json:"bmi"`
	MatchesLastWeek     int     `json:"matchesLastWeek"`
	MatchesLastMonth    int     `json:"matchesLastMonth"`
	BallsFacedLastMatch int     `json:"ballsFacedLastMatch"`
	AcuteWorkload       float64 `json:"acuteWorkload"`
	ChronicWorkload     float64 `json:"chronicWorkload"`
	InjuriesLast30d     int     `json:"injuriesLast30d"`
	RestDays            int     `json:"restDays"`
	TravelLoad          string  `json:"travelLoad"`
	MatchFormat         string  `json:"matchFormat"`
}

// PredictionResponse is the success body returned by the prediction service.
// InjuryRisk is a pointer so a missing field can be told apart from 0.
type PredictionResponse struct {
	InjuryRisk *float64 `json:"injuryRisk"`
}

// OutcomeKind tags a PredictionOutcome
type OutcomeKind string

const (
	OutcomeIdle    OutcomeKind = "idle"
	OutcomePending OutcomeKind = "pending"
	OutcomeSuccess OutcomeKind = "success"
	OutcomeFailure OutcomeKind = "failure"
)

// PredictionOutcome is the live result of one submission cycle.
type PredictionOutcome struct {
	Kind        OutcomeKind `json:"kind"`
	CycleID     string      `json:"cycle_id,omitempty"`
	Probability float64     `json:"probability,omitempty"`
	Message     string      `json:"message,omitempty"`
	PlayerName  string      `json:"player_name,omitempty"`
	SettledAt   time.Time   `json:"settled_at,omitempty"`
}

func IdleOutcome() PredictionOutcome {
	return PredictionOutcome{Kind: OutcomeIdle}
}

func PendingOutcome(cycleID, playerName string) PredictionOutcome {
	return PredictionOutcome{Kind: OutcomePending, CycleID: cycleID, PlayerName: playerName}
}

func SuccessOutcome(cycleID, playerName string, probability float64) PredictionOutcome {
	return PredictionOutcome{
		Kind:        OutcomeSuccess,
		CycleID:     cycleID,
		PlayerName:  playerName,
		Probability: probability,
		SettledAt:   time.Now().UTC(),
	}
}

func FailureOutcome(cycleID, playerName, message string) PredictionOutcome {
	return PredictionOutcome{
		Kind:       OutcomeFailure,
		CycleID:    cycleID,
		PlayerName: playerName,
		Message:    message,
		SettledAt:  time.Now().UTC(),
	}
}

// Settled reports whether the outcome is terminal (Success or Failure).
func (o PredictionOutcome) Settled() bool {
	return o.Kind == OutcomeSuccess || o.Kind == OutcomeFailure
}

// HistoryEntry is a settled outcome as persisted by the history recorder
type HistoryEntry struct {
	CycleID     string
	SessionID   string
	PlayerName  string
	Request     *PredictionRequest
	Kind        OutcomeKind
	Probability float64
	Tier        RiskTier
	Message     string
	SettledAt   time.Time
}
