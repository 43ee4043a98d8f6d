package logic

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pitchside/injury-dashboard/internal/models"
	"github.com/pitchside/injury-dashboard/internal/predictor"
)

// Casing rules expected by the prediction service's label encoders.
var (
	roleCasing   = capitalizeFirst
	typeCasing   = capitalizeFirst
	travelCasing = capitalizeFirst
	formatCasing = strings.ToUpper
)

// NormalizeRecord builds the wire request from a form record. The first field
// that does not parse aborts with a validation error naming the source field.
func NormalizeRecord(r models.PlayerRecord) (models.PredictionRequest, error) {
	p := &fieldParser{}

	req := models.PredictionRequest{
		Age:                 p.integer("age", r.Age),
		PlayerRole:          roleCasing(strings.TrimSpace(r.PlayerRole)),
		PlayerType:          typeCasing(strings.TrimSpace(r.PlayerType)),
		BMI:                 p.float("bmi", r.BMI),
		MatchesLastWeek:     p.integer("matchesLastWeek", r.MatchesLastWeek),
		MatchesLastMonth:    p.integer("matchesLastMonth", r.MatchesLastMonth),
		BallsFacedLastMatch: p.integer("ballsFacedLastMatch", r.BallsFacedLastMatch),
		AcuteWorkload:       p.float("acuteWorkload", r.AcuteWorkload),
		ChronicWorkload:     p.float("chronicWorkload", r.ChronicWorkload),
		InjuriesLast30d:     p.integer("injuriesLast30Days", r.InjuriesLast30Days),
		RestDays:            p.integer("restDays", r.RestDays),
		TravelLoad:          travelCasing(strings.TrimSpace(r.TravelLoad)),
		MatchFormat:         formatCasing(strings.TrimSpace(r.MatchFormat)),
	}
	if p.err != nil {
		return models.PredictionRequest{}, p.err
	}
	return req, nil
}

// fieldParser keeps the first parse error
type fieldParser struct {
	err error
}

func (p *fieldParser) integer(field, raw string) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		p.err = predictor.ValidationError(field, err)
		return 0
	}
	return v
}

func (p *fieldParser) float(field, raw string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		err = strconv.ErrSyntax
	}
	if err != nil {
		p.err = predictor.ValidationError(field, err)
		return 0
	}
	return v
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
