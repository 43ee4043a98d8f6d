// Command probe sends one sample player record through the prediction
// service, logging in (and optionally registering) first. It is a smoke test
// for a PREDICTOR_URL before pointing the dashboard at it.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/pitchside/injury-dashboard/internal/gauge"
	"github.com/pitchside/injury-dashboard/internal/logic"
	"github.com/pitchside/injury-dashboard/internal/models"
	"github.com/pitchside/injury-dashboard/internal/predictor"
)

func main() {
	baseURL := flag.String("url", envOr("PREDICTOR_URL", "http://localhost:5000"), "prediction service base URL")
	username := flag.String("username", "probe", "account username")
	password := flag.String("password", "probe-secret", "account password")
	register := flag.Bool("register", false, "register the account before logging in")
	timeout := flag.Duration("timeout", 15*time.Second, "per-call timeout")
	flag.Parse()

	client := predictor.New(predictor.Config{BaseURL: *baseURL, Timeout: *timeout})
	ctx := context.Background()
	creds := models.CredentialsRequest{Username: *username, Password: *password}

	if *register {
		resp, err := client.Register(ctx, creds)
		if err != nil {
			log.Printf("Register failed (continuing): %v", err)
		} else {
			log.Printf("Registered: %s", resp.Message)
		}
	}

	auth, err := client.Login(ctx, creds)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	record := models.PlayerRecord{
		PlayerName:          "Probe Player",
		Age:                 "27",
		PlayerRole:          "Batsman",
		PlayerType:          "Smooth",
		BMI:                 "23.4",
		MatchesLastWeek:     "2",
		MatchesLastMonth:    "7",
		BallsFacedLastMatch: "120",
		AcuteWorkload:       "410.5",
		ChronicWorkload:     "380",
		InjuriesLast30Days:  "0",
		RestDays:            "3",
		TravelLoad:          "Medium",
		MatchFormat:         "T20",
	}
	req, err := logic.NormalizeRecord(record)
	if err != nil {
		log.Fatalf("Sample record rejected: %v", err)
	}

	start := time.Now()
	risk, err := client.Predict(ctx, auth.Token, req)
	if err != nil {
		log.Fatalf("Prediction failed after %v: %v", time.Since(start), err)
	}

	tier := gauge.Classify(risk)
	log.Printf("Injury risk for %s: %.1f%% (%s) in %v", record.PlayerName, risk, tier.Label(), time.Since(start))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
