// Package predictor is the HTTP client for the remote injury prediction service.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/pitchside/injury-dashboard/internal/models"
)

// MaxResponseSize caps how much of a response body is read
const MaxResponseSize = 1 << 20

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "injury_predictor_request_duration_seconds",
	Help:    "Duration of calls to the prediction service",
	Buckets: prometheus.DefBuckets,
}, []string{"endpoint", "result"})

// Config configures a Client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the prediction service
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.SugaredLogger
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		logger:  logger.Sugar(),
	}
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, creds models.CredentialsRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.post(ctx, "/login", "", creds, &out, DefaultLoginMessage); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account on the prediction service
func (c *Client) Register(ctx context.Context, creds models.CredentialsRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.post(ctx, "/register", "", creds, &out, DefaultRegisterMessage); err != nil {
		return nil, err
	}
	return &out, nil
}

// Predict submits one request and returns the injury probability in [0,100].
// token may be empty, in which case no Authorization header is sent.
func (c *Client) Predict(ctx context.Context, token string, req models.PredictionRequest) (float64, error) {
	var out models.PredictionResponse
	if err := c.post(ctx, "/predict", token, req, &out, DefaultPredictMessage); err != nil {
		return 0, err
	}
	if out.InjuryRisk == nil {
		return 0, &Error{Kind: KindService, Status: http.StatusOK, Message: DefaultPredictMessage,
			Err: fmt.Errorf("response missing injuryRisk")}
	}
	risk := *out.InjuryRisk
	if risk < 0 || risk > 100 {
		return 0, &Error{Kind: KindService, Status: http.StatusOK, Message: DefaultPredictMessage,
			Err: fmt.Errorf("injuryRisk %v out of range", risk)}
	}
	return risk, nil
}

func (c *Client) post(ctx context.Context, path, token string, body, out interface{}, fallback string) error {
	start := time.Now()
	result := "ok"
	defer func() {
		requestDuration.WithLabelValues(path, result).Observe(time.Since(start).Seconds())
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		result = "encode_error"
		return &Error{Kind: KindValidation, Message: fallback, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		result = "transport_error"
		return &Error{Kind: KindTransport, Message: DefaultTransportMessage, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		result = "transport_error"
		c.logger.Warnw("Prediction service unreachable", "path", path, "error", err)
		return &Error{Kind: KindTransport, Message: DefaultTransportMessage, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		result = "transport_error"
		return &Error{Kind: KindTransport, Message: DefaultTransportMessage, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result = "service_error"
		msg := fallback
		var errBody models.ErrorResponse
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			msg = errBody.Error
		}
		c.logger.Warnw("Prediction service returned error", "path", path, "status", resp.StatusCode, "message", msg)
		return &Error{Kind: KindService, Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		result = "decode_error"
		return &Error{Kind: KindService, Status: resp.StatusCode, Message: fallback, Err: err}
	}
	return nil
}
