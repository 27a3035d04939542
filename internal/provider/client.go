package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/strideworks/stride/internal/domain"
)

// Client provides access to the external analysis/plan provider. One
// method per intent family; every method honors the per-task timeout and
// returns a typed error on transport failure or an explicit error marker.
type Client interface {
	AnalyzeLastRun(ctx context.Context, conversationID string) (*Analysis, error)
	CompareRecentRuns(ctx context.Context, conversationID string, numRuns int) (*Analysis, error)
	FitnessTrend(ctx context.Context, conversationID string, months int) (*Analysis, error)
	Weather(ctx context.Context, lat, lon float64) (*WeatherReport, error)
	CoachAnswer(ctx context.Context, question string, proficiency domain.Proficiency, summary string) (*Analysis, error)
	GeneratePlan(ctx context.Context, req PlanRequest) (*PlanResult, error)
	TrainingSummary(ctx context.Context, conversationID string, weeks int) (*TrainingSummary, error)
	ClassifyIntent(ctx context.Context, req ClassifyRequest) (*ClassifyResult, error)
}

// httpClient implements Client against the agent-service HTTP API.
type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a Client that talks to the analysis provider.
func NewHTTPClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

type analysisRequest struct {
	ConversationID string `json:"conversation_id"`
	NumRuns        int    `json:"num_runs,omitempty"`
	Months         int    `json:"months,omitempty"`
}

type weatherRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type coachRequest struct {
	Question    string `json:"question"`
	Proficiency string `json:"proficiency,omitempty"`
	Summary     string `json:"summary,omitempty"`
}

type summaryRequest struct {
	ConversationID string `json:"conversation_id"`
	Weeks          int    `json:"weeks"`
}

func (c *httpClient) AnalyzeLastRun(ctx context.Context, conversationID string) (*Analysis, error) {
	var out Analysis
	if err := c.call(ctx, TaskLastRun, "/analyze-last-run", analysisRequest{ConversationID: conversationID}, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProviderFailure, out.Error)
	}
	return &out, nil
}

func (c *httpClient) CompareRecentRuns(ctx context.Context, conversationID string, numRuns int) (*Analysis, error) {
	var out Analysis
	req := analysisRequest{ConversationID: conversationID, NumRuns: numRuns}
	if err := c.call(ctx, TaskRecentRuns, "/compare-recent-runs", req, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProviderFailure, out.Error)
	}
	return &out, nil
}

func (c *httpClient) FitnessTrend(ctx context.Context, conversationID string, months int) (*Analysis, error) {
	var out Analysis
	req := analysisRequest{ConversationID: conversationID, Months: months}
	if err := c.call(ctx, TaskTrend, "/fitness-trend", req, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProviderFailure, out.Error)
	}
	return &out, nil
}

func (c *httpClient) Weather(ctx context.Context, lat, lon float64) (*WeatherReport, error) {
	var out WeatherReport
	if err := c.call(ctx, TaskWeather, "/weather", weatherRequest{Lat: lat, Lon: lon}, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProviderFailure, out.Error)
	}
	return &out, nil
}

func (c *httpClient) CoachAnswer(ctx context.Context, question string, proficiency domain.Proficiency, summary string) (*Analysis, error) {
	var out Analysis
	req := coachRequest{Question: question, Proficiency: string(proficiency), Summary: summary}
	if err := c.call(ctx, TaskCoach, "/coach-qa", req, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProviderFailure, out.Error)
	}
	return &out, nil
}

func (c *httpClient) GeneratePlan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	var out PlanResult
	if err := c.call(ctx, TaskPlan, "/generate-plan", req, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProviderFailure, out.Error)
	}
	return &out, nil
}

func (c *httpClient) TrainingSummary(ctx context.Context, conversationID string, weeks int) (*TrainingSummary, error) {
	var out TrainingSummary
	req := summaryRequest{ConversationID: conversationID, Weeks: weeks}
	if err := c.call(ctx, TaskSummary, "/training-summary", req, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProviderFailure, out.Error)
	}
	return &out, nil
}

func (c *httpClient) ClassifyIntent(ctx context.Context, req ClassifyRequest) (*ClassifyResult, error) {
	var env classifyEnvelope
	if err := c.call(ctx, TaskClassify, "/classify-intent", req, &env); err != nil {
		return nil, err
	}
	if env.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProviderFailure, env.Error)
	}

	result, err := ExtractJSON[ClassifyResult](env.Raw, validateClassifyResult)
	if err != nil {
		return nil, err
	}
	result.Raw = env.Raw
	return &result, nil
}

// validateClassifyResult is a schema validator for ExtractJSON.
func validateClassifyResult(r ClassifyResult) error {
	if !domain.ValidIntents[r.Intent] {
		return fmt.Errorf("unknown intent: %s", r.Intent)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence must be in [0,1], got %f", r.Confidence)
	}
	return nil
}

// call posts a JSON body and decodes the JSON response, with per-task
// timeout, retries, and observer events.
func (c *httpClient) call(ctx context.Context, task TaskType, path string, body, dest any) error {
	start := time.Now()

	timeoutMs := c.cfg.TaskTimeout(task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		err := c.doRequest(ctx, path, body, dest)
		if err == nil {
			c.observer.OnCallComplete(CallEvent{
				Task:      task,
				LatencyMs: time.Since(start).Milliseconds(),
				Success:   true,
			})
			return nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout
		if ctx.Err() != nil {
			break
		}
	}

	c.observer.OnCallComplete(CallEvent{
		Task:      task,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: errorCode(lastErr, ctx),
	})

	if ctx.Err() != nil {
		return ErrTimeout
	}
	if isConnectionError(lastErr) {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
}

func (c *httpClient) doRequest(ctx context.Context, path string, body, dest any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	url := c.cfg.Endpoint + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error, ctx context.Context) string {
	switch {
	case ctx.Err() != nil:
		return "TIMEOUT"
	case err == nil:
		return ""
	case isConnectionError(err):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
