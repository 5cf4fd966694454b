package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"gymbros/fitness-tracker/internal/domain"

	log "github.com/sirupsen/logrus"
)

const maxResponseBytes = 1 << 20

// HTTPClient posts plan requests to an external generator. Output that does
// not decode into a plan is replaced with the fallback template; transport
// failures are returned to the caller.
type HTTPClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
	fallback Fallback
}

func NewHTTPClient(endpoint, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// New picks the HTTP generator when an endpoint is configured.
func New(endpoint, apiKey string, timeout time.Duration) Generator {
	if endpoint == "" {
		return Fallback{}
	}
	return NewHTTPClient(endpoint, apiKey, timeout)
}

func (c *HTTPClient) Generate(ctx context.Context, req Request) (*Plan, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("plan generator request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read plan generator response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("plan generator responded %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	plan, err := decodePlan(raw)
	if err != nil {
		log.Warnf("plan generator output rejected, using fallback: %s", err)
		return c.fallback.Generate(ctx, req)
	}
	return plan, nil
}

func decodePlan(raw []byte) (*Plan, error) {
	var plan Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, errors.Join(ErrMalformedPlan, err)
	}
	if !validObject(plan.PlanContent) || !validObject(plan.WeeklySchedule) {
		return nil, ErrMalformedPlan
	}
	plan.Source = domain.PlanSourceAI
	return &plan, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
