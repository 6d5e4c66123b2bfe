// Package predictor provides the client for the external carbon-grade
// prediction service. Calls cross a trust boundary: they can time out or
// fail, and the pipeline must keep going without them.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ecotrace/carbon-cli/internal/model"
)

// Client defines the prediction boundary consumed by the pipeline.
type Client interface {
	// Predict submits the feature vector and returns the model's grade and
	// stated confidence.
	Predict(ctx context.Context, features model.FeatureVector) (*model.ModelPrediction, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout bounds each prediction call.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.timeout = d
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a predictor client.
func NewClient(baseURL, apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		timeout: 10 * time.Second,
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// predictResponse is the wire shape of the prediction response.
type predictResponse struct {
	Grade      string  `json:"grade"`
	Confidence float64 `json:"confidence"`
}

func (c *httpClient) Predict(ctx context.Context, features model.FeatureVector) (*model.ModelPrediction, error) {
	if c.baseURL == "" {
		return nil, eris.New("predictor: no endpoint configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(features)
	if err != nil {
		return nil, eris.Wrap(err, "predictor: marshal features")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "predictor: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "predictor: request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, eris.Wrap(err, "predictor: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("predictor: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var out predictResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "predictor: unmarshal response")
	}

	grade := model.Grade(out.Grade)
	if _, ok := grade.Ordinal(); !ok {
		return nil, eris.Errorf("predictor: unknown grade %q", out.Grade)
	}

	return &model.ModelPrediction{Grade: grade, Confidence: out.Confidence}, nil
}
