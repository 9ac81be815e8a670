package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

const defaultPredictTimeout = 5 * time.Second

// PredictionClient talks to the external ML prediction service. A tight
// timeout keeps a slow service from blocking the request path; callers
// fall back to the rule-based predictor on any error.
type PredictionClient struct {
	baseURL string
	httpc   *http.Client
}

var _ MLPredictor = (*PredictionClient)(nil)

func NewPredictionClient(baseURL string, timeout time.Duration) *PredictionClient {
	if timeout <= 0 {
		timeout = defaultPredictTimeout
	}
	return &PredictionClient{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Predict POSTs the request to <base>/predict and decodes the result.
func (c *PredictionClient) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal prediction request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build prediction request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call prediction service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prediction service returned status %d", resp.StatusCode)
	}

	var out models.PredictionResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode prediction response: %w", err)
	}
	return &out, nil
}
