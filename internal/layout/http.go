package layout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// HTTPClient implements Client against a document-analysis HTTP endpoint
// (Azure Document Intelligence style: model in the path, API key header,
// binary body in, analysis JSON out).
type HTTPClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient constructs a layout client for the given endpoint.
func NewHTTPClient(endpoint, apiKey string) (*HTTPClient, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("LAYOUT_ENDPOINT is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("LAYOUT_API_KEY is required")
	}
	timeout := 60 * time.Second
	if raw := strings.TrimSpace(os.Getenv("LAYOUT_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &HTTPClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type analyzeError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze posts document bytes for analysis under the given model.
func (c *HTTPClient) Analyze(ctx context.Context, fileBytes []byte, modelID string) (*Result, error) {
	if modelID == "" {
		modelID = ModelLayout
	}

	url := fmt.Sprintf("%s/documentModels/%s:analyze", c.endpoint, modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(fileBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("layout request timeout: %w", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var parsed analyzeError
		if jsonErr := json.Unmarshal(body, &parsed); jsonErr == nil && parsed.Error.Message != "" {
			return nil, fmt.Errorf("layout error: %s (%s)", parsed.Error.Message, parsed.Error.Code)
		}
		return nil, fmt.Errorf("layout error: status %d", resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("layout response parse: %w", err)
	}
	result.ModelID = modelID
	return &result, nil
}

var _ Client = (*HTTPClient)(nil)
