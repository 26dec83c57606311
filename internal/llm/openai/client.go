package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"bankdocs-backend/internal/llm"
)

const defaultAPIURL = "https://api.openai.com/v1/chat/completions"

const (
	extractionMaxTokens     = 1000
	classificationMaxTokens = 300
)

// Client implements llm.Client using an OpenAI-compatible Chat Completions
// endpoint.
type Client struct {
	apiKey     string
	model      string
	apiURL     string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client. baseURL may be empty, in which
// case the public OpenAI endpoint is used; set it to target an
// Azure-compatible gateway.
func NewClient(apiKey, model, baseURL string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	apiURL := strings.TrimSpace(baseURL)
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// chatMessage content is either a plain string or a []contentPart for
// multimodal requests.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	Temperature    *float32       `json:"temperature,omitempty"`
	ResponseFormat responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *chatUsage `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// ExtractKYC sends the document text with the KYC extraction prompt and
// returns the raw JSON payload the model produced.
func (c *Client) ExtractKYC(ctx context.Context, input llm.ExtractInput) (json.RawMessage, error) {
	messages := []chatMessage{
		{Role: "system", Content: llm.KYCExtractionPrompt()},
		{Role: "user", Content: fmt.Sprintf("Extract KYC fields from this document:\n\n%s", input.DocumentText)},
	}
	return c.complete(ctx, "extract_kyc", messages, extractionMaxTokens)
}

// Classify sends the document image inline as a data URL and returns the raw
// classification JSON.
func (c *Client) Classify(ctx context.Context, input llm.ClassifyInput) (json.RawMessage, error) {
	encoded := base64.StdEncoding.EncodeToString(input.FileBytes)
	messages := []chatMessage{
		{Role: "system", Content: llm.ClassificationPrompt()},
		{Role: "user", Content: []contentPart{
			{Type: "text", Text: "Classify this banking document. Return only the JSON response."},
			{Type: "image_url", ImageURL: &imageURL{
				URL:    fmt.Sprintf("data:%s;base64,%s", input.MediaType, encoded),
				Detail: "high",
			}},
		}},
	}
	return c.complete(ctx, "classify", messages, classificationMaxTokens)
}

func (c *Client) complete(ctx context.Context, op string, messages []chatMessage, maxTokens int) (json.RawMessage, error) {
	temp := float32(0.1)
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: &temp,
		ResponseFormat: responseFormat{
			Type: "json_object",
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("openai request timeout: %w", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("openai response empty content")
	}
	logUsage(c.model, op, parsed.Usage)
	return json.RawMessage(content), nil
}

func logUsage(model, op string, usage *chatUsage) {
	if usage == nil {
		log.Printf("llm response model=%s op=%s", model, op)
		return
	}
	log.Printf("llm response model=%s op=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
		model, op, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
}

var _ llm.Client = (*Client)(nil)
