package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	openaiAPIURL    = "https://api.openai.com/v1/responses"
	defaultGPTModel = "gpt-4o"
)

// OpenAIProvider implements the Provider interface against the OpenAI
// responses API, which carries the web_search tool the company lookups
// depend on.
type OpenAIProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIProvider creates a new OpenAI provider with the given API key and model.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = defaultGPTModel
	}
	return &OpenAIProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: openaiAPIURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

type openaiRequest struct {
	Model string            `json:"model"`
	Input []openaiInput     `json:"input"`
	Text  *openaiTextConfig `json:"text,omitempty"`
	Tools []openaiTool      `json:"tools,omitempty"`
	Store bool              `json:"store"`
}

type openaiInput struct {
	Role    string          `json:"role"`
	Content []openaiContent `json:"content"`
}

type openaiContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type openaiTextConfig struct {
	Format openaiTextFormat `json:"format"`
}

type openaiTextFormat struct {
	Type string `json:"type"`
}

type openaiTool struct {
	Type              string `json:"type"`
	SearchContextSize string `json:"search_context_size,omitempty"`
}

type openaiResponse struct {
	Model  string `json:"model"`
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Infer sends the prompt to OpenAI and returns the complete response.
// The system prompt is delivered in the developer role, which is what the
// responses API expects for instructions.
func (p *OpenAIProvider) Infer(ctx context.Context, system, user string, opts Options) (*Result, error) {
	model := p.model
	if opts.Model != "" {
		model = opts.Model
	}

	input := make([]openaiInput, 0, 2)
	if system != "" {
		input = append(input, openaiInput{
			Role:    "developer",
			Content: []openaiContent{{Type: "input_text", Text: system}},
		})
	}
	input = append(input, openaiInput{
		Role:    "user",
		Content: []openaiContent{{Type: "input_text", Text: user}},
	})

	reqBody := openaiRequest{
		Model: model,
		Input: input,
		Store: false,
	}
	if opts.JSONOnly {
		reqBody.Text = &openaiTextConfig{Format: openaiTextFormat{Type: "json_object"}}
	}
	if opts.WebSearch {
		reqBody.Tools = []openaiTool{{Type: "web_search", SearchContextSize: "medium"}}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp openaiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("could not parse response: %w", err)
	}

	if apiResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", apiResp.Error.Message)
	}

	// Collect output_text items across all message outputs; web search
	// responses interleave tool call items that carry no text.
	var b strings.Builder
	for _, out := range apiResp.Output {
		if out.Type != "" && out.Type != "message" {
			continue
		}
		for _, c := range out.Content {
			if c.Type == "output_text" {
				b.WriteString(c.Text)
			}
		}
	}
	if b.Len() == 0 {
		return nil, fmt.Errorf("API returned no output text")
	}

	return &Result{
		Content:      b.String(),
		Model:        apiResp.Model,
		InputTokens:  apiResp.Usage.InputTokens,
		OutputTokens: apiResp.Usage.OutputTokens,
	}, nil
}
