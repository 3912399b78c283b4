package gcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient talks to the Gemini API directly using an API key.
type GeminiClient struct {
	ExtractionModel *genai.GenerativeModel
	baseClient      *genai.Client
}

// NewGeminiClient creates a Gemini API client. The key is required; an empty
// key is reported here rather than on the first page request.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("NewGeminiClient: apiKey cannot be empty")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	baseClient, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return &GeminiClient{
		ExtractionModel: baseClient.GenerativeModel(modelName),
		baseClient:      baseClient,
	}, nil
}

// GenerateText sends the prompt and a PNG page image to the model and returns its reply.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string, png []byte) (string, error) {
	resp, err := c.ExtractionModel.GenerateContent(ctx, genai.Text(prompt), genai.ImageData("png", png))
	if err != nil {
		return "", fmt.Errorf("failed to generate content from gemini: %w", err)
	}
	return geminiResponseText(resp)
}

func (c *GeminiClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

func geminiResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoText
	}

	var b strings.Builder
	var found bool
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
			found = true
		}
	}
	if !found {
		return "", ErrNoText
	}
	return b.String(), nil
}
