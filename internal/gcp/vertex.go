package gcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// ErrNoText is returned when the model answers without any text part.
var ErrNoText = errors.New("model returned no text")

// VertexClient holds the pre-configured page extraction model on Vertex AI.
// It authenticates with application default credentials.
type VertexClient struct {
	ExtractionModel *genai.GenerativeModel
	baseClient      *genai.Client
}

// NewVertexClient creates a Vertex AI client for the given project, region and model.
func NewVertexClient(ctx context.Context, projectID, region, modelName string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return &VertexClient{
		ExtractionModel: baseClient.GenerativeModel(modelName),
		baseClient:      baseClient,
	}, nil
}

// GenerateText sends the prompt and a PNG page image to the model and returns its reply.
func (c *VertexClient) GenerateText(ctx context.Context, prompt string, png []byte) (string, error) {
	resp, err := c.ExtractionModel.GenerateContent(ctx, genai.Text(prompt), genai.ImageData("png", png))
	if err != nil {
		return "", fmt.Errorf("failed to generate content from gemini: %w", err)
	}
	return vertexResponseText(resp)
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// vertexResponseText concatenates the text parts of the first candidate.
func vertexResponseText(resp *genai.GenerateContentResponse) (string, error) {
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
