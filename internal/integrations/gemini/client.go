package gemini

import (
	"context"
	"fmt"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const embedBatchSize = 100

// Client handles integration with the Gemini API
type Client struct {
	client         *genai.Client
	model          string
	embeddingModel string
	log            *logrus.Logger
}

// NewClient initializes a new Gemini client
func NewClient(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{
		client:         client,
		model:          cfg.GeminiModel,
		embeddingModel: cfg.GeminiEmbeddingModel,
		log:            log,
	}, nil
}

// Generate sends a prompt with a system instruction and asks for a JSON answer
func (c *Client) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		// Low temperature for consistent financial analysis
		Temperature:      genai.Ptr(float32(0.1)),
		ResponseMIMEType: "application/json",
	}
	if systemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	return result.Text(), nil
}

// Embed returns one embedding per text, in order
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		contents := make([]*genai.Content, 0, end-start)
		for _, t := range texts[start:end] {
			contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
		}
		resp, err := c.client.Models.EmbedContent(ctx, c.embeddingModel, contents, nil)
		if err != nil {
			return nil, fmt.Errorf("gemini embedding failed: %w", err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("gemini returned %d embeddings for %d texts", len(resp.Embeddings), end-start)
		}
		for _, e := range resp.Embeddings {
			vectors = append(vectors, e.Values)
		}
	}
	c.log.Debugf("Embedded %d texts with %s", len(texts), c.embeddingModel)
	return vectors, nil
}
