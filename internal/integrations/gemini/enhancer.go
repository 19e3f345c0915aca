package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/service"
	"github.com/sirupsen/logrus"
)

// TextGenerator produces a model answer for a system and user prompt
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, prompt string) (string, error)
}

const enhancementSystemPrompt = `You are an expert financial analyst specializing in cash flow statements under IFRS and GAAP.

Your task is to review automatically generated cash flow components and:
1. Validate the classification (Operating/Investing/Financing)
2. Assess confidence in the categorization
3. Suggest improvements to component naming if needed
4. Flag any unusual patterns

Consider the indirect method:
- Operating: Start with profit, adjust for non-cash items, working capital changes
- Investing: Long-term asset transactions (PPE, intangibles, investments)
- Financing: Equity and debt transactions, dividends

Working capital logic:
- Current assets increase = cash outflow (negative)
- Current liabilities increase = cash inflow (positive)`

const enhancementPrompt = `Analyze this cash flow component:

Component Name: %s
Category: %s
Accounts Included: %s
Current Period Value: %.2f
Previous Period Value: %.2f
Movement: %.2f
Calculated Cash Impact: %.2f

Provide:
1. Confidence score (0-1) for this classification
2. Suggested improved name (if current name is unclear)
3. Brief notes on correctness and any concerns

Return your analysis as JSON with keys: confidence_score, suggested_name, notes`

type enhancementResponse struct {
	ConfidenceScore *float64 `json:"confidence_score"`
	SuggestedName   *string  `json:"suggested_name"`
	Notes           *string  `json:"notes"`
}

// Enhancer reviews cash flow components with an LLM
type Enhancer struct {
	gen TextGenerator
	log *logrus.Logger
}

// NewEnhancer creates an enhancer on top of a text generator
func NewEnhancer(gen TextGenerator, log *logrus.Logger) *Enhancer {
	return &Enhancer{gen: gen, log: log}
}

// Enhance asks the model for a confidence score, a better name and notes
func (e *Enhancer) Enhance(ctx context.Context, c models.Component, accountNames []string) (*service.Enhancement, error) {
	prompt := fmt.Sprintf(enhancementPrompt,
		c.Name, c.Category, strings.Join(accountNames, ", "),
		c.CurrentValue, c.PreviousValue, c.Movement, c.CashImpact)

	raw, err := e.gen.Generate(ctx, enhancementSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var resp enhancementResponse
	if err := decodeJSON(raw, &resp); err != nil {
		e.log.Debugf("Unparseable enhancement for %s: %s", c.Name, raw)
		return nil, err
	}

	out := &service.Enhancement{ConfidenceScore: resp.ConfidenceScore}
	if resp.SuggestedName != nil {
		out.SuggestedName = strings.TrimSpace(*resp.SuggestedName)
	}
	if resp.Notes != nil {
		out.Notes = strings.TrimSpace(*resp.Notes)
	}
	return out, nil
}
