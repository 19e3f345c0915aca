package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dan9191/cashflow-service/internal/models"
)

const reviewSystemPrompt = `You are an expert financial auditor reviewing a cash flow statement.

Check for:
1. Reasonableness of operating cash flow vs profit
2. Expected patterns in working capital
3. Material investing or financing activities
4. Overall cash flow health
5. Any red flags or unusual patterns`

const reviewPrompt = `Review this consolidated cash flow statement:

Components:
%s

Net Cash Change: %.2f

Provide a brief validation report highlighting:
- Key observations
- Warnings or red flags (if any)
- Suggestions for improvement

Return as JSON with keys: status (OK/WARNING/ERROR), observations (list), warnings (list), suggestions (list)`

var validStatuses = map[string]bool{"OK": true, "WARNING": true, "ERROR": true}

// Reviewer validates whole statements with an LLM
type Reviewer struct {
	gen TextGenerator
}

// NewReviewer creates a statement reviewer
func NewReviewer(gen TextGenerator) *Reviewer {
	return &Reviewer{gen: gen}
}

// Review returns the model's verdict on a statement
func (r *Reviewer) Review(ctx context.Context, components []models.Component, netCashChange float64) (*models.Validation, error) {
	lines := make([]string, 0, len(components))
	for _, c := range components {
		lines = append(lines, fmt.Sprintf("- %s: %s = %.2f", c.Category, c.Name, c.CashImpact))
	}

	raw, err := r.gen.Generate(ctx, reviewSystemPrompt, fmt.Sprintf(reviewPrompt, strings.Join(lines, "\n"), netCashChange))
	if err != nil {
		return nil, err
	}

	var v models.Validation
	if err := decodeJSON(raw, &v); err != nil {
		return nil, err
	}
	v.Status = strings.ToUpper(strings.TrimSpace(v.Status))
	if !validStatuses[v.Status] {
		return nil, fmt.Errorf("unexpected review status %q", v.Status)
	}
	if v.Observations == nil {
		v.Observations = []string{}
	}
	if v.Warnings == nil {
		v.Warnings = []string{}
	}
	if v.Suggestions == nil {
		v.Suggestions = []string{}
	}
	return &v, nil
}
