package service

import (
	"context"
	"errors"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Fallback confidences used when the enhancer cannot give one
const (
	DefaultParseConfidence = 0.8
	DefaultErrorConfidence = 0.7
)

const (
	suggestedNameMinConfidence = 0.7
	enhancementAccountLimit    = 10
)

// ErrMalformedEnhancement is returned by enhancers whose response could not be parsed
var ErrMalformedEnhancement = errors.New("malformed enhancement response")

// Enhancement is an external reviewer's opinion on one component
type Enhancement struct {
	ConfidenceScore *float64
	SuggestedName   string
	Notes           string
}

// Enhancer reviews a single component
type Enhancer interface {
	Enhance(ctx context.Context, component models.Component, accountNames []string) (*Enhancement, error)
}

// Reviewer reviews a whole statement
type Reviewer interface {
	Review(ctx context.Context, components []models.Component, netCashChange float64) (*models.Validation, error)
}

// EnhanceComponents asks the enhancer about every component and records its
// answer in place. Only the confidence and AI annotation fields are written;
// failures fall back to fixed confidences and never abort.
func EnhanceComponents(ctx context.Context, enhancer Enhancer, components []models.Component, chart []models.Account, concurrency int, log *logrus.Logger) {
	if enhancer == nil || len(components) == 0 {
		return
	}
	if concurrency < 1 {
		concurrency = 1
	}

	names := accountNames(chart)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range components {
		c := &components[i]
		accounts := c.Accounts
		if len(accounts) > enhancementAccountLimit {
			accounts = accounts[:enhancementAccountLimit]
		}
		labels := make([]string, len(accounts))
		for j, code := range accounts {
			if name, ok := names[code]; ok {
				labels[j] = name
			} else {
				labels[j] = code
			}
		}

		// Each goroutine owns exactly one component.
		g.Go(func() error {
			applyEnhancement(gctx, enhancer, c, labels, log)
			return nil
		})
	}
	_ = g.Wait()
	log.Infof("AI enhancement complete for %d components", len(components))
}

func applyEnhancement(ctx context.Context, enhancer Enhancer, c *models.Component, labels []string, log *logrus.Logger) {
	enhancement, err := enhancer.Enhance(ctx, *c, labels)
	if err != nil {
		confidence := DefaultErrorConfidence
		if errors.Is(err, ErrMalformedEnhancement) {
			log.Warnf("Failed to parse AI response for component %s: %v", c.Name, err)
			confidence = DefaultParseConfidence
		} else {
			log.Errorf("Error enhancing component %s: %v", c.Name, err)
		}
		c.ConfidenceScore = &confidence
		return
	}
	if enhancement == nil {
		confidence := DefaultParseConfidence
		c.ConfidenceScore = &confidence
		return
	}

	confidence := DefaultParseConfidence
	if enhancement.ConfidenceScore != nil {
		confidence = clamp01(*enhancement.ConfidenceScore)
	}
	c.ConfidenceScore = &confidence
	// A name is only taken from an answer that scored itself
	if enhancement.SuggestedName != "" && enhancement.ConfidenceScore != nil && confidence > suggestedNameMinConfidence {
		c.AISuggestedName = enhancement.SuggestedName
	}
	if enhancement.Notes != "" {
		c.AINotes = enhancement.Notes
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
