package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

var (
	ErrMissingPeriods     = errors.New("current_period and previous_period are required")
	ErrNoTrialBalance     = errors.New("no trial balance data found for specified periods")
	ErrNoChartOfAccounts  = errors.New("no chart of accounts found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Store provides the data the service reads
type Store interface {
	LoadConsolidatedTB(ctx context.Context, companyID, period string) ([]models.Balance, error)
	LoadChartOfAccounts(ctx context.Context, companyID string) ([]models.Account, error)
	ListPeriods(ctx context.Context, companyID string) ([]string, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service handles business logic
type Service struct {
	repo       Store
	log        *logrus.Logger
	config     *config.Config
	scorer     Scorer
	embeddings *EmbeddingScorer
	enhancer   Enhancer
	reviewer   Reviewer
}

// Option configures optional collaborators of the service
type Option func(*Service)

// WithScorer replaces the default lexical scorer
func WithScorer(scorer Scorer) Option {
	return func(s *Service) { s.scorer = scorer }
}

// WithEmbeddings classifies with embedding similarity, falling back to the scorer
func WithEmbeddings(embeddings *EmbeddingScorer) Option {
	return func(s *Service) { s.embeddings = embeddings }
}

// WithEnhancer enables per-component AI review
func WithEnhancer(enhancer Enhancer) Option {
	return func(s *Service) { s.enhancer = enhancer }
}

// WithReviewer enables whole-statement AI review
func WithReviewer(reviewer Reviewer) Option {
	return func(s *Service) { s.reviewer = reviewer }
}

// NewService initializes a new service
func NewService(repo Store, log *logrus.Logger, cfg *config.Config, opts ...Option) *Service {
	s := &Service{repo: repo, log: log, config: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.scorer == nil {
		s.scorer = NewLexicalScorer(DefaultExemplars())
	}
	return s
}

// GenerateRequest describes a statement to generate
type GenerateRequest struct {
	CompanyID      string
	CurrentPeriod  string
	PreviousPeriod string
	UseAI          bool
}

// GenerateStatement loads both trial balances and the chart of accounts,
// classifies the accounts and builds the cash flow statement
func (s *Service) GenerateStatement(ctx context.Context, req GenerateRequest) (*models.Statement, error) {
	if strings.TrimSpace(req.CurrentPeriod) == "" || strings.TrimSpace(req.PreviousPeriod) == "" {
		return nil, ErrMissingPeriods
	}

	var current, previous []models.Balance
	var chart []models.Account
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		current, err = s.repo.LoadConsolidatedTB(gctx, req.CompanyID, req.CurrentPeriod)
		return err
	})
	g.Go(func() (err error) {
		previous, err = s.repo.LoadConsolidatedTB(gctx, req.CompanyID, req.PreviousPeriod)
		return err
	})
	g.Go(func() (err error) {
		chart, err = s.repo.LoadChartOfAccounts(gctx, req.CompanyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.log.Infof("Loaded %d current and %d previous accounts for company %s", len(current), len(previous), req.CompanyID)

	if len(current) == 0 || len(previous) == 0 {
		return nil, ErrNoTrialBalance
	}

	classifications := s.classifier(ctx, chart).ClassifyAccounts(chart, current)
	s.log.Infof("Classified %d accounts", len(classifications))

	components := CalculateComponents(current, previous, classifications, chart)
	s.log.Infof("Generated %d cash flow components", len(components))
	digest := utils.StatementDigest(components, s.config.HMACSecret)

	aiEnhanced := false
	if req.UseAI && s.enhancer != nil {
		EnhanceComponents(ctx, s.enhancer, components, chart, s.config.EnhanceConcurrency, s.log)
		aiEnhanced = true
	}

	totals := ComputeTotals(components)
	statement := &models.Statement{
		Success:        true,
		CompanyID:      req.CompanyID,
		CurrentPeriod:  req.CurrentPeriod,
		PreviousPeriod: req.PreviousPeriod,
		Components:     components,
		OperatingTotal: totals.Operating,
		InvestingTotal: totals.Investing,
		FinancingTotal: totals.Financing,
		NetCashChange:  totals.NetCashChange,
		Metadata: models.StatementMetadata{
			RunID:              uuid.New().String(),
			TotalComponents:    len(components),
			AIEnhanced:         aiEnhanced,
			AccountsClassified: len(classifications),
			GeneratedAt:        time.Now().UTC(),
			StatementDigest:    digest,
		},
	}

	if req.UseAI && s.reviewer != nil {
		statement.Validation = s.review(ctx, components, totals.NetCashChange)
	}
	return statement, nil
}

// ClassifyCompany classifies the chart of accounts of a company
func (s *Service) ClassifyCompany(ctx context.Context, companyID string) (map[string]models.Classification, error) {
	chart, err := s.repo.LoadChartOfAccounts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if len(chart) == 0 {
		return nil, ErrNoChartOfAccounts
	}

	classifications := s.classifier(ctx, chart).ClassifyAccounts(chart, nil)
	s.log.Infof("Classified %d accounts for company %s", len(classifications), companyID)
	return classifications, nil
}

// ListPeriods returns the trial balance periods of a company, newest first
func (s *Service) ListPeriods(ctx context.Context, companyID string) ([]string, error) {
	return s.repo.ListPeriods(ctx, companyID)
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	tokenString, err := utils.GenerateToken(user.ID, user.CompanyID, s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// classifier picks the scorer for one request. Embedding inference happens
// here, before the pure classification runs.
func (s *Service) classifier(ctx context.Context, chart []models.Account) *Classifier {
	if s.embeddings == nil {
		return NewClassifier(s.scorer)
	}

	texts := make([]string, 0, len(chart))
	for _, account := range chart {
		texts = append(texts, AccountText(account.AccountName, HierarchyContext(account)))
	}
	scorer, err := s.embeddings.Prepare(ctx, texts)
	if err != nil {
		s.log.Warnf("Embedding classification unavailable, using lexical scorer: %v", err)
		return NewClassifier(s.scorer)
	}
	return NewClassifier(scorer)
}

func (s *Service) review(ctx context.Context, components []models.Component, netCashChange float64) *models.Validation {
	validation, err := s.reviewer.Review(ctx, components, netCashChange)
	if err != nil || validation == nil {
		if err == nil {
			err = errors.New("empty review")
		}
		s.log.Errorf("Error validating statement: %v", err)
		return &models.Validation{
			Status:       "ERROR",
			Observations: []string{},
			Warnings:     []string{fmt.Sprintf("Validation failed: %v", err)},
			Suggestions:  []string{},
		}
	}
	s.log.Infof("Validation status: %s", validation.Status)
	return validation
}
