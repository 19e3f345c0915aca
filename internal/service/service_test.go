package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct {
	balances map[string][]models.Balance
	chart    []models.Account
	periods  []string
	users    map[string]*models.User
	err      error
}

func (f *fakeStore) LoadConsolidatedTB(_ context.Context, _, period string) ([]models.Balance, error) {
	return f.balances[period], f.err
}

func (f *fakeStore) LoadChartOfAccounts(context.Context, string) ([]models.Account, error) {
	return f.chart, f.err
}

func (f *fakeStore) ListPeriods(context.Context, string) ([]string, error) {
	return f.periods, f.err
}

func (f *fakeStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

type fakeReviewer struct {
	validation *models.Validation
	err        error
}

func (f *fakeReviewer) Review(context.Context, []models.Component, float64) (*models.Validation, error) {
	return f.validation, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "jwt-secret",
		TokenTTL:           time.Hour,
		HMACSecret:         "hmac-secret",
		EnhanceConcurrency: 2,
	}
}

func sampleStore() *fakeStore {
	return &fakeStore{
		chart: sampleChart(),
		balances: map[string][]models.Balance{
			"2024-12": {
				{AccountCode: "1200", AccountName: "Trade Receivables", NetAmount: 50000},
				{AccountCode: "1300", AccountName: "Raw Materials", NetAmount: 12000},
				{AccountCode: "1600", AccountName: "Office Equipment", NetAmount: 80000},
				{AccountCode: "2500", AccountName: "Bank Loan", NetAmount: -100000},
				{AccountCode: "9990", AccountName: "Suspense Clearing", NetAmount: -500},
			},
			"2023-12": {
				{AccountCode: "1200", AccountName: "Trade Receivables", NetAmount: 30000},
				{AccountCode: "1300", AccountName: "Raw Materials", NetAmount: 15000},
				{AccountCode: "1600", AccountName: "Office Equipment", NetAmount: 60000},
				{AccountCode: "2500", AccountName: "Bank Loan", NetAmount: -70000},
			},
		},
		periods: []string{"2024-12", "2023-12"},
	}
}

func generateRequest(useAI bool) GenerateRequest {
	return GenerateRequest{CompanyID: "acme", CurrentPeriod: "2024-12", PreviousPeriod: "2023-12", UseAI: useAI}
}

func TestGenerateStatement_MissingPeriods(t *testing.T) {
	s := NewService(sampleStore(), quietLogger(), testConfig())
	_, err := s.GenerateStatement(context.Background(), GenerateRequest{CompanyID: "acme", CurrentPeriod: "2024-12"})
	if !errors.Is(err, ErrMissingPeriods) {
		t.Errorf("err = %v, want ErrMissingPeriods", err)
	}
}

func TestGenerateStatement_NoTrialBalance(t *testing.T) {
	store := sampleStore()
	delete(store.balances, "2023-12")
	s := NewService(store, quietLogger(), testConfig())

	_, err := s.GenerateStatement(context.Background(), generateRequest(false))
	if !errors.Is(err, ErrNoTrialBalance) {
		t.Errorf("err = %v, want ErrNoTrialBalance", err)
	}
}

func TestGenerateStatement_StoreError(t *testing.T) {
	store := sampleStore()
	store.err = errors.New("connection refused")
	s := NewService(store, quietLogger(), testConfig())

	if _, err := s.GenerateStatement(context.Background(), generateRequest(false)); err == nil {
		t.Error("expected store error")
	}
}

func TestGenerateStatement(t *testing.T) {
	s := NewService(sampleStore(), quietLogger(), testConfig())

	st, err := s.GenerateStatement(context.Background(), generateRequest(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !st.Success || st.CompanyID != "acme" || st.CurrentPeriod != "2024-12" || st.PreviousPeriod != "2023-12" {
		t.Errorf("unexpected header %+v", st)
	}
	if st.Metadata.TotalComponents != len(st.Components) {
		t.Errorf("total_components = %d, components = %d", st.Metadata.TotalComponents, len(st.Components))
	}
	if st.Metadata.AccountsClassified != len(sampleChart()) {
		t.Errorf("accounts_classified = %d", st.Metadata.AccountsClassified)
	}
	if st.Metadata.AIEnhanced {
		t.Error("no enhancer configured, statement must not be marked enhanced")
	}
	if st.Metadata.RunID == "" || st.Metadata.GeneratedAt.IsZero() {
		t.Error("run metadata missing")
	}
	if !utils.VerifyStatementDigest(st.Components, "hmac-secret", st.Metadata.StatementDigest) {
		t.Error("statement digest does not verify")
	}
	if st.Validation != nil {
		t.Error("validation must be absent without a reviewer")
	}

	var operating, investing, financing float64
	for _, c := range st.Components {
		if math.Abs(c.CashImpact) < MaterialityThreshold {
			t.Errorf("immaterial component %s", c.ID)
		}
		if c.ConfidenceScore != nil {
			t.Errorf("%s: confidence must be unset without an enhancer", c.ID)
		}
		switch c.Category {
		case models.Operating:
			operating += c.CashImpact
		case models.Investing:
			investing += c.CashImpact
		case models.Financing:
			financing += c.CashImpact
		}
	}
	if st.OperatingTotal != operating || st.InvestingTotal != investing || st.FinancingTotal != financing {
		t.Errorf("section totals do not match components")
	}
	if st.NetCashChange != st.OperatingTotal+st.InvestingTotal+st.FinancingTotal {
		t.Errorf("net cash change %f does not match sections", st.NetCashChange)
	}

	receivables := findComponent(st.Components, "Change in Receivables")
	if receivables == nil || receivables.CashImpact != -20000 {
		t.Errorf("receivables component = %+v", receivables)
	}
	if findComponent(st.Components, ComponentWorkingCapitalAdj) != nil {
		t.Error("suspense movement of 500 is immaterial")
	}
}

func TestGenerateStatement_WithAI(t *testing.T) {
	enhancer := &fakeEnhancer{answer: func(models.Component) (*Enhancement, error) {
		return &Enhancement{ConfidenceScore: floatPtr(0.9), Notes: "ok"}, nil
	}}
	reviewer := &fakeReviewer{validation: &models.Validation{Status: "OK", Observations: []string{"balanced"}}}
	s := NewService(sampleStore(), quietLogger(), testConfig(), WithEnhancer(enhancer), WithReviewer(reviewer))

	plain, err := NewService(sampleStore(), quietLogger(), testConfig()).GenerateStatement(context.Background(), generateRequest(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, err := s.GenerateStatement(context.Background(), generateRequest(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !st.Metadata.AIEnhanced {
		t.Error("statement must be marked enhanced")
	}
	if st.Metadata.StatementDigest != plain.Metadata.StatementDigest {
		t.Error("enhancement must not change the statement digest")
	}
	if st.NetCashChange != plain.NetCashChange {
		t.Errorf("enhancement changed net cash change: %f vs %f", st.NetCashChange, plain.NetCashChange)
	}
	for _, c := range st.Components {
		if c.ConfidenceScore == nil || *c.ConfidenceScore != 0.9 {
			t.Errorf("%s: confidence = %v", c.ID, c.ConfidenceScore)
		}
	}
	if st.Validation == nil || st.Validation.Status != "OK" {
		t.Errorf("validation = %+v", st.Validation)
	}

	disabled, err := s.GenerateStatement(context.Background(), generateRequest(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if disabled.Metadata.AIEnhanced || disabled.Validation != nil {
		t.Error("use_ai=false must skip enhancement and review")
	}
}

func TestGenerateStatement_ReviewFailure(t *testing.T) {
	reviewer := &fakeReviewer{err: errors.New("quota exceeded")}
	s := NewService(sampleStore(), quietLogger(), testConfig(), WithReviewer(reviewer))

	st, err := s.GenerateStatement(context.Background(), generateRequest(true))
	if err != nil {
		t.Fatalf("review failure must not fail the statement: %v", err)
	}
	if st.Validation == nil || st.Validation.Status != "ERROR" {
		t.Fatalf("validation = %+v", st.Validation)
	}
	if len(st.Validation.Warnings) != 1 || !strings.HasPrefix(st.Validation.Warnings[0], "Validation failed: ") {
		t.Errorf("warnings = %v", st.Validation.Warnings)
	}
}

func TestGenerateStatement_EmbeddingFallback(t *testing.T) {
	embedder := &keywordEmbedder{keywords: []string{"receivable", "loan"}}
	embeddings, err := NewEmbeddingScorer(context.Background(), embedder, DefaultExemplars(), NewLexicalScorer(DefaultExemplars()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	embedder.err = errors.New("embedding service down")
	s := NewService(sampleStore(), quietLogger(), testConfig(), WithEmbeddings(embeddings))

	st, err := s.GenerateStatement(context.Background(), generateRequest(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if findComponent(st.Components, "Change in Receivables") == nil {
		t.Error("lexical fallback should still classify receivables")
	}
}

func TestClassifyCompany(t *testing.T) {
	s := NewService(sampleStore(), quietLogger(), testConfig())
	classifications, err := s.ClassifyCompany(context.Background(), "acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(classifications) != len(sampleChart()) {
		t.Errorf("classified %d accounts", len(classifications))
	}
	if c := classifications["2500"]; c.CFCategory != models.Financing || c.CFComponent != ComponentBorrowings {
		t.Errorf("2500 = %s/%s", c.CFCategory, c.CFComponent)
	}

	empty := sampleStore()
	empty.chart = nil
	if _, err := NewService(empty, quietLogger(), testConfig()).ClassifyCompany(context.Background(), "acme"); !errors.Is(err, ErrNoChartOfAccounts) {
		t.Errorf("err = %v, want ErrNoChartOfAccounts", err)
	}
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	store := sampleStore()
	store.users = map[string]*models.User{
		"cfo@acme.test": {ID: 7, Email: "cfo@acme.test", CompanyID: "acme", PasswordHash: string(hash)},
	}
	s := NewService(store, quietLogger(), testConfig())

	token, err := s.Login(context.Background(), "cfo@acme.test", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := utils.ParseToken(token, "jwt-secret")
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.CompanyID != "acme" || claims.Subject != "7" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := s.Login(context.Background(), "cfo@acme.test", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := s.Login(context.Background(), "nobody@acme.test", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v", err)
	}
}

func findComponent(components []models.Component, name string) *models.Component {
	for i := range components {
		if components[i].Name == name {
			return &components[i]
		}
	}
	return nil
}
