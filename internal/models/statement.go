package models

import "time"

// Component represents one line of the cash flow statement
type Component struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	CurrentValue    float64  `json:"current_value"`
	PreviousValue   float64  `json:"previous_value"`
	Movement        float64  `json:"movement"`
	CashImpact      float64  `json:"cash_impact"`
	Accounts        []string `json:"accounts"`
	Formula         string   `json:"formula"`
	ConfidenceScore *float64 `json:"confidence_score"`
	AISuggestedName string   `json:"ai_suggested_name,omitempty"`
	AINotes         string   `json:"ai_notes,omitempty"`
	Sign            int      `json:"-"`
}

// Totals holds the per-section sums of cash impact
type Totals struct {
	Operating     float64 `json:"operating_total"`
	Investing     float64 `json:"investing_total"`
	Financing     float64 `json:"financing_total"`
	NetCashChange float64 `json:"net_cash_change"`
}

// Validation is the reviewer's verdict on a whole statement
type Validation struct {
	Status       string   `json:"status"` // OK, WARNING or ERROR
	Observations []string `json:"observations"`
	Warnings     []string `json:"warnings"`
	Suggestions  []string `json:"suggestions"`
}

// StatementMetadata describes how a statement was produced
type StatementMetadata struct {
	RunID              string    `json:"run_id"`
	TotalComponents    int       `json:"total_components"`
	AIEnhanced         bool      `json:"ai_enhanced"`
	AccountsClassified int       `json:"accounts_classified"`
	GeneratedAt        time.Time `json:"generated_at"`
	StatementDigest    string    `json:"statement_digest,omitempty"`
}

// Statement represents a generated cash flow statement
type Statement struct {
	Success        bool              `json:"success"`
	CompanyID      string            `json:"company_id"`
	CurrentPeriod  string            `json:"current_period"`
	PreviousPeriod string            `json:"previous_period"`
	Components     []Component       `json:"components"`
	OperatingTotal float64           `json:"operating_total"`
	InvestingTotal float64           `json:"investing_total"`
	FinancingTotal float64           `json:"financing_total"`
	NetCashChange  float64           `json:"net_cash_change"`
	Metadata       StatementMetadata `json:"metadata"`
	Validation     *Validation       `json:"validation,omitempty"`
}
