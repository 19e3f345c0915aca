package service

import (
	"testing"

	"github.com/Dan9191/cashflow-service/internal/models"
)

func TestSign(t *testing.T) {
	tests := []struct {
		category  string
		component string
		className string
		want      int
	}{
		{models.Operating, "Depreciation and Amortization", "Assets", 1},
		{models.Operating, "Change in Receivables", "Assets", -1},
		{models.Operating, "Change in Receivables", "", -1},
		{models.Operating, "Change in Inventory", "", -1},
		{models.Operating, "Change in Payables", "Liabilities", 1},
		{models.Operating, "Change in Payables", "", 1},
		{models.Operating, "Change in Other", "Current Assets", -1},
		{models.Operating, "Change in Other", "Current Liabilities", 1},
		{models.Operating, "Working Capital Adjustment", "Assets", -1},
		{models.Operating, "operating_profit", "Revenue", 1},
		{models.Operating, "tax", "Liabilities", 1},
		{models.Operating, "Other Operating Items", "", 1},
		{models.Investing, "Purchase of Property, Plant & Equipment", "Assets", -1},
		{models.Investing, "Proceeds from Disposal", "Assets", 1},
		{models.Investing, "Net Investment Activities", "Assets", -1},
		{models.Financing, "Dividends Paid", "Equity", -1},
		{models.Financing, "Loan Repayment", "Liabilities", -1},
		{models.Financing, "Net Borrowings", "Liabilities", 1},
		{models.Financing, "Net Equity Proceeds", "Equity", 1},
		{"Unknown", "Anything", "Assets", 1},
	}
	for _, tt := range tests {
		if got := Sign(tt.category, tt.component, tt.className); got != tt.want {
			t.Errorf("Sign(%s, %s, %s) = %d, want %d", tt.category, tt.component, tt.className, got, tt.want)
		}
	}
}

func TestSign_IsPure(t *testing.T) {
	args := [][3]string{
		{models.Operating, "Change in Receivables", "Assets"},
		{models.Investing, "Net Investment Activities", ""},
		{models.Financing, "Dividends Paid", "Equity"},
	}
	first := make([]int, len(args))
	for i, a := range args {
		first[i] = Sign(a[0], a[1], a[2])
	}
	for round := 0; round < 3; round++ {
		for i := len(args) - 1; i >= 0; i-- {
			a := args[i]
			if got := Sign(a[0], a[1], a[2]); got != first[i] {
				t.Fatalf("Sign%v changed from %d to %d", a, first[i], got)
			}
		}
	}
}
