package service

import (
	"strings"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// Sign returns the multiplier turning a balance movement into a cash impact.
// It depends only on the section, the component label and the chart class.
func Sign(cfCategory, cfComponent, className string) int {
	component := strings.ToLower(cfComponent)

	switch cfCategory {
	case models.Operating:
		if containsAny(component, "depreciation", "amortization") {
			return 1
		}
		if containsAny(component, "change in", "working capital") {
			// Increase in current assets consumes cash, increase in current liabilities frees it
			if isAssetLike(className) || containsAny(component, "receivable", "inventory", "prepayment") {
				return -1
			}
			if isLiabilityLike(className) || containsAny(component, "payable", "accrual") {
				return 1
			}
		}
		return 1

	case models.Investing:
		if containsAny(component, "purchase", "acquisition", "capex") {
			return -1
		}
		if containsAny(component, "disposal", "sale", "proceeds") {
			return 1
		}
		return -1

	case models.Financing:
		if containsAny(component, "dividend", "repayment") {
			return -1
		}
		return 1
	}
	return 1
}

func isAssetLike(className string) bool {
	return strings.Contains(strings.ToLower(className), "asset")
}

func isLiabilityLike(className string) bool {
	return strings.Contains(strings.ToLower(className), "liabilit")
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
