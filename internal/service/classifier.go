package service

import (
	"strings"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// Component labels produced by the classifier
const (
	ComponentDepreciation      = "Depreciation and Amortization"
	ComponentPPE               = "Purchase of Property, Plant & Equipment"
	ComponentIntangibles       = "Purchase of Intangible Assets"
	ComponentInvestments       = "Net Investment Activities"
	ComponentBorrowings        = "Net Borrowings"
	ComponentEquity            = "Net Equity Proceeds"
	ComponentDividends         = "Dividends Paid"
	ComponentWorkingCapitalAdj = "Working Capital Adjustment"
	ComponentOtherOperating    = "Other Operating Items"
)

const workingCapitalPrefix = "working_capital_"

var investingComponents = map[Category]string{
	CapexPPE:         ComponentPPE,
	CapexIntangibles: ComponentIntangibles,
	Investments:      ComponentInvestments,
}

var financingComponents = map[Category]string{
	Borrowings: ComponentBorrowings,
	Equity:     ComponentEquity,
	Dividends:  ComponentDividends,
}

// Classifier maps ledger accounts to cash flow components
type Classifier struct {
	scorer Scorer
}

// NewClassifier creates a classifier backed by the given scorer
func NewClassifier(scorer Scorer) *Classifier {
	return &Classifier{scorer: scorer}
}

// Classify scores one account against every category
func (c *Classifier) Classify(accountName, hierarchy string) ScoreVector {
	return c.scorer.Score(AccountText(accountName, hierarchy))
}

// ClassifyAccounts classifies every chart row, keyed by account code.
// Balances are accepted for callers that want to prioritise material
// accounts; they do not change the result.
func (c *Classifier) ClassifyAccounts(chart []models.Account, balances []models.Balance) map[string]models.Classification {
	_ = balances

	classifications := make(map[string]models.Classification, len(chart))
	for _, account := range chart {
		code := strings.TrimSpace(account.AccountCode)
		if code == "" {
			continue
		}
		if _, dup := classifications[code]; dup {
			continue
		}

		scores := c.Classify(account.AccountName, HierarchyContext(account))
		top, confidence := topCategory(scores)
		cfCategory, cfComponent := MapToCashFlow(top, account.ClassName)

		all := make(map[string]float64, len(scores))
		for category, score := range scores {
			all[string(category)] = score
		}

		classifications[code] = models.Classification{
			AccountName: account.AccountName,
			TopCategory: string(top),
			Confidence:  confidence,
			AllScores:   all,
			CFCategory:  cfCategory,
			CFComponent: cfComponent,
			ClassName:   account.ClassName,
			NoteName:    account.NoteName,
		}
	}
	return classifications
}

// HierarchyContext joins the non-empty class, note and sub-note names
func HierarchyContext(account models.Account) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{account.ClassName, account.NoteName, account.SubNoteName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// AccountText is the text an account is scored on
func AccountText(accountName, hierarchy string) string {
	return strings.ToLower(strings.TrimSpace(accountName + " " + hierarchy))
}

// topCategory picks the highest score. Ties go to the category listed first
// in Categories; no positive score means the account is unclassified.
func topCategory(scores ScoreVector) (Category, float64) {
	best := Unclassified
	bestScore := 0.0
	found := false
	for _, category := range Categories {
		score, ok := scores[category]
		if !ok {
			continue
		}
		if !found || score > bestScore {
			best, bestScore, found = category, score, true
		}
	}
	if !found || bestScore <= 0 {
		return Unclassified, bestScore
	}
	return best, bestScore
}

// MapToCashFlow resolves the statement section and component label for a category
func MapToCashFlow(top Category, className string) (string, string) {
	switch top {
	case OperatingProfit, Tax, Interest:
		return models.Operating, string(top)
	case DepreciationAmortization:
		return models.Operating, ComponentDepreciation
	}

	if strings.HasPrefix(string(top), workingCapitalPrefix) {
		suffix := strings.TrimPrefix(string(top), workingCapitalPrefix)
		return models.Operating, "Change in " + titleCase(strings.ReplaceAll(suffix, "_", " "))
	}
	if component, ok := investingComponents[top]; ok {
		return models.Investing, component
	}
	if component, ok := financingComponents[top]; ok {
		return models.Financing, component
	}

	if isAssetLike(className) || isLiabilityLike(className) {
		return models.Operating, ComponentWorkingCapitalAdj
	}
	return models.Operating, ComponentOtherOperating
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
