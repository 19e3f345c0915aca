package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Category is a leaf cash flow category an account can be scored against
type Category string

const (
	OperatingProfit           Category = "operating_profit"
	DepreciationAmortization  Category = "depreciation_amortization"
	WorkingCapitalReceivables Category = "working_capital_receivables"
	WorkingCapitalInventory   Category = "working_capital_inventory"
	WorkingCapitalPayables    Category = "working_capital_payables"
	WorkingCapitalOther       Category = "working_capital_other"
	CapexPPE                  Category = "capex_ppe"
	CapexIntangibles          Category = "capex_intangibles"
	Investments               Category = "investments"
	Borrowings                Category = "borrowings"
	Equity                    Category = "equity"
	Dividends                 Category = "dividends"
	Interest                  Category = "interest"
	Tax                       Category = "tax"

	// Unclassified marks accounts no exemplar set matched
	Unclassified Category = "unclassified"
)

// Categories lists every leaf category in tie-break order
var Categories = []Category{
	OperatingProfit,
	DepreciationAmortization,
	WorkingCapitalReceivables,
	WorkingCapitalInventory,
	WorkingCapitalPayables,
	WorkingCapitalOther,
	CapexPPE,
	CapexIntangibles,
	Investments,
	Borrowings,
	Equity,
	Dividends,
	Interest,
	Tax,
}

// ExemplarTable maps each category to the phrases describing it
type ExemplarTable map[Category][]string

var defaultExemplars = ExemplarTable{
	OperatingProfit: {
		"revenue", "sales", "income", "profit", "loss",
		"cost of goods sold", "cost of sales", "gross profit",
	},
	DepreciationAmortization: {
		"depreciation", "amortization", "accumulated depreciation",
		"non-cash expense", "write-down", "impairment",
	},
	WorkingCapitalReceivables: {
		"trade receivables", "accounts receivable", "debtors",
		"receivables", "AR", "customer receivables",
	},
	WorkingCapitalInventory: {
		"inventory", "stock", "raw materials", "work in progress",
		"finished goods", "WIP",
	},
	WorkingCapitalPayables: {
		"trade payables", "accounts payable", "creditors",
		"payables", "AP", "supplier payables", "accrued expenses",
	},
	WorkingCapitalOther: {
		"prepayments", "accruals", "deferred revenue",
		"provisions", "other receivables", "other payables",
	},
	CapexPPE: {
		"property plant equipment", "PPE", "fixed assets",
		"land", "buildings", "machinery", "equipment", "vehicles",
	},
	CapexIntangibles: {
		"intangible assets", "goodwill", "software", "patents",
		"licenses", "trademarks", "intellectual property",
	},
	Investments: {
		"investments", "subsidiaries", "associates", "joint ventures",
		"financial assets", "securities",
	},
	Borrowings: {
		"loans", "borrowings", "debt", "bank loans", "bonds payable",
		"notes payable", "long-term debt", "short-term loans",
	},
	Equity: {
		"share capital", "common stock", "preferred stock",
		"retained earnings", "reserves", "equity", "capital",
	},
	Dividends: {
		"dividends", "dividend payable", "distributions",
	},
	Interest: {
		"interest expense", "interest income", "finance costs",
		"interest payable", "interest receivable",
	},
	Tax: {
		"income tax", "tax payable", "tax receivable",
		"deferred tax", "tax expense",
	},
}

// DefaultExemplars returns a copy of the built-in exemplar table
func DefaultExemplars() ExemplarTable {
	return defaultExemplars.clone()
}

func (t ExemplarTable) clone() ExemplarTable {
	out := make(ExemplarTable, len(t))
	for category, phrases := range t {
		out[category] = append([]string(nil), phrases...)
	}
	return out
}

// exemplarFile is the YAML layout of an exemplar override file
type exemplarFile struct {
	Categories []struct {
		Name     string   `yaml:"name"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"categories"`
}

// LoadExemplars reads phrase overrides from a YAML file on top of the defaults.
// Categories missing from the file keep their built-in phrases.
func LoadExemplars(path string) (ExemplarTable, error) {
	table := DefaultExemplars()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read exemplars file: %w", err)
	}
	return parseExemplars(data, table)
}

func parseExemplars(data []byte, table ExemplarTable) (ExemplarTable, error) {
	var file exemplarFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse exemplars file: %w", err)
	}

	for _, entry := range file.Categories {
		category := Category(entry.Name)
		if _, ok := defaultExemplars[category]; !ok {
			return nil, fmt.Errorf("unknown cash flow category %q", entry.Name)
		}
		if len(entry.Keywords) == 0 {
			return nil, fmt.Errorf("category %q has no keywords", entry.Name)
		}
		table[category] = append([]string(nil), entry.Keywords...)
	}
	return table, nil
}
