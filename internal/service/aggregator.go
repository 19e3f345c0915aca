package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// MaterialityThreshold is the smallest absolute cash impact a component may have
const MaterialityThreshold = 1000.0

const formulaAccountLimit = 5

type componentGroup struct {
	category  string
	component string
	members   []models.Movement
	signCode  string
	signClass string
}

// CalculateComponents computes movements between the two snapshots and
// aggregates them into statement components.
func CalculateComponents(current, previous []models.Balance, classifications map[string]models.Classification, chart []models.Account) []models.Component {
	return Aggregate(ComputeMovements(current, previous), classifications, chart)
}

// Aggregate groups classified movements into signed components, drops the
// immaterial ones and orders the rest in statement order.
func Aggregate(movements []models.Movement, classifications map[string]models.Classification, chart []models.Account) []models.Component {
	var groups []*componentGroup
	index := make(map[string]*componentGroup)

	for _, m := range movements {
		c, ok := classifications[m.AccountCode]
		if !ok {
			continue
		}

		key := componentKey(c.CFCategory, c.CFComponent)
		g, ok := index[key]
		if !ok {
			g = &componentGroup{category: c.CFCategory, component: c.CFComponent}
			index[key] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, m)

		// The group is signed by its lowest account code so the sign does not
		// depend on the order members arrive in.
		if g.signCode == "" || m.AccountCode < g.signCode {
			g.signCode = m.AccountCode
			g.signClass = c.ClassName
		}
	}

	names := accountNames(chart)
	components := make([]models.Component, 0, len(groups))
	for _, g := range groups {
		sign := Sign(g.category, g.component, g.signClass)
		current, previous, movement := g.totals()
		cashImpact := movement * float64(sign)
		if math.Abs(cashImpact) < MaterialityThreshold {
			continue
		}

		codes := make([]string, len(g.members))
		for i, m := range g.members {
			codes[i] = m.AccountCode
		}

		components = append(components, models.Component{
			ID:            g.category + "_" + g.component,
			Name:          g.component,
			Category:      g.category,
			CurrentValue:  current,
			PreviousValue: previous,
			Movement:      movement,
			CashImpact:    cashImpact,
			Accounts:      codes,
			Formula:       buildFormula(codes, names),
			Sign:          sign,
		})
	}

	sort.SliceStable(components, func(i, j int) bool {
		ri, rj := categoryRank(components[i].Category), categoryRank(components[j].Category)
		if ri != rj {
			return ri < rj
		}
		return math.Abs(components[i].CashImpact) > math.Abs(components[j].CashImpact)
	})
	return components
}

// totals sums members in account code order so the result is identical
// however the movements were ordered.
func (g *componentGroup) totals() (current, previous, movement float64) {
	sorted := make([]models.Movement, len(g.members))
	copy(sorted, g.members)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].AccountCode < sorted[j].AccountCode })
	for _, m := range sorted {
		current += m.CurrentBalance
		previous += m.PreviousBalance
		movement += m.Movement
	}
	return current, previous, movement
}

// ComputeTotals sums cash impact per section
func ComputeTotals(components []models.Component) models.Totals {
	var t models.Totals
	for _, c := range components {
		switch c.Category {
		case models.Operating:
			t.Operating += c.CashImpact
		case models.Investing:
			t.Investing += c.CashImpact
		case models.Financing:
			t.Financing += c.CashImpact
		}
	}
	t.NetCashChange = t.Operating + t.Investing + t.Financing
	return t
}

func componentKey(category, component string) string {
	return category + "::" + component
}

func categoryRank(category string) int {
	switch category {
	case models.Operating:
		return 0
	case models.Investing:
		return 1
	case models.Financing:
		return 2
	}
	return 99
}

func accountNames(chart []models.Account) map[string]string {
	names := make(map[string]string, len(chart))
	for _, a := range chart {
		code := strings.TrimSpace(a.AccountCode)
		if _, ok := names[code]; ok || a.AccountName == "" {
			continue
		}
		names[code] = a.AccountName
	}
	return names
}

func buildFormula(codes []string, names map[string]string) string {
	if len(codes) == 0 {
		return ""
	}
	shown := codes
	if len(shown) > formulaAccountLimit {
		shown = shown[:formulaAccountLimit]
	}
	parts := make([]string, len(shown))
	for i, code := range shown {
		if name, ok := names[code]; ok {
			parts[i] = name
		} else {
			parts[i] = code
		}
	}
	formula := strings.Join(parts, " + ")
	if rest := len(codes) - formulaAccountLimit; rest > 0 {
		formula += fmt.Sprintf(" + %d more", rest)
	}
	return formula
}
