package service

import (
	"sort"
	"strings"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// ComputeMovements joins two balance snapshots on account code. Every code in
// either snapshot yields exactly one movement; a missing side counts as zero.
// The result is sorted by account code, so input order never matters.
func ComputeMovements(current, previous []models.Balance) []models.Movement {
	type side struct {
		name   string
		amount float64
	}
	collect := func(rows []models.Balance) map[string]*side {
		out := make(map[string]*side, len(rows))
		for _, row := range rows {
			code := strings.TrimSpace(row.AccountCode)
			if code == "" {
				continue
			}
			s, ok := out[code]
			if !ok {
				s = &side{}
				out[code] = s
			}
			if s.name == "" {
				s.name = row.AccountName
			}
			s.amount += row.NetAmount
		}
		return out
	}

	cur := collect(current)
	prev := collect(previous)

	codes := make([]string, 0, len(cur)+len(prev))
	for code := range cur {
		codes = append(codes, code)
	}
	for code := range prev {
		if _, ok := cur[code]; !ok {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)

	movements := make([]models.Movement, 0, len(codes))
	for _, code := range codes {
		m := models.Movement{AccountCode: code}
		if c, ok := cur[code]; ok {
			m.CurrentBalance = c.amount
			m.AccountName = c.name
		}
		if p, ok := prev[code]; ok {
			m.PreviousBalance = p.amount
			if m.AccountName == "" {
				m.AccountName = p.name
			}
		}
		m.Movement = m.CurrentBalance - m.PreviousBalance
		movements = append(movements, m)
	}
	return movements
}
