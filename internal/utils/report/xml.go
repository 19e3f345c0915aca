package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/beevik/etree"
)

// sections lists statement sections in presentation order
var sections = []struct {
	category string
	element  string
}{
	{models.Operating, "OperatingActivities"},
	{models.Investing, "InvestingActivities"},
	{models.Financing, "FinancingActivities"},
}

// RenderXML renders a statement as an XML document
func RenderXML(st *models.Statement) ([]byte, error) {
	if st == nil {
		return nil, fmt.Errorf("statement is nil")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("CashFlowStatement")
	root.CreateAttr("method", "indirect")
	root.CreateAttr("company", st.CompanyID)
	root.CreateAttr("currentPeriod", st.CurrentPeriod)
	root.CreateAttr("previousPeriod", st.PreviousPeriod)

	meta := root.CreateElement("Metadata")
	meta.CreateElement("RunID").SetText(st.Metadata.RunID)
	meta.CreateElement("GeneratedAt").SetText(st.Metadata.GeneratedAt.Format(time.RFC3339))
	meta.CreateElement("AIEnhanced").SetText(strconv.FormatBool(st.Metadata.AIEnhanced))
	meta.CreateElement("AccountsClassified").SetText(strconv.Itoa(st.Metadata.AccountsClassified))
	if st.Metadata.StatementDigest != "" {
		meta.CreateElement("Digest").SetText(st.Metadata.StatementDigest)
	}

	totals := map[string]float64{
		models.Operating: st.OperatingTotal,
		models.Investing: st.InvestingTotal,
		models.Financing: st.FinancingTotal,
	}
	for _, sec := range sections {
		el := root.CreateElement(sec.element)
		el.CreateAttr("total", formatAmount(totals[sec.category]))
		for _, c := range st.Components {
			if c.Category != sec.category {
				continue
			}
			writeComponent(el, c)
		}
	}
	root.CreateElement("NetCashChange").SetText(formatAmount(st.NetCashChange))

	if st.Validation != nil {
		v := root.CreateElement("Validation")
		v.CreateAttr("status", st.Validation.Status)
		for _, w := range st.Validation.Warnings {
			v.CreateElement("Warning").SetText(w)
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render statement XML: %w", err)
	}
	return out, nil
}

func writeComponent(parent *etree.Element, c models.Component) {
	el := parent.CreateElement("Component")
	el.CreateAttr("id", c.ID)
	el.CreateElement("Name").SetText(c.Name)
	if c.AISuggestedName != "" {
		el.CreateElement("SuggestedName").SetText(c.AISuggestedName)
	}
	el.CreateElement("CurrentValue").SetText(formatAmount(c.CurrentValue))
	el.CreateElement("PreviousValue").SetText(formatAmount(c.PreviousValue))
	el.CreateElement("Movement").SetText(formatAmount(c.Movement))
	el.CreateElement("CashImpact").SetText(formatAmount(c.CashImpact))
	el.CreateElement("Formula").SetText(c.Formula)
	if c.ConfidenceScore != nil {
		el.CreateElement("Confidence").SetText(strconv.FormatFloat(*c.ConfidenceScore, 'f', 2, 64))
	}

	accounts := el.CreateElement("Accounts")
	for _, code := range c.Accounts {
		accounts.CreateElement("Account").CreateAttr("code", code)
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
