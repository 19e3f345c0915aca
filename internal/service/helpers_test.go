package service

import (
	"io"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func classified(category, component, className string) models.Classification {
	return models.Classification{CFCategory: category, CFComponent: component, ClassName: className}
}

func sampleChart() []models.Account {
	return []models.Account{
		{AccountCode: "1200", AccountName: "Trade Receivables", ClassName: "Assets", NoteName: "Trade receivables"},
		{AccountCode: "1300", AccountName: "Raw Materials", ClassName: "Assets", NoteName: "Inventories"},
		{AccountCode: "1600", AccountName: "Office Equipment", ClassName: "Assets", NoteName: "Property plant equipment"},
		{AccountCode: "2100", AccountName: "Trade Payables", ClassName: "Liabilities", NoteName: "Trade payables"},
		{AccountCode: "2500", AccountName: "Bank Loan", ClassName: "Liabilities", NoteName: "Borrowings"},
		{AccountCode: "3100", AccountName: "Share Capital", ClassName: "Equity", NoteName: "Share capital"},
		{AccountCode: "9990", AccountName: "Suspense Clearing", ClassName: "Liabilities"},
	}
}
