package models

// Cash flow statement sections
const (
	Operating = "Operating"
	Investing = "Investing"
	Financing = "Financing"
)

// Classification represents the cash flow mapping of a single account
type Classification struct {
	AccountName string             `json:"account_name"`
	TopCategory string             `json:"top_category"`
	Confidence  float64            `json:"confidence"`
	AllScores   map[string]float64 `json:"all_scores"`
	CFCategory  string             `json:"cf_category"`
	CFComponent string             `json:"cf_component"`
	ClassName   string             `json:"class_name,omitempty"`
	NoteName    string             `json:"note_name,omitempty"`
}
