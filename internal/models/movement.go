package models

// Movement represents the change of one account between two periods
type Movement struct {
	AccountCode     string  `json:"account_code"`
	AccountName     string  `json:"account_name"`
	CurrentBalance  float64 `json:"current_balance"`
	PreviousBalance float64 `json:"previous_balance"`
	Movement        float64 `json:"movement"`
}
