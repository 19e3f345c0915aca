package models

// Account represents a chart of accounts row
type Account struct {
	AccountCode   string `json:"account_code"`
	AccountName   string `json:"account_name"`
	ClassName     string `json:"class_name,omitempty"`
	SubClassName  string `json:"sub_class_name,omitempty"`
	NoteName      string `json:"note_name,omitempty"`
	SubNoteName   string `json:"sub_note_name,omitempty"`
	AccountType   string `json:"account_type,omitempty"`
	NormalBalance string `json:"normal_balance,omitempty"` // Debit or Credit
}

// Balance represents a consolidated trial balance row for one period
type Balance struct {
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	NetAmount   float64 `json:"net_amount"` // Sum of debit - credit across entities
}
