package models

// User represents an API user bound to a company
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	CompanyID    string `json:"company_id"`
	PasswordHash string `json:"-"` // Not serialized
}
