package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// LoadConsolidatedTB loads the trial balance of a period summed across the company's entities
func (r *Repository) LoadConsolidatedTB(ctx context.Context, companyID, period string) ([]models.Balance, error) {
	query := `
		SELECT tb.account_code, MAX(tb.account_name), SUM(tb.debit - tb.credit)
		FROM trial_balance tb
		INNER JOIN entities e ON tb.entity_id = e.id
		WHERE e.company_id = $1 AND tb.period = $2
		GROUP BY tb.account_code
		ORDER BY tb.account_code`
	rows, err := r.db.QueryContext(ctx, query, companyID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load trial balance: %w", err)
	}
	defer rows.Close()

	var balances []models.Balance
	for rows.Next() {
		var b models.Balance
		var name sql.NullString
		var amount sql.NullFloat64
		if err := rows.Scan(&b.AccountCode, &name, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance: %w", err)
		}
		b.AccountName = name.String
		b.NetAmount = amount.Float64
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trial balance: %w", err)
	}
	return balances, nil
}

// LoadChartOfAccounts loads the active chart of accounts with its full hierarchy
func (r *Repository) LoadChartOfAccounts(ctx context.Context, companyID string) ([]models.Account, error) {
	query := `
		SELECT DISTINCT
			coa.account_code, coa.account_name, coa.class_name, coa.subclass_name,
			coa.note_name, coa.subnote_name, coa.account_type, coa.normal_balance
		FROM chart_of_accounts coa
		INNER JOIN entities e ON coa.entity_id = e.id
		WHERE e.company_id = $1 AND coa.is_active = true
		ORDER BY coa.account_code`
	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		var name, class, subClass, note, subNote, accountType, normal sql.NullString
		if err := rows.Scan(&a.AccountCode, &name, &class, &subClass, &note, &subNote, &accountType, &normal); err != nil {
			return nil, fmt.Errorf("failed to scan chart of accounts: %w", err)
		}
		a.AccountName = name.String
		a.ClassName = class.String
		a.SubClassName = subClass.String
		a.NoteName = note.String
		a.SubNoteName = subNote.String
		a.AccountType = accountType.String
		a.NormalBalance = normal.String
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chart of accounts: %w", err)
	}
	return accounts, nil
}

// ListPeriods returns the distinct trial balance periods of a company, newest first
func (r *Repository) ListPeriods(ctx context.Context, companyID string) ([]string, error) {
	query := `
		SELECT DISTINCT tb.period
		FROM trial_balance tb
		INNER JOIN entities e ON tb.entity_id = e.id
		WHERE e.company_id = $1
		ORDER BY tb.period DESC`
	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read periods: %w", err)
	}
	return periods, nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, company_id, password_hash
		FROM users
		WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.CompanyID, &user.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
