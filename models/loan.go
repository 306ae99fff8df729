package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	LoanActive = "active"
	LoanClosed = "closed"
)

type Loan struct {
	ID                    int             `json:"id" db:"id"`
	UserID                int             `json:"user_id" db:"user_id"`
	Name                  string          `json:"name" db:"name"`
	TotalAmount           decimal.Decimal `json:"total_amount" db:"total_amount"`
	PrincipalPaid         decimal.Decimal `json:"principal_paid" db:"principal_paid"`
	InterestPaid          decimal.Decimal `json:"interest_paid" db:"interest_paid"`
	Balance               decimal.Decimal `json:"balance" db:"balance"`
	DisbursementAccountID int             `json:"disbursement_account_id" db:"disbursement_account_id"`
	TransactionID         *int            `json:"transaction_id,omitempty" db:"transaction_id"`
	Status                string          `json:"status" db:"status"`
	StartDate             time.Time       `json:"start_date" db:"start_date"`
	Note                  string          `json:"note" db:"note"`
	CreatedAt             time.Time       `json:"created_at" db:"created_at"`
}
