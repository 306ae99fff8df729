package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanPayment struct {
	ID            int             `json:"id" db:"id"`
	LoanID        int             `json:"loan_id" db:"loan_id"`
	AccountID     int             `json:"account_id" db:"account_id"`
	PrincipalPaid decimal.Decimal `json:"principal_paid" db:"principal_paid"`
	InterestPaid  decimal.Decimal `json:"interest_paid" db:"interest_paid"`
	PaymentDate   time.Time       `json:"payment_date" db:"payment_date"`
	TransactionID *int            `json:"transaction_id,omitempty" db:"transaction_id"`
	Note          string          `json:"note" db:"note"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Полная сумма платежа: капитал плюс проценты.
func (p *LoanPayment) Total() decimal.Decimal {
	return p.PrincipalPaid.Add(p.InterestPaid)
}
