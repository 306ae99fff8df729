package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionIncome   = "income"
	TransactionExpense  = "expense"
	TransactionTransfer = "transfer"
)

// Происхождение транзакции: обычная пользовательская запись либо
// зеркальная запись, принадлежащая займу или платежу по займу.
type TransactionOrigin string

const (
	OriginUser    TransactionOrigin = "user"
	OriginLoan    TransactionOrigin = "loan"
	OriginPayment TransactionOrigin = "payment"
)

type Transaction struct {
	ID          int             `json:"id" db:"id"`
	UserID      int             `json:"user_id" db:"user_id"`
	Type        string          `json:"type" db:"type"`
	AccountID   int             `json:"account_id" db:"account_id"`
	ToAccountID *int            `json:"to_account_id,omitempty" db:"to_account_id"`
	CategoryID  *int            `json:"category_id,omitempty" db:"category_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Date        time.Time       `json:"date" db:"date"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
