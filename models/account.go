package models

import "github.com/shopspring/decimal"

const (
	AccountCash   = "cash"
	AccountBank   = "bank"
	AccountCard   = "card"
	AccountSaving = "saving"
)

type Account struct {
	ID       int             `json:"id" db:"id"`
	UserID   int             `json:"user_id" db:"user_id"`
	Name     string          `json:"name" db:"name"`
	Type     string          `json:"type" db:"type"`
	Balance  decimal.Decimal `json:"balance" db:"balance"`
	IsActive bool            `json:"is_active" db:"is_active"`
}
