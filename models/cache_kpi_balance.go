package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Материализованный агрегат за месяц. Всегда можно пересчитать заново,
// вручную не редактируется.
type CacheKpiBalance struct {
	ID                 int             `json:"id" db:"id"`
	UserID             int             `json:"user_id" db:"user_id"`
	PeriodYear         int             `json:"period_year" db:"period_year"`
	PeriodMonth        int             `json:"period_month" db:"period_month"`
	Incomes            decimal.Decimal `json:"incomes" db:"incomes"`
	Expenses           decimal.Decimal `json:"expenses" db:"expenses"`
	Savings            decimal.Decimal `json:"savings" db:"savings"`
	Withdrawals        decimal.Decimal `json:"withdrawals" db:"withdrawals"`
	Loans              decimal.Decimal `json:"loans" db:"loans"`
	Payments           decimal.Decimal `json:"payments" db:"payments"`
	TotalInflows       decimal.Decimal `json:"total_inflows" db:"total_inflows"`
	TotalOutflows      decimal.Decimal `json:"total_outflows" db:"total_outflows"`
	NetCashFlow        decimal.Decimal `json:"net_cash_flow" db:"net_cash_flow"`
	NetSavings         decimal.Decimal `json:"net_savings" db:"net_savings"`
	AvailableBalance   decimal.Decimal `json:"available_balance" db:"available_balance"`
	PrincipalBreakdown decimal.Decimal `json:"principal_breakdown" db:"principal_breakdown"`
	InterestBreakdown  decimal.Decimal `json:"interest_breakdown" db:"interest_breakdown"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}
