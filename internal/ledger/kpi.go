package ledger

import (
	"context"

	"github.com/valeriaulyamaeva/ledger-engine/models"
)

// RecalcMonthlyKPIs пересчитывает строку кеша месячных показателей из
// уже зафиксированных данных и выполняет идемпотентный upsert по ключу
// (пользователь, год, месяц). Повторный вызов без новых мутаций даёт ту же
// сохранённую строку.
func (e *Engine) RecalcMonthlyKPIs(ctx context.Context, userID, year, month int) error {
	totals, err := e.store.MonthlyTotals(ctx, userID, year, month)
	if err != nil {
		return err
	}

	totalInflows := totals.Incomes.Add(totals.Loans)
	totalOutflows := totals.Expenses.Add(totals.Payments)
	netCashFlow := totalInflows.Sub(totalOutflows)
	netSavings := totals.Savings.Sub(totals.Withdrawals)
	availableBalance := netCashFlow.Sub(netSavings)

	row := &models.CacheKpiBalance{
		UserID:             userID,
		PeriodYear:         year,
		PeriodMonth:        month,
		Incomes:            totals.Incomes,
		Expenses:           totals.Expenses,
		Savings:            totals.Savings,
		Withdrawals:        totals.Withdrawals,
		Loans:              totals.Loans,
		Payments:           totals.Payments,
		TotalInflows:       totalInflows,
		TotalOutflows:      totalOutflows,
		NetCashFlow:        netCashFlow,
		NetSavings:         netSavings,
		AvailableBalance:   availableBalance,
		PrincipalBreakdown: totals.PrincipalBreakdown,
		InterestBreakdown:  totals.InterestBreakdown,
	}

	return e.store.UpsertKpi(ctx, row)
}
