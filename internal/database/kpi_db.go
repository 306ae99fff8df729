package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

// Консолидированный запрос месяца. Доходы исключают зеркала займов,
// расходы — зеркала платежей, чтобы не считать их дважды.
func (s *Store) MonthlyTotals(ctx context.Context, userID, year, month int) (*ledger.MonthlyTotals, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(t.amount)
			          FROM transactions t
			          LEFT JOIN loans l ON l.transaction_id = t.id
			          WHERE t.user_id = $1
			            AND t.type = 'income'
			            AND l.id IS NULL
			            AND EXTRACT(YEAR FROM t.date) = $2
			            AND EXTRACT(MONTH FROM t.date) = $3), 0) AS incomes,

			COALESCE((SELECT SUM(t.amount)
			          FROM transactions t
			          LEFT JOIN loan_payments lp ON lp.transaction_id = t.id
			          WHERE t.user_id = $1
			            AND t.type = 'expense'
			            AND lp.id IS NULL
			            AND EXTRACT(YEAR FROM t.date) = $2
			            AND EXTRACT(MONTH FROM t.date) = $3), 0) AS expenses,

			COALESCE((SELECT SUM(t.amount)
			          FROM transactions t
			          JOIN accounts a_to ON a_to.id = t.to_account_id
			          WHERE t.user_id = $1
			            AND t.type = 'transfer'
			            AND a_to.type = 'saving'
			            AND EXTRACT(YEAR FROM t.date) = $2
			            AND EXTRACT(MONTH FROM t.date) = $3), 0) AS savings,

			COALESCE((SELECT SUM(t.amount)
			          FROM transactions t
			          JOIN accounts a_from ON a_from.id = t.account_id
			          JOIN accounts a_to ON a_to.id = t.to_account_id
			          WHERE t.user_id = $1
			            AND t.type = 'transfer'
			            AND a_from.type = 'saving'
			            AND a_to.type <> 'saving'
			            AND EXTRACT(YEAR FROM t.date) = $2
			            AND EXTRACT(MONTH FROM t.date) = $3), 0) AS withdrawals,

			COALESCE((SELECT SUM(l.total_amount)
			          FROM loans l
			          WHERE l.user_id = $1
			            AND EXTRACT(YEAR FROM l.start_date) = $2
			            AND EXTRACT(MONTH FROM l.start_date) = $3), 0) AS loans,

			COALESCE((SELECT SUM(lp.principal_paid + lp.interest_paid)
			          FROM loan_payments lp
			          JOIN loans l ON l.id = lp.loan_id
			          WHERE l.user_id = $1
			            AND EXTRACT(YEAR FROM lp.payment_date) = $2
			            AND EXTRACT(MONTH FROM lp.payment_date) = $3), 0) AS payments,

			COALESCE((SELECT SUM(lp.principal_paid)
			          FROM loan_payments lp
			          JOIN loans l ON l.id = lp.loan_id
			          WHERE l.user_id = $1
			            AND EXTRACT(YEAR FROM lp.payment_date) = $2
			            AND EXTRACT(MONTH FROM lp.payment_date) = $3), 0) AS principal_breakdown,

			COALESCE((SELECT SUM(lp.interest_paid)
			          FROM loan_payments lp
			          JOIN loans l ON l.id = lp.loan_id
			          WHERE l.user_id = $1
			            AND EXTRACT(YEAR FROM lp.payment_date) = $2
			            AND EXTRACT(MONTH FROM lp.payment_date) = $3), 0) AS interest_breakdown`

	totals := &ledger.MonthlyTotals{}
	err := s.pool.QueryRow(ctx, query, userID, year, month).Scan(
		&totals.Incomes,
		&totals.Expenses,
		&totals.Savings,
		&totals.Withdrawals,
		&totals.Loans,
		&totals.Payments,
		&totals.PrincipalBreakdown,
		&totals.InterestBreakdown,
	)
	if err != nil {
		return nil, persistErr("ошибка при получении месячных показателей", err)
	}

	return totals, nil
}

func (s *Store) UpsertKpi(ctx context.Context, row *models.CacheKpiBalance) error {
	query := `
		INSERT INTO cache_kpi_balances (
			user_id, period_year, period_month,
			incomes, expenses, savings, withdrawals, loans, payments,
			total_inflows, total_outflows, net_cash_flow, net_savings, available_balance,
			principal_breakdown, interest_breakdown
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (user_id, period_year, period_month) DO UPDATE SET
			incomes = EXCLUDED.incomes,
			expenses = EXCLUDED.expenses,
			savings = EXCLUDED.savings,
			withdrawals = EXCLUDED.withdrawals,
			loans = EXCLUDED.loans,
			payments = EXCLUDED.payments,
			total_inflows = EXCLUDED.total_inflows,
			total_outflows = EXCLUDED.total_outflows,
			net_cash_flow = EXCLUDED.net_cash_flow,
			net_savings = EXCLUDED.net_savings,
			available_balance = EXCLUDED.available_balance,
			principal_breakdown = EXCLUDED.principal_breakdown,
			interest_breakdown = EXCLUDED.interest_breakdown,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		row.UserID,
		row.PeriodYear,
		row.PeriodMonth,
		row.Incomes,
		row.Expenses,
		row.Savings,
		row.Withdrawals,
		row.Loans,
		row.Payments,
		row.TotalInflows,
		row.TotalOutflows,
		row.NetCashFlow,
		row.NetSavings,
		row.AvailableBalance,
		row.PrincipalBreakdown,
		row.InterestBreakdown).Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return persistErr("ошибка при сохранении строки KPI", err)
	}
	return nil
}

func (s *Store) KpiByPeriod(ctx context.Context, userID, year, month int) (*models.CacheKpiBalance, error) {
	query := `
		SELECT id, user_id, period_year, period_month,
		       incomes, expenses, savings, withdrawals, loans, payments,
		       total_inflows, total_outflows, net_cash_flow, net_savings, available_balance,
		       principal_breakdown, interest_breakdown, created_at, updated_at
		FROM cache_kpi_balances
		WHERE user_id = $1 AND period_year = $2 AND period_month = $3`

	row := &models.CacheKpiBalance{}
	err := s.pool.QueryRow(ctx, query, userID, year, month).Scan(
		&row.ID,
		&row.UserID,
		&row.PeriodYear,
		&row.PeriodMonth,
		&row.Incomes,
		&row.Expenses,
		&row.Savings,
		&row.Withdrawals,
		&row.Loans,
		&row.Payments,
		&row.TotalInflows,
		&row.TotalOutflows,
		&row.NetCashFlow,
		&row.NetSavings,
		&row.AvailableBalance,
		&row.PrincipalBreakdown,
		&row.InterestBreakdown,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, persistErr("ошибка при получении строки KPI", err)
	}

	return row, nil
}

func (s *Store) ActiveUserIDs(ctx context.Context) ([]int, error) {
	query := `
		SELECT DISTINCT user_id
		FROM transactions
		ORDER BY user_id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, persistErr("ошибка при получении списка пользователей", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, persistErr("ошибка при чтении идентификатора пользователя", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("ошибка при чтении пользователей", err)
	}

	return ids, nil
}
