package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL,
		name VARCHAR(100) NOT NULL,
		type VARCHAR(20) NOT NULL,
		balance NUMERIC(15,2) NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_accounts_user ON accounts (user_id)`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL,
		type VARCHAR(20) NOT NULL,
		account_id INTEGER NOT NULL REFERENCES accounts (id),
		to_account_id INTEGER REFERENCES accounts (id),
		category_id INTEGER,
		amount NUMERIC(15,2) NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		description VARCHAR(200) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions (user_id, date)`,

	`CREATE TABLE IF NOT EXISTS loans (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL,
		name VARCHAR(100) NOT NULL,
		total_amount NUMERIC(15,2) NOT NULL,
		principal_paid NUMERIC(15,2) NOT NULL DEFAULT 0,
		interest_paid NUMERIC(15,2) NOT NULL DEFAULT 0,
		balance NUMERIC(15,2) NOT NULL,
		disbursement_account_id INTEGER NOT NULL REFERENCES accounts (id),
		transaction_id INTEGER UNIQUE REFERENCES transactions (id),
		status VARCHAR(10) NOT NULL DEFAULT 'active',
		start_date TIMESTAMPTZ NOT NULL,
		note VARCHAR(200) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_loans_user ON loans (user_id)`,

	`CREATE TABLE IF NOT EXISTS loan_payments (
		id SERIAL PRIMARY KEY,
		loan_id INTEGER NOT NULL REFERENCES loans (id),
		account_id INTEGER NOT NULL REFERENCES accounts (id),
		principal_paid NUMERIC(15,2) NOT NULL,
		interest_paid NUMERIC(15,2) NOT NULL,
		payment_date TIMESTAMPTZ NOT NULL,
		transaction_id INTEGER UNIQUE REFERENCES transactions (id),
		note VARCHAR(200) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_loan_payments_loan_date ON loan_payments (loan_id, payment_date)`,

	`CREATE TABLE IF NOT EXISTS cache_kpi_balances (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL,
		period_year SMALLINT NOT NULL,
		period_month SMALLINT NOT NULL,
		incomes NUMERIC(15,2) NOT NULL DEFAULT 0,
		expenses NUMERIC(15,2) NOT NULL DEFAULT 0,
		savings NUMERIC(15,2) NOT NULL DEFAULT 0,
		withdrawals NUMERIC(15,2) NOT NULL DEFAULT 0,
		loans NUMERIC(15,2) NOT NULL DEFAULT 0,
		payments NUMERIC(15,2) NOT NULL DEFAULT 0,
		total_inflows NUMERIC(15,2) NOT NULL DEFAULT 0,
		total_outflows NUMERIC(15,2) NOT NULL DEFAULT 0,
		net_cash_flow NUMERIC(15,2) NOT NULL DEFAULT 0,
		net_savings NUMERIC(15,2) NOT NULL DEFAULT 0,
		available_balance NUMERIC(15,2) NOT NULL DEFAULT 0,
		principal_breakdown NUMERIC(15,2) NOT NULL DEFAULT 0,
		interest_breakdown NUMERIC(15,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT uq_cache_kpi_period UNIQUE (user_id, period_year, period_month)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cache_kpi_user_year ON cache_kpi_balances (user_id, period_year)`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ошибка миграции схемы: %v", err)
		}
	}
	return nil
}
