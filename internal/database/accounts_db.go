package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

func (q *queries) AccountForUpdate(ctx context.Context, userID, accountID int) (*models.Account, error) {
	query := `
		SELECT id, user_id, name, type, balance, is_active
		FROM accounts
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`

	account := &models.Account{}
	err := q.tx.QueryRow(ctx, query, accountID, userID).Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&account.Type,
		&account.Balance,
		&account.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, persistErr("ошибка при получении счёта", err)
	}

	return account, nil
}

func (q *queries) AccountsByUserForUpdate(ctx context.Context, userID int) ([]*models.Account, error) {
	query := `
		SELECT id, user_id, name, type, balance, is_active
		FROM accounts
		WHERE user_id = $1
		ORDER BY id
		FOR UPDATE`

	rows, err := q.tx.Query(ctx, query, userID)
	if err != nil {
		return nil, persistErr("ошибка при получении счетов пользователя", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account := &models.Account{}
		if err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.Name,
			&account.Type,
			&account.Balance,
			&account.IsActive,
		); err != nil {
			return nil, persistErr("ошибка при чтении счёта", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("ошибка при чтении счетов", err)
	}

	return accounts, nil
}

func (q *queries) InsertAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (user_id, name, type, balance, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := q.tx.QueryRow(ctx, query,
		account.UserID,
		account.Name,
		account.Type,
		account.Balance,
		account.IsActive).Scan(&account.ID)
	if err != nil {
		return persistErr("ошибка при добавлении счёта", err)
	}
	return nil
}

func (q *queries) UpdateAccountBalance(ctx context.Context, accountID int, balance decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = $1
		WHERE id = $2`

	result, err := q.tx.Exec(ctx, query, balance, accountID)
	if err != nil {
		return persistErr("ошибка обновления баланса счёта", err)
	}
	if result.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
