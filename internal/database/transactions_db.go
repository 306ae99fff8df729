package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

func (q *queries) TransactionByID(ctx context.Context, userID, transactionID int) (*models.Transaction, error) {
	query := `
		SELECT id, user_id, type, account_id, to_account_id, category_id, amount, date, description, created_at
		FROM transactions
		WHERE id = $1 AND user_id = $2`

	transaction := &models.Transaction{}
	err := q.tx.QueryRow(ctx, query, transactionID, userID).Scan(
		&transaction.ID,
		&transaction.UserID,
		&transaction.Type,
		&transaction.AccountID,
		&transaction.ToAccountID,
		&transaction.CategoryID,
		&transaction.Amount,
		&transaction.Date,
		&transaction.Description,
		&transaction.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, persistErr("ошибка при получении транзакции", err)
	}

	return transaction, nil
}

func (q *queries) TransactionsByUser(ctx context.Context, userID int) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, type, account_id, to_account_id, category_id, amount, date, description, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY date, id`

	rows, err := q.tx.Query(ctx, query, userID)
	if err != nil {
		return nil, persistErr("ошибка при получении транзакций пользователя", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		transaction := &models.Transaction{}
		if err := rows.Scan(
			&transaction.ID,
			&transaction.UserID,
			&transaction.Type,
			&transaction.AccountID,
			&transaction.ToAccountID,
			&transaction.CategoryID,
			&transaction.Amount,
			&transaction.Date,
			&transaction.Description,
			&transaction.CreatedAt,
		); err != nil {
			return nil, persistErr("ошибка при чтении транзакции", err)
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("ошибка при чтении транзакций", err)
	}

	return transactions, nil
}

// Происхождение определяется обратными ссылками займов и платежей на
// зеркальную транзакцию.
func (q *queries) TransactionOrigin(ctx context.Context, transactionID int) (models.TransactionOrigin, error) {
	query := `
		SELECT
			EXISTS (SELECT 1 FROM loans WHERE transaction_id = $1),
			EXISTS (SELECT 1 FROM loan_payments WHERE transaction_id = $1)`

	var ownedByLoan, ownedByPayment bool
	if err := q.tx.QueryRow(ctx, query, transactionID).Scan(&ownedByLoan, &ownedByPayment); err != nil {
		return "", persistErr("ошибка при определении происхождения транзакции", err)
	}

	switch {
	case ownedByLoan:
		return models.OriginLoan, nil
	case ownedByPayment:
		return models.OriginPayment, nil
	default:
		return models.OriginUser, nil
	}
}

func (q *queries) InsertTransaction(ctx context.Context, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, type, account_id, to_account_id, category_id, amount, date, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := q.tx.QueryRow(ctx, query,
		transaction.UserID,
		transaction.Type,
		transaction.AccountID,
		transaction.ToAccountID,
		transaction.CategoryID,
		transaction.Amount,
		transaction.Date,
		transaction.Description).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		return persistErr("ошибка при добавлении транзакции", err)
	}
	return nil
}

func (q *queries) UpdateTransaction(ctx context.Context, transaction *models.Transaction) error {
	query := `
		UPDATE transactions
		SET type = $1, account_id = $2, to_account_id = $3, category_id = $4, amount = $5, date = $6, description = $7
		WHERE id = $8 AND user_id = $9`

	result, err := q.tx.Exec(ctx, query,
		transaction.Type,
		transaction.AccountID,
		transaction.ToAccountID,
		transaction.CategoryID,
		transaction.Amount,
		transaction.Date,
		transaction.Description,
		transaction.ID,
		transaction.UserID)
	if err != nil {
		return persistErr("ошибка обновления транзакции", err)
	}
	if result.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (q *queries) DeleteTransaction(ctx context.Context, transactionID int) error {
	query := `
		DELETE FROM transactions
		WHERE id = $1`

	result, err := q.tx.Exec(ctx, query, transactionID)
	if err != nil {
		return persistErr("ошибка удаления транзакции", err)
	}
	if result.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
