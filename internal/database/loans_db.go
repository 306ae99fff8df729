package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

func (q *queries) LoanForUpdate(ctx context.Context, userID, loanID int) (*models.Loan, error) {
	query := `
		SELECT id, user_id, name, total_amount, principal_paid, interest_paid, balance,
		       disbursement_account_id, transaction_id, status, start_date, note, created_at
		FROM loans
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`

	loan := &models.Loan{}
	err := q.tx.QueryRow(ctx, query, loanID, userID).Scan(
		&loan.ID,
		&loan.UserID,
		&loan.Name,
		&loan.TotalAmount,
		&loan.PrincipalPaid,
		&loan.InterestPaid,
		&loan.Balance,
		&loan.DisbursementAccountID,
		&loan.TransactionID,
		&loan.Status,
		&loan.StartDate,
		&loan.Note,
		&loan.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, persistErr("ошибка при получении займа", err)
	}

	return loan, nil
}

func (q *queries) InsertLoan(ctx context.Context, loan *models.Loan) error {
	query := `
		INSERT INTO loans (user_id, name, total_amount, principal_paid, interest_paid, balance,
		                   disbursement_account_id, transaction_id, status, start_date, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := q.tx.QueryRow(ctx, query,
		loan.UserID,
		loan.Name,
		loan.TotalAmount,
		loan.PrincipalPaid,
		loan.InterestPaid,
		loan.Balance,
		loan.DisbursementAccountID,
		loan.TransactionID,
		loan.Status,
		loan.StartDate,
		loan.Note).Scan(&loan.ID, &loan.CreatedAt)
	if err != nil {
		return persistErr("ошибка при добавлении займа", err)
	}
	return nil
}

func (q *queries) UpdateLoan(ctx context.Context, loan *models.Loan) error {
	query := `
		UPDATE loans
		SET name = $1, total_amount = $2, principal_paid = $3, interest_paid = $4, balance = $5,
		    disbursement_account_id = $6, transaction_id = $7, status = $8, start_date = $9, note = $10
		WHERE id = $11 AND user_id = $12`

	result, err := q.tx.Exec(ctx, query,
		loan.Name,
		loan.TotalAmount,
		loan.PrincipalPaid,
		loan.InterestPaid,
		loan.Balance,
		loan.DisbursementAccountID,
		loan.TransactionID,
		loan.Status,
		loan.StartDate,
		loan.Note,
		loan.ID,
		loan.UserID)
	if err != nil {
		return persistErr("ошибка обновления займа", err)
	}
	if result.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (q *queries) DeleteLoan(ctx context.Context, loanID int) error {
	query := `
		DELETE FROM loans
		WHERE id = $1`

	result, err := q.tx.Exec(ctx, query, loanID)
	if err != nil {
		return persistErr("ошибка удаления займа", err)
	}
	if result.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
