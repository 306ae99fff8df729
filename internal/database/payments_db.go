package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

func (q *queries) PaymentByID(ctx context.Context, loanID, paymentID int) (*models.LoanPayment, error) {
	query := `
		SELECT id, loan_id, account_id, principal_paid, interest_paid, payment_date, transaction_id, note, created_at
		FROM loan_payments
		WHERE id = $1 AND loan_id = $2`

	payment := &models.LoanPayment{}
	err := q.tx.QueryRow(ctx, query, paymentID, loanID).Scan(
		&payment.ID,
		&payment.LoanID,
		&payment.AccountID,
		&payment.PrincipalPaid,
		&payment.InterestPaid,
		&payment.PaymentDate,
		&payment.TransactionID,
		&payment.Note,
		&payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, persistErr("ошибка при получении платежа", err)
	}

	return payment, nil
}

// Последний платёж по дате, при равных датах — по id.
func (q *queries) LastPayment(ctx context.Context, loanID int) (*models.LoanPayment, error) {
	query := `
		SELECT id, loan_id, account_id, principal_paid, interest_paid, payment_date, transaction_id, note, created_at
		FROM loan_payments
		WHERE loan_id = $1
		ORDER BY payment_date DESC, id DESC
		LIMIT 1`

	payment := &models.LoanPayment{}
	err := q.tx.QueryRow(ctx, query, loanID).Scan(
		&payment.ID,
		&payment.LoanID,
		&payment.AccountID,
		&payment.PrincipalPaid,
		&payment.InterestPaid,
		&payment.PaymentDate,
		&payment.TransactionID,
		&payment.Note,
		&payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistErr("ошибка при получении последнего платежа", err)
	}

	return payment, nil
}

func (q *queries) PaymentCount(ctx context.Context, loanID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM loan_payments
		WHERE loan_id = $1`

	var count int
	if err := q.tx.QueryRow(ctx, query, loanID).Scan(&count); err != nil {
		return 0, persistErr("ошибка при подсчёте платежей", err)
	}
	return count, nil
}

func (q *queries) InsertPayment(ctx context.Context, payment *models.LoanPayment) error {
	query := `
		INSERT INTO loan_payments (loan_id, account_id, principal_paid, interest_paid, payment_date, transaction_id, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := q.tx.QueryRow(ctx, query,
		payment.LoanID,
		payment.AccountID,
		payment.PrincipalPaid,
		payment.InterestPaid,
		payment.PaymentDate,
		payment.TransactionID,
		payment.Note).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return persistErr("ошибка при добавлении платежа", err)
	}
	return nil
}

func (q *queries) UpdatePayment(ctx context.Context, payment *models.LoanPayment) error {
	query := `
		UPDATE loan_payments
		SET account_id = $1, principal_paid = $2, interest_paid = $3, payment_date = $4, transaction_id = $5, note = $6
		WHERE id = $7 AND loan_id = $8`

	result, err := q.tx.Exec(ctx, query,
		payment.AccountID,
		payment.PrincipalPaid,
		payment.InterestPaid,
		payment.PaymentDate,
		payment.TransactionID,
		payment.Note,
		payment.ID,
		payment.LoanID)
	if err != nil {
		return persistErr("ошибка обновления платежа", err)
	}
	if result.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (q *queries) DeletePayment(ctx context.Context, paymentID int) error {
	query := `
		DELETE FROM loan_payments
		WHERE id = $1`

	result, err := q.tx.Exec(ctx, query, paymentID)
	if err != nil {
		return persistErr("ошибка удаления платежа", err)
	}
	if result.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
