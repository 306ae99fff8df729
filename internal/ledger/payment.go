package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

// Координатор платежей по займам. Каждая операция атомарно правит займ,
// счёт списания и зеркальную расходную транзакцию.

func (e *Engine) RecordPayment(ctx context.Context, userID int, payment *models.LoanPayment) (*models.LoanPayment, error) {
	if err := validatePayment(payment); err != nil {
		return nil, err
	}

	err := e.store.InTx(ctx, func(q Tx) error {
		loan, err := q.LoanForUpdate(ctx, userID, payment.LoanID)
		if err != nil {
			return err
		}
		account, err := q.AccountForUpdate(ctx, userID, payment.AccountID)
		if err != nil {
			return err
		}

		if payment.PrincipalPaid.GreaterThan(loan.Balance) {
			return ErrInsufficientBalance
		}

		last, err := q.LastPayment(ctx, loan.ID)
		if err != nil {
			return err
		}
		if last != nil && payment.PaymentDate.Before(last.PaymentDate) {
			return &ValidationError{Field: "payment_date", Message: "дата платежа не может быть раньше последнего зарегистрированного платежа"}
		}

		loan.Balance = loan.Balance.Sub(payment.PrincipalPaid)
		loan.PrincipalPaid = loan.PrincipalPaid.Add(payment.PrincipalPaid)
		loan.InterestPaid = loan.InterestPaid.Add(payment.InterestPaid)
		deriveLoanStatus(loan)
		if err := q.UpdateLoan(ctx, loan); err != nil {
			return err
		}

		total := payment.Total()
		if err := q.UpdateAccountBalance(ctx, account.ID, account.Balance.Sub(total)); err != nil {
			return err
		}

		mirror := &models.Transaction{
			UserID:      userID,
			Type:        models.TransactionExpense,
			AccountID:   payment.AccountID,
			Amount:      total,
			Date:        payment.PaymentDate,
			Description: payment.Note,
		}
		if err := q.InsertTransaction(ctx, mirror); err != nil {
			return err
		}
		payment.TransactionID = &mirror.ID

		return q.InsertPayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	e.scheduleKpiRecalc(userID, payment.PaymentDate)
	return payment, nil
}

func (e *Engine) UpdatePayment(ctx context.Context, userID int, payment *models.LoanPayment) (*models.LoanPayment, error) {
	if err := validatePayment(payment); err != nil {
		return nil, err
	}

	var oldDate time.Time
	err := e.store.InTx(ctx, func(q Tx) error {
		loan, err := q.LoanForUpdate(ctx, userID, payment.LoanID)
		if err != nil {
			return err
		}
		old, err := q.PaymentByID(ctx, payment.LoanID, payment.ID)
		if err != nil {
			return err
		}
		oldDate = old.PaymentDate

		// Доступный капитал включает капитал заменяемого платежа.
		available := loan.Balance.Add(old.PrincipalPaid)
		if payment.PrincipalPaid.GreaterThan(available) {
			return ErrInsufficientBalance
		}

		last, err := q.LastPayment(ctx, loan.ID)
		if err != nil {
			return err
		}
		if last != nil && last.ID != old.ID && payment.PaymentDate.Before(last.PaymentDate) {
			return &ValidationError{Field: "payment_date", Message: "дата платежа не может быть раньше последнего зарегистрированного платежа"}
		}

		principalDelta := payment.PrincipalPaid.Sub(old.PrincipalPaid)
		interestDelta := payment.InterestPaid.Sub(old.InterestPaid)

		loan.Balance = loan.Balance.Sub(principalDelta)
		loan.PrincipalPaid = loan.PrincipalPaid.Add(principalDelta)
		loan.InterestPaid = loan.InterestPaid.Add(interestDelta)
		deriveLoanStatus(loan)
		if err := q.UpdateLoan(ctx, loan); err != nil {
			return err
		}

		if err := e.movePaymentEffect(ctx, q, userID, old, payment); err != nil {
			return err
		}

		if old.TransactionID != nil {
			// Зеркальная транзакция обновляется на месте, id сохраняется.
			mirror, err := q.TransactionByID(ctx, userID, *old.TransactionID)
			if err != nil {
				return err
			}
			mirror.Amount = payment.Total()
			mirror.AccountID = payment.AccountID
			mirror.Date = payment.PaymentDate
			mirror.Description = payment.Note
			if err := q.UpdateTransaction(ctx, mirror); err != nil {
				return err
			}
			payment.TransactionID = old.TransactionID
		}

		return q.UpdatePayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	e.scheduleKpiRecalc(userID, oldDate, payment.PaymentDate)
	return payment, nil
}

// movePaymentEffect переносит эффект платежа со старого счёта на новый;
// при неизменном счёте применяется только чистая разница сумм.
func (e *Engine) movePaymentEffect(ctx context.Context, q Tx, userID int, old, payment *models.LoanPayment) error {
	deltas := map[int]decimal.Decimal{}
	addDelta(deltas, old.AccountID, old.Total())
	addDelta(deltas, payment.AccountID, payment.Total().Neg())

	_, err := applyDeltas(ctx, q, userID, deltas)
	return err
}

func (e *Engine) DeletePayment(ctx context.Context, userID, loanID, paymentID int) error {
	var date time.Time
	err := e.store.InTx(ctx, func(q Tx) error {
		loan, err := q.LoanForUpdate(ctx, userID, loanID)
		if err != nil {
			return err
		}
		payment, err := q.PaymentByID(ctx, loanID, paymentID)
		if err != nil {
			return err
		}
		date = payment.PaymentDate

		last, err := q.LastPayment(ctx, loanID)
		if err != nil {
			return err
		}
		if last == nil || last.ID != payment.ID {
			return ErrOutOfOrderDeletion
		}

		loan.Balance = loan.Balance.Add(payment.PrincipalPaid)
		loan.PrincipalPaid = loan.PrincipalPaid.Sub(payment.PrincipalPaid)
		loan.InterestPaid = loan.InterestPaid.Sub(payment.InterestPaid)
		// Отмена последнего платежа закрытого займа снова открывает его.
		deriveLoanStatus(loan)
		if err := q.UpdateLoan(ctx, loan); err != nil {
			return err
		}

		account, err := q.AccountForUpdate(ctx, userID, payment.AccountID)
		if err != nil {
			return err
		}
		if err := q.UpdateAccountBalance(ctx, account.ID, account.Balance.Add(payment.Total())); err != nil {
			return err
		}

		if err := q.DeletePayment(ctx, payment.ID); err != nil {
			return err
		}
		if payment.TransactionID != nil {
			return q.DeleteTransaction(ctx, *payment.TransactionID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.scheduleKpiRecalc(userID, date)
	return nil
}

// Статус займа производный: закрыт, когда баланс исчерпан.
func deriveLoanStatus(loan *models.Loan) {
	if loan.Balance.IsPositive() {
		loan.Status = models.LoanActive
	} else {
		loan.Balance = decimal.Zero
		loan.Status = models.LoanClosed
	}
}
