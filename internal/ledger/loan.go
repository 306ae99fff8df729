package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

// Координатор выдачи займов: правит счёт зачисления на разницу между
// старой и новой суммой и ведёт зеркальную доходную транзакцию.

func (e *Engine) CreateLoan(ctx context.Context, userID int, loan *models.Loan) (*models.Loan, error) {
	if err := validateLoan(loan); err != nil {
		return nil, err
	}
	loan.UserID = userID

	err := e.store.InTx(ctx, func(q Tx) error {
		account, err := q.AccountForUpdate(ctx, userID, loan.DisbursementAccountID)
		if err != nil {
			return err
		}

		loan.Balance = loan.TotalAmount
		loan.PrincipalPaid = decimal.Zero
		loan.InterestPaid = decimal.Zero
		loan.Status = models.LoanActive

		if err := q.UpdateAccountBalance(ctx, account.ID, account.Balance.Add(loan.TotalAmount)); err != nil {
			return err
		}

		mirror := &models.Transaction{
			UserID:      userID,
			Type:        models.TransactionIncome,
			AccountID:   loan.DisbursementAccountID,
			Amount:      loan.TotalAmount,
			Date:        loan.StartDate,
			Description: loan.Name,
		}
		if err := q.InsertTransaction(ctx, mirror); err != nil {
			return err
		}
		loan.TransactionID = &mirror.ID

		return q.InsertLoan(ctx, loan)
	})
	if err != nil {
		return nil, err
	}

	e.scheduleKpiRecalc(userID, loan.StartDate)
	return loan, nil
}

func (e *Engine) UpdateLoan(ctx context.Context, userID int, loan *models.Loan) (*models.Loan, error) {
	if err := validateLoan(loan); err != nil {
		return nil, err
	}
	loan.UserID = userID

	var oldDate time.Time
	err := e.store.InTx(ctx, func(q Tx) error {
		existing, err := q.LoanForUpdate(ctx, userID, loan.ID)
		if err != nil {
			return err
		}
		oldDate = existing.StartDate

		count, err := q.PaymentCount(ctx, loan.ID)
		if err != nil {
			return err
		}
		if count > 0 && loanCoreChanged(existing, loan) {
			return ErrImmutableLoan
		}
		if loan.TotalAmount.LessThan(existing.PrincipalPaid) {
			return ErrInsufficientPrincipalRemaining
		}

		loan.PrincipalPaid = existing.PrincipalPaid
		loan.InterestPaid = existing.InterestPaid
		loan.Balance = loan.TotalAmount.Sub(existing.PrincipalPaid)
		loan.TransactionID = existing.TransactionID
		deriveLoanStatus(loan)

		if err := e.moveDisbursementEffect(ctx, q, userID, existing, loan); err != nil {
			return err
		}

		if existing.TransactionID != nil {
			mirror, err := q.TransactionByID(ctx, userID, *existing.TransactionID)
			if err != nil {
				return err
			}
			mirror.Amount = loan.TotalAmount
			mirror.AccountID = loan.DisbursementAccountID
			mirror.Date = loan.StartDate
			mirror.Description = loan.Name
			if err := q.UpdateTransaction(ctx, mirror); err != nil {
				return err
			}
		}

		return q.UpdateLoan(ctx, loan)
	})
	if err != nil {
		return nil, err
	}

	e.scheduleKpiRecalc(userID, oldDate, loan.StartDate)
	return loan, nil
}

func (e *Engine) DeleteLoan(ctx context.Context, userID, loanID int) error {
	var date time.Time
	err := e.store.InTx(ctx, func(q Tx) error {
		loan, err := q.LoanForUpdate(ctx, userID, loanID)
		if err != nil {
			return err
		}
		date = loan.StartDate

		count, err := q.PaymentCount(ctx, loanID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrHasPayments
		}

		account, err := q.AccountForUpdate(ctx, userID, loan.DisbursementAccountID)
		if err != nil {
			return err
		}
		if err := q.UpdateAccountBalance(ctx, account.ID, account.Balance.Sub(loan.TotalAmount)); err != nil {
			return err
		}

		if err := q.DeleteLoan(ctx, loan.ID); err != nil {
			return err
		}
		if loan.TransactionID != nil {
			return q.DeleteTransaction(ctx, *loan.TransactionID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.scheduleKpiRecalc(userID, date)
	return nil
}

// При неизменном счёте применяется только разница сумм; при смене счёта
// старая сумма полностью снимается со старого счёта, новая полностью
// зачисляется на новый.
func (e *Engine) moveDisbursementEffect(ctx context.Context, q Tx, userID int, existing, loan *models.Loan) error {
	deltas := map[int]decimal.Decimal{}
	addDelta(deltas, existing.DisbursementAccountID, existing.TotalAmount.Neg())
	addDelta(deltas, loan.DisbursementAccountID, loan.TotalAmount)

	_, err := applyDeltas(ctx, q, userID, deltas)
	return err
}

func loanCoreChanged(existing, loan *models.Loan) bool {
	return !loan.TotalAmount.Equal(existing.TotalAmount) ||
		!loan.StartDate.Equal(existing.StartDate) ||
		loan.DisbursementAccountID != existing.DisbursementAccountID
}
