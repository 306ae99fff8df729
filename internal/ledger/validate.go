package ledger

import (
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

// Движок проверяет только финансовую согласованность: наличие полей и
// авторизация остаются за внешним слоем форм.

func validateTransaction(tx *models.Transaction) error {
	if !tx.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Message: "сумма должна быть больше нуля"}
	}

	switch tx.Type {
	case models.TransactionIncome, models.TransactionExpense:
		if tx.CategoryID == nil {
			return &ValidationError{Field: "category_id", Message: "категория обязательна"}
		}
		if tx.ToAccountID != nil {
			return &ValidationError{Field: "to_account_id", Message: "счёт назначения допустим только для перевода"}
		}
	case models.TransactionTransfer:
		if tx.ToAccountID == nil {
			return &ValidationError{Field: "to_account_id", Message: "счёт назначения обязателен для перевода"}
		}
		if *tx.ToAccountID == tx.AccountID {
			return &ValidationError{Field: "to_account_id", Message: "счёт назначения должен отличаться от счёта списания"}
		}
		if tx.CategoryID != nil {
			return &ValidationError{Field: "category_id", Message: "категория недопустима для перевода"}
		}
	default:
		return &ValidationError{Field: "type", Message: "неизвестный тип транзакции"}
	}

	return nil
}

func validatePayment(payment *models.LoanPayment) error {
	if payment.PrincipalPaid.IsNegative() {
		return &ValidationError{Field: "principal_paid", Message: "капитал не может быть отрицательным"}
	}
	if payment.InterestPaid.IsNegative() {
		return &ValidationError{Field: "interest_paid", Message: "проценты не могут быть отрицательными"}
	}
	if !payment.Total().IsPositive() {
		return &ValidationError{Field: "principal_paid", Message: "полная сумма платежа (капитал + проценты) должна быть больше нуля"}
	}
	return nil
}

func validateLoan(loan *models.Loan) error {
	if !loan.TotalAmount.IsPositive() {
		return &ValidationError{Field: "total_amount", Message: "сумма займа должна быть больше нуля"}
	}
	if loan.DisbursementAccountID == 0 {
		return &ValidationError{Field: "disbursement_account_id", Message: "счёт зачисления обязателен"}
	}
	return nil
}
