package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

// CalculateDeltas переводит движение в набор знаковых поправок балансов
// по счетам. factor = 1 применяет эффект движения, factor = -1 отменяет его.
func CalculateDeltas(tx *models.Transaction, factor int64) map[int]decimal.Decimal {
	deltas := make(map[int]decimal.Decimal)
	amount := tx.Amount.Mul(decimal.NewFromInt(factor))

	switch tx.Type {
	case models.TransactionIncome:
		addDelta(deltas, tx.AccountID, amount)
	case models.TransactionExpense:
		addDelta(deltas, tx.AccountID, amount.Neg())
	case models.TransactionTransfer:
		addDelta(deltas, tx.AccountID, amount.Neg())
		if tx.ToAccountID != nil {
			addDelta(deltas, *tx.ToAccountID, amount)
		}
	}

	return deltas
}

// MergeDeltas складывает поправки по счетам, чтобы обновление применялось
// за один проход: отмена старой версии и эффект новой схлопываются в одну
// запись на счёт.
func MergeDeltas(dst, src map[int]decimal.Decimal) {
	for accountID, value := range src {
		addDelta(dst, accountID, value)
	}
}

func addDelta(deltas map[int]decimal.Decimal, accountID int, value decimal.Decimal) {
	if accountID == 0 {
		return
	}
	deltas[accountID] = deltas[accountID].Add(value)
}
