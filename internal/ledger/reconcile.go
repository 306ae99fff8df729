package ledger

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// RecalculateAllBalances пересчитывает балансы всех счетов пользователя
// с нуля, повторяя полную историю транзакций. Таблица транзакций —
// единственный источник истины; займы и платежи не участвуют, их эффект
// уже выражен зеркальными транзакциями.
func (e *Engine) RecalculateAllBalances(ctx context.Context, userID int) error {
	return e.store.InTx(ctx, func(q Tx) error {
		accounts, err := q.AccountsByUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			return nil
		}

		balances := make(map[int]decimal.Decimal, len(accounts))
		for _, account := range accounts {
			balances[account.ID] = decimal.Zero
		}

		transactions, err := q.TransactionsByUser(ctx, userID)
		if err != nil {
			return err
		}

		for _, tx := range transactions {
			for accountID, delta := range CalculateDeltas(tx, 1) {
				if balance, ok := balances[accountID]; ok {
					balances[accountID] = balance.Add(delta)
				}
			}
		}

		ids := make([]int, 0, len(balances))
		for accountID := range balances {
			ids = append(ids, accountID)
		}
		sort.Ints(ids)

		for _, accountID := range ids {
			if err := q.UpdateAccountBalance(ctx, accountID, balances[accountID]); err != nil {
				return err
			}
		}
		return nil
	})
}
