package ledger

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

const defaultKpiTimeout = 30 * time.Second

// Engine держит балансы счетов, балансы займов и кеш месячных KPI в
// согласии с историей движений. Все мутации выполняются как одна
// атомарная единица работы хранилища.
type Engine struct {
	store      Store
	kpiTimeout time.Duration

	wg sync.WaitGroup
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store:      store,
		kpiTimeout: defaultKpiTimeout,
	}
}

// Wait дожидается завершения фоновых пересчётов KPI.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) CreateTransaction(ctx context.Context, userID int, tx *models.Transaction) (*models.Transaction, error) {
	if err := validateTransaction(tx); err != nil {
		return nil, err
	}
	tx.UserID = userID

	err := e.store.InTx(ctx, func(q Tx) error {
		if err := q.InsertTransaction(ctx, tx); err != nil {
			return err
		}

		deltas := CalculateDeltas(tx, 1)
		balances, err := applyDeltas(ctx, q, userID, deltas)
		if err != nil {
			return err
		}
		return checkSourceBalance(tx, balances)
	})
	if err != nil {
		return nil, err
	}

	e.scheduleKpiRecalc(userID, tx.Date)
	return tx, nil
}

func (e *Engine) UpdateTransaction(ctx context.Context, userID int, tx *models.Transaction) (*models.Transaction, error) {
	if err := validateTransaction(tx); err != nil {
		return nil, err
	}
	tx.UserID = userID

	var prevDate time.Time
	err := e.store.InTx(ctx, func(q Tx) error {
		prev, err := q.TransactionByID(ctx, userID, tx.ID)
		if err != nil {
			return err
		}
		if err := e.ensureUserOrigin(ctx, q, prev.ID); err != nil {
			return err
		}
		prevDate = prev.Date

		deltas := CalculateDeltas(prev, -1)
		MergeDeltas(deltas, CalculateDeltas(tx, 1))

		if err := q.UpdateTransaction(ctx, tx); err != nil {
			return err
		}

		balances, err := applyDeltas(ctx, q, userID, deltas)
		if err != nil {
			return err
		}
		return checkSourceBalance(tx, balances)
	})
	if err != nil {
		return nil, err
	}

	e.scheduleKpiRecalc(userID, prevDate, tx.Date)
	return tx, nil
}

func (e *Engine) DeleteTransaction(ctx context.Context, userID, transactionID int) error {
	var date time.Time
	err := e.store.InTx(ctx, func(q Tx) error {
		prev, err := q.TransactionByID(ctx, userID, transactionID)
		if err != nil {
			return err
		}
		if err := e.ensureUserOrigin(ctx, q, prev.ID); err != nil {
			return err
		}
		date = prev.Date

		deltas := CalculateDeltas(prev, -1)
		if _, err := applyDeltas(ctx, q, userID, deltas); err != nil {
			return err
		}
		return q.DeleteTransaction(ctx, prev.ID)
	})
	if err != nil {
		return err
	}

	e.scheduleKpiRecalc(userID, date)
	return nil
}

// Зеркальные транзакции займов и платежей мутируются только их
// координаторами.
func (e *Engine) ensureUserOrigin(ctx context.Context, q Tx, transactionID int) error {
	origin, err := q.TransactionOrigin(ctx, transactionID)
	if err != nil {
		return err
	}
	if origin != models.OriginUser {
		return ErrForbiddenMirrorEdit
	}
	return nil
}

// applyDeltas применяет слитые поправки к балансам счетов. Счета
// блокируются в порядке возрастания id, чтобы параллельные единицы
// работы не взаимоблокировались.
func applyDeltas(ctx context.Context, q Tx, userID int, deltas map[int]decimal.Decimal) (map[int]decimal.Decimal, error) {
	ids := make([]int, 0, len(deltas))
	for accountID := range deltas {
		ids = append(ids, accountID)
	}
	sort.Ints(ids)

	balances := make(map[int]decimal.Decimal, len(ids))
	for _, accountID := range ids {
		account, err := q.AccountForUpdate(ctx, userID, accountID)
		if err != nil {
			return nil, err
		}
		balance := account.Balance.Add(deltas[accountID])
		if err := q.UpdateAccountBalance(ctx, accountID, balance); err != nil {
			return nil, err
		}
		balances[accountID] = balance
	}
	return balances, nil
}

func checkSourceBalance(tx *models.Transaction, balances map[int]decimal.Decimal) error {
	if tx.Type != models.TransactionExpense && tx.Type != models.TransactionTransfer {
		return nil
	}
	if balance, ok := balances[tx.AccountID]; ok && balance.IsNegative() {
		return ErrInsufficientBalance
	}
	return nil
}

// scheduleKpiRecalc запускает пересчёт KPI после фиксации, по одному на
// каждый затронутый месяц. Пересчёт ограничен по времени; его ошибка
// логируется и никогда не влияет на исходную операцию.
func (e *Engine) scheduleKpiRecalc(userID int, dates ...time.Time) {
	type period struct {
		year  int
		month int
	}
	seen := make(map[period]bool, len(dates))

	for _, date := range dates {
		d := date.UTC()
		p := period{year: d.Year(), month: int(d.Month())}
		if seen[p] {
			continue
		}
		seen[p] = true

		e.wg.Add(1)
		go func(p period) {
			defer e.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), e.kpiTimeout)
			defer cancel()
			if err := e.RecalcMonthlyKPIs(ctx, userID, p.year, p.month); err != nil {
				log.Printf("ошибка пересчёта KPI user=%d период=%d/%d: %v", userID, p.month, p.year, err)
			}
		}(p)
	}
}
