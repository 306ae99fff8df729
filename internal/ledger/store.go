package ledger

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

// Store — граница хранилища движка. InTx выполняет fn как одну атомарную
// единицу работы: любая ошибка из fn полностью откатывает все изменения.
type Store interface {
	InTx(ctx context.Context, fn func(Tx) error) error
	KpiStore
}

// Tx — операции, доступные внутри единицы работы. Реализация обязана
// блокировать строку счёта или займа (SELECT ... FOR UPDATE) до чтения
// её баланса.
type Tx interface {
	AccountForUpdate(ctx context.Context, userID, accountID int) (*models.Account, error)
	AccountsByUserForUpdate(ctx context.Context, userID int) ([]*models.Account, error)
	InsertAccount(ctx context.Context, account *models.Account) error
	UpdateAccountBalance(ctx context.Context, accountID int, balance decimal.Decimal) error

	TransactionByID(ctx context.Context, userID, transactionID int) (*models.Transaction, error)
	TransactionsByUser(ctx context.Context, userID int) ([]*models.Transaction, error)
	TransactionOrigin(ctx context.Context, transactionID int) (models.TransactionOrigin, error)
	InsertTransaction(ctx context.Context, tx *models.Transaction) error
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, transactionID int) error

	LoanForUpdate(ctx context.Context, userID, loanID int) (*models.Loan, error)
	InsertLoan(ctx context.Context, loan *models.Loan) error
	UpdateLoan(ctx context.Context, loan *models.Loan) error
	DeleteLoan(ctx context.Context, loanID int) error

	PaymentByID(ctx context.Context, loanID, paymentID int) (*models.LoanPayment, error)
	LastPayment(ctx context.Context, loanID int) (*models.LoanPayment, error)
	PaymentCount(ctx context.Context, loanID int) (int, error)
	InsertPayment(ctx context.Context, payment *models.LoanPayment) error
	UpdatePayment(ctx context.Context, payment *models.LoanPayment) error
	DeletePayment(ctx context.Context, paymentID int) error
}

// Суммы за месяц до вычисления производных показателей.
type MonthlyTotals struct {
	Incomes            decimal.Decimal
	Expenses           decimal.Decimal
	Savings            decimal.Decimal
	Withdrawals        decimal.Decimal
	Loans              decimal.Decimal
	Payments           decimal.Decimal
	PrincipalBreakdown decimal.Decimal
	InterestBreakdown  decimal.Decimal
}

// KpiStore читает уже зафиксированное состояние и выполняет идемпотентный
// upsert строки кеша; работает вне единицы работы координаторов.
type KpiStore interface {
	MonthlyTotals(ctx context.Context, userID, year, month int) (*MonthlyTotals, error)
	UpsertKpi(ctx context.Context, row *models.CacheKpiBalance) error
	KpiByPeriod(ctx context.Context, userID, year, month int) (*models.CacheKpiBalance, error)
	ActiveUserIDs(ctx context.Context) ([]int, error)
}
