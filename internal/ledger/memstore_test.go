package ledger_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

// Хранилище в памяти для тестов движка. Единица работы реализована через
// снимок состояния: ошибка из fn восстанавливает снимок, имитируя полный
// откат транзакции БД.

type kpiKey struct {
	userID int
	year   int
	month  int
}

type memStore struct {
	mu sync.Mutex

	accounts     map[int]*models.Account
	transactions map[int]*models.Transaction
	loans        map[int]*models.Loan
	payments     map[int]*models.LoanPayment
	kpis         map[kpiKey]*models.CacheKpiBalance
	nextID       int
}

func newMemStore() *memStore {
	return &memStore{
		accounts:     make(map[int]*models.Account),
		transactions: make(map[int]*models.Transaction),
		loans:        make(map[int]*models.Loan),
		payments:     make(map[int]*models.LoanPayment),
		kpis:         make(map[kpiKey]*models.CacheKpiBalance),
		nextID:       1,
	}
}

func (s *memStore) InTx(ctx context.Context, fn func(ledger.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	if err := fn(&memTx{store: s}); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type memSnapshot struct {
	accounts     map[int]*models.Account
	transactions map[int]*models.Transaction
	loans        map[int]*models.Loan
	payments     map[int]*models.LoanPayment
	nextID       int
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyAccount(a *models.Account) *models.Account {
	c := *a
	return &c
}

func copyTransaction(t *models.Transaction) *models.Transaction {
	c := *t
	c.ToAccountID = copyIntPtr(t.ToAccountID)
	c.CategoryID = copyIntPtr(t.CategoryID)
	return &c
}

func copyLoan(l *models.Loan) *models.Loan {
	c := *l
	c.TransactionID = copyIntPtr(l.TransactionID)
	return &c
}

func copyPayment(p *models.LoanPayment) *models.LoanPayment {
	c := *p
	c.TransactionID = copyIntPtr(p.TransactionID)
	return &c
}

func (s *memStore) snapshot() *memSnapshot {
	snap := &memSnapshot{
		accounts:     make(map[int]*models.Account, len(s.accounts)),
		transactions: make(map[int]*models.Transaction, len(s.transactions)),
		loans:        make(map[int]*models.Loan, len(s.loans)),
		payments:     make(map[int]*models.LoanPayment, len(s.payments)),
		nextID:       s.nextID,
	}
	for id, a := range s.accounts {
		snap.accounts[id] = copyAccount(a)
	}
	for id, t := range s.transactions {
		snap.transactions[id] = copyTransaction(t)
	}
	for id, l := range s.loans {
		snap.loans[id] = copyLoan(l)
	}
	for id, p := range s.payments {
		snap.payments[id] = copyPayment(p)
	}
	return snap
}

func (s *memStore) restore(snap *memSnapshot) {
	s.accounts = snap.accounts
	s.transactions = snap.transactions
	s.loans = snap.loans
	s.payments = snap.payments
	s.nextID = snap.nextID
}

func (s *memStore) allocID() int {
	id := s.nextID
	s.nextID++
	return id
}

type memTx struct {
	store *memStore
}

func (m *memTx) AccountForUpdate(ctx context.Context, userID, accountID int) (*models.Account, error) {
	account, ok := m.store.accounts[accountID]
	if !ok || account.UserID != userID {
		return nil, ledger.ErrNotFound
	}
	return copyAccount(account), nil
}

func (m *memTx) AccountsByUserForUpdate(ctx context.Context, userID int) ([]*models.Account, error) {
	var accounts []*models.Account
	for _, account := range m.store.accounts {
		if account.UserID == userID {
			accounts = append(accounts, copyAccount(account))
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (m *memTx) InsertAccount(ctx context.Context, account *models.Account) error {
	account.ID = m.store.allocID()
	m.store.accounts[account.ID] = copyAccount(account)
	return nil
}

func (m *memTx) UpdateAccountBalance(ctx context.Context, accountID int, balance decimal.Decimal) error {
	account, ok := m.store.accounts[accountID]
	if !ok {
		return ledger.ErrNotFound
	}
	account.Balance = balance
	return nil
}

func (m *memTx) TransactionByID(ctx context.Context, userID, transactionID int) (*models.Transaction, error) {
	tx, ok := m.store.transactions[transactionID]
	if !ok || tx.UserID != userID {
		return nil, ledger.ErrNotFound
	}
	return copyTransaction(tx), nil
}

func (m *memTx) TransactionsByUser(ctx context.Context, userID int) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	for _, tx := range m.store.transactions {
		if tx.UserID == userID {
			transactions = append(transactions, copyTransaction(tx))
		}
	}
	sort.Slice(transactions, func(i, j int) bool { return transactions[i].ID < transactions[j].ID })
	return transactions, nil
}

func (m *memTx) TransactionOrigin(ctx context.Context, transactionID int) (models.TransactionOrigin, error) {
	for _, loan := range m.store.loans {
		if loan.TransactionID != nil && *loan.TransactionID == transactionID {
			return models.OriginLoan, nil
		}
	}
	for _, payment := range m.store.payments {
		if payment.TransactionID != nil && *payment.TransactionID == transactionID {
			return models.OriginPayment, nil
		}
	}
	return models.OriginUser, nil
}

func (m *memTx) InsertTransaction(ctx context.Context, tx *models.Transaction) error {
	tx.ID = m.store.allocID()
	tx.CreatedAt = time.Now()
	m.store.transactions[tx.ID] = copyTransaction(tx)
	return nil
}

func (m *memTx) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	existing, ok := m.store.transactions[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return ledger.ErrNotFound
	}
	saved := copyTransaction(tx)
	saved.CreatedAt = existing.CreatedAt
	m.store.transactions[tx.ID] = saved
	return nil
}

func (m *memTx) DeleteTransaction(ctx context.Context, transactionID int) error {
	if _, ok := m.store.transactions[transactionID]; !ok {
		return ledger.ErrNotFound
	}
	delete(m.store.transactions, transactionID)
	return nil
}

func (m *memTx) LoanForUpdate(ctx context.Context, userID, loanID int) (*models.Loan, error) {
	loan, ok := m.store.loans[loanID]
	if !ok || loan.UserID != userID {
		return nil, ledger.ErrNotFound
	}
	return copyLoan(loan), nil
}

func (m *memTx) InsertLoan(ctx context.Context, loan *models.Loan) error {
	loan.ID = m.store.allocID()
	loan.CreatedAt = time.Now()
	m.store.loans[loan.ID] = copyLoan(loan)
	return nil
}

func (m *memTx) UpdateLoan(ctx context.Context, loan *models.Loan) error {
	existing, ok := m.store.loans[loan.ID]
	if !ok || existing.UserID != loan.UserID {
		return ledger.ErrNotFound
	}
	saved := copyLoan(loan)
	saved.CreatedAt = existing.CreatedAt
	m.store.loans[loan.ID] = saved
	return nil
}

func (m *memTx) DeleteLoan(ctx context.Context, loanID int) error {
	if _, ok := m.store.loans[loanID]; !ok {
		return ledger.ErrNotFound
	}
	delete(m.store.loans, loanID)
	return nil
}

func (m *memTx) PaymentByID(ctx context.Context, loanID, paymentID int) (*models.LoanPayment, error) {
	payment, ok := m.store.payments[paymentID]
	if !ok || payment.LoanID != loanID {
		return nil, ledger.ErrNotFound
	}
	return copyPayment(payment), nil
}

func (m *memTx) LastPayment(ctx context.Context, loanID int) (*models.LoanPayment, error) {
	var last *models.LoanPayment
	for _, payment := range m.store.payments {
		if payment.LoanID != loanID {
			continue
		}
		if last == nil ||
			payment.PaymentDate.After(last.PaymentDate) ||
			(payment.PaymentDate.Equal(last.PaymentDate) && payment.ID > last.ID) {
			last = payment
		}
	}
	if last == nil {
		return nil, nil
	}
	return copyPayment(last), nil
}

func (m *memTx) PaymentCount(ctx context.Context, loanID int) (int, error) {
	count := 0
	for _, payment := range m.store.payments {
		if payment.LoanID == loanID {
			count++
		}
	}
	return count, nil
}

func (m *memTx) InsertPayment(ctx context.Context, payment *models.LoanPayment) error {
	payment.ID = m.store.allocID()
	payment.CreatedAt = time.Now()
	m.store.payments[payment.ID] = copyPayment(payment)
	return nil
}

func (m *memTx) UpdatePayment(ctx context.Context, payment *models.LoanPayment) error {
	existing, ok := m.store.payments[payment.ID]
	if !ok || existing.LoanID != payment.LoanID {
		return ledger.ErrNotFound
	}
	saved := copyPayment(payment)
	saved.CreatedAt = existing.CreatedAt
	m.store.payments[payment.ID] = saved
	return nil
}

func (m *memTx) DeletePayment(ctx context.Context, paymentID int) error {
	if _, ok := m.store.payments[paymentID]; !ok {
		return ledger.ErrNotFound
	}
	delete(m.store.payments, paymentID)
	return nil
}

func inPeriod(date time.Time, year, month int) bool {
	d := date.UTC()
	return d.Year() == year && int(d.Month()) == month
}

func (s *memStore) MonthlyTotals(ctx context.Context, userID, year, month int) (*ledger.MonthlyTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mirroredByLoan := make(map[int]bool)
	for _, loan := range s.loans {
		if loan.TransactionID != nil {
			mirroredByLoan[*loan.TransactionID] = true
		}
	}
	mirroredByPayment := make(map[int]bool)
	for _, payment := range s.payments {
		if payment.TransactionID != nil {
			mirroredByPayment[*payment.TransactionID] = true
		}
	}

	totals := &ledger.MonthlyTotals{}
	for _, tx := range s.transactions {
		if tx.UserID != userID || !inPeriod(tx.Date, year, month) {
			continue
		}
		switch tx.Type {
		case models.TransactionIncome:
			if !mirroredByLoan[tx.ID] {
				totals.Incomes = totals.Incomes.Add(tx.Amount)
			}
		case models.TransactionExpense:
			if !mirroredByPayment[tx.ID] {
				totals.Expenses = totals.Expenses.Add(tx.Amount)
			}
		case models.TransactionTransfer:
			if tx.ToAccountID == nil {
				continue
			}
			from, to := s.accounts[tx.AccountID], s.accounts[*tx.ToAccountID]
			if to != nil && to.Type == models.AccountSaving {
				totals.Savings = totals.Savings.Add(tx.Amount)
			}
			if from != nil && from.Type == models.AccountSaving && to != nil && to.Type != models.AccountSaving {
				totals.Withdrawals = totals.Withdrawals.Add(tx.Amount)
			}
		}
	}

	for _, loan := range s.loans {
		if loan.UserID == userID && inPeriod(loan.StartDate, year, month) {
			totals.Loans = totals.Loans.Add(loan.TotalAmount)
		}
	}
	for _, payment := range s.payments {
		loan, ok := s.loans[payment.LoanID]
		if !ok || loan.UserID != userID || !inPeriod(payment.PaymentDate, year, month) {
			continue
		}
		totals.Payments = totals.Payments.Add(payment.Total())
		totals.PrincipalBreakdown = totals.PrincipalBreakdown.Add(payment.PrincipalPaid)
		totals.InterestBreakdown = totals.InterestBreakdown.Add(payment.InterestPaid)
	}

	return totals, nil
}

func (s *memStore) UpsertKpi(ctx context.Context, row *models.CacheKpiBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := kpiKey{userID: row.UserID, year: row.PeriodYear, month: row.PeriodMonth}
	saved := *row
	if existing, ok := s.kpis[key]; ok {
		saved.ID = existing.ID
		saved.CreatedAt = existing.CreatedAt
	} else {
		saved.ID = s.nextID
		s.nextID++
		saved.CreatedAt = time.Now()
	}
	saved.UpdatedAt = time.Now()
	s.kpis[key] = &saved
	*row = saved
	return nil
}

func (s *memStore) KpiByPeriod(ctx context.Context, userID, year, month int) (*models.CacheKpiBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.kpis[kpiKey{userID: userID, year: year, month: month}]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	c := *row
	return &c, nil
}

func (s *memStore) ActiveUserIDs(ctx context.Context) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int]bool)
	var ids []int
	for _, tx := range s.transactions {
		if !seen[tx.UserID] {
			seen[tx.UserID] = true
			ids = append(ids, tx.UserID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}
