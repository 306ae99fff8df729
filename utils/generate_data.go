package utils

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

// Генерация тестовых данных через движок, чтобы балансы и зеркальные
// транзакции оставались согласованными.

var accountTypes = []string{
	models.AccountCash,
	models.AccountBank,
	models.AccountCard,
	models.AccountSaving,
}

func GenerateTestAccounts(ctx context.Context, store ledger.Store, userID, numAccounts int) []int {
	var ids []int
	for i := 0; i < numAccounts; i++ {
		account := &models.Account{
			UserID:   userID,
			Name:     gofakeit.Company(),
			Type:     accountTypes[rand.Intn(len(accountTypes))],
			Balance:  decimal.Zero,
			IsActive: true,
		}

		err := store.InTx(ctx, func(q ledger.Tx) error {
			return q.InsertAccount(ctx, account)
		})
		if err != nil {
			log.Fatalf("ошибка при добавлении счёта: %v", err)
		}
		ids = append(ids, account.ID)
	}
	return ids
}

func GenerateTestTransactions(ctx context.Context, engine *ledger.Engine, userID int, accountIDs []int, numTransactions int) {
	for i := 0; i < numTransactions; i++ {
		categoryID := rand.Intn(10) + 1
		transaction := &models.Transaction{
			Type:        models.TransactionIncome,
			AccountID:   accountIDs[rand.Intn(len(accountIDs))],
			CategoryID:  &categoryID,
			Amount:      decimal.NewFromFloat(gofakeit.Price(1, 1000)).Round(2),
			Date:        gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now()),
			Description: gofakeit.Sentence(3),
		}
		// Расход только при наличии средств на счёте
		if i%2 == 0 {
			transaction.Type = models.TransactionExpense
			transaction.Amount = decimal.NewFromFloat(gofakeit.Price(1, 50)).Round(2)
		}

		if _, err := engine.CreateTransaction(ctx, userID, transaction); err != nil {
			log.Printf("транзакция пропущена: %v", err)
		}
	}
}

func GenerateTestLoans(ctx context.Context, engine *ledger.Engine, userID int, accountIDs []int, numLoans int) {
	for i := 0; i < numLoans; i++ {
		loan := &models.Loan{
			Name:                  gofakeit.BuzzWord(),
			TotalAmount:           decimal.NewFromFloat(gofakeit.Price(500, 10000)).Round(2),
			DisbursementAccountID: accountIDs[rand.Intn(len(accountIDs))],
			StartDate:             gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()),
			Note:                  gofakeit.Sentence(4),
		}

		saved, err := engine.CreateLoan(ctx, userID, loan)
		if err != nil {
			log.Fatalf("ошибка при добавлении займа: %v", err)
		}

		payment := &models.LoanPayment{
			LoanID:        saved.ID,
			AccountID:     saved.DisbursementAccountID,
			PrincipalPaid: saved.TotalAmount.Div(decimal.NewFromInt(10)).Round(2),
			InterestPaid:  decimal.NewFromFloat(gofakeit.Price(1, 50)).Round(2),
			PaymentDate:   time.Now(),
			Note:          gofakeit.Sentence(3),
		}
		if _, err := engine.RecordPayment(ctx, userID, payment); err != nil {
			log.Printf("платёж пропущен: %v", err)
		}
	}
}
