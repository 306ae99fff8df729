package database_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/ledger-engine/internal/database"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

func testStore(t *testing.T) *database.Store {
	t.Helper()
	godotenv.Load()
	if os.Getenv("DB_HOST") == "" {
		t.Skip("БД не настроена, тест пропущен")
	}

	ctx := context.Background()
	pool, err := database.ConnectDB(ctx)
	if err != nil {
		t.Fatalf("ошибка подключения к БД: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("ошибка миграции схемы: %v", err)
	}
	return database.NewStore(pool)
}

func testUser() int {
	return int(time.Now().UnixNano() % 1_000_000_000)
}

func TestUnitOfWorkRollback(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	userID := testUser()

	account := &models.Account{
		UserID:   userID,
		Name:     "rollback",
		Type:     models.AccountBank,
		Balance:  decimal.NewFromInt(100),
		IsActive: true,
	}
	boom := errors.New("отмена")

	err := store.InTx(ctx, func(q ledger.Tx) error {
		if err := q.InsertAccount(ctx, account); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ожидалась ошибка отмены, получили %v", err)
	}

	err = store.InTx(ctx, func(q ledger.Tx) error {
		_, err := q.AccountForUpdate(ctx, userID, account.ID)
		return err
	})
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("счёт не должен пережить откат: получили %v", err)
	}
}

func TestTransactionOriginLookup(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	userID := testUser()

	var userTx, mirrorTx int
	err := store.InTx(ctx, func(q ledger.Tx) error {
		account := &models.Account{
			UserID:   userID,
			Name:     "origin",
			Type:     models.AccountBank,
			Balance:  decimal.Zero,
			IsActive: true,
		}
		if err := q.InsertAccount(ctx, account); err != nil {
			return err
		}

		categoryID := 1
		plain := &models.Transaction{
			UserID:     userID,
			Type:       models.TransactionIncome,
			AccountID:  account.ID,
			CategoryID: &categoryID,
			Amount:     decimal.NewFromInt(10),
			Date:       time.Now().UTC(),
		}
		if err := q.InsertTransaction(ctx, plain); err != nil {
			return err
		}
		userTx = plain.ID

		mirror := &models.Transaction{
			UserID:    userID,
			Type:      models.TransactionIncome,
			AccountID: account.ID,
			Amount:    decimal.NewFromInt(500),
			Date:      time.Now().UTC(),
		}
		if err := q.InsertTransaction(ctx, mirror); err != nil {
			return err
		}
		mirrorTx = mirror.ID

		loan := &models.Loan{
			UserID:                userID,
			Name:                  "origin loan",
			TotalAmount:           decimal.NewFromInt(500),
			PrincipalPaid:         decimal.Zero,
			InterestPaid:          decimal.Zero,
			Balance:               decimal.NewFromInt(500),
			DisbursementAccountID: account.ID,
			TransactionID:         &mirror.ID,
			Status:                models.LoanActive,
			StartDate:             time.Now().UTC(),
		}
		if err := q.InsertLoan(ctx, loan); err != nil {
			return err
		}

		origin, err := q.TransactionOrigin(ctx, userTx)
		if err != nil {
			return err
		}
		if origin != models.OriginUser {
			t.Errorf("происхождение обычной транзакции: получили %s, хотели user", origin)
		}

		origin, err = q.TransactionOrigin(ctx, mirrorTx)
		if err != nil {
			return err
		}
		if origin != models.OriginLoan {
			t.Errorf("происхождение зеркала займа: получили %s, хотели loan", origin)
		}
		return errors.New("тестовые данные не сохраняем")
	})
	if err == nil {
		t.Fatal("ожидался откат тестовых данных")
	}
}

func TestKpiUpsertReusesRow(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	userID := testUser()

	row := &models.CacheKpiBalance{
		UserID:      userID,
		PeriodYear:  2026,
		PeriodMonth: 8,
		Incomes:     decimal.NewFromInt(100),
	}
	if err := store.UpsertKpi(ctx, row); err != nil {
		t.Fatalf("ошибка первого upsert: %v", err)
	}
	firstID := row.ID
	firstCreated := row.CreatedAt

	row.Incomes = decimal.NewFromInt(150)
	if err := store.UpsertKpi(ctx, row); err != nil {
		t.Fatalf("ошибка повторного upsert: %v", err)
	}
	if row.ID != firstID {
		t.Errorf("upsert должен переиспользовать строку: id %d и %d", firstID, row.ID)
	}
	if !row.CreatedAt.Equal(firstCreated) {
		t.Errorf("created_at не должен меняться при upsert")
	}

	saved, err := store.KpiByPeriod(ctx, userID, 2026, 8)
	if err != nil {
		t.Fatalf("ошибка чтения строки KPI: %v", err)
	}
	if !saved.Incomes.Equal(decimal.NewFromInt(150)) {
		t.Errorf("доходы после upsert: получили %s, хотели 150", saved.Incomes)
	}
}
