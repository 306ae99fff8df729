package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(v int) *int {
	return &v
}

func TestCalculateDeltasIncome(t *testing.T) {
	tx := &models.Transaction{Type: models.TransactionIncome, AccountID: 1, Amount: amount("100.00")}

	deltas := ledger.CalculateDeltas(tx, 1)
	if len(deltas) != 1 {
		t.Fatalf("ожидалась одна поправка, получили %d", len(deltas))
	}
	if !deltas[1].Equal(amount("100.00")) {
		t.Errorf("поправка дохода не совпадает: получили %s, хотели 100.00", deltas[1])
	}

	reversed := ledger.CalculateDeltas(tx, -1)
	if !reversed[1].Equal(amount("-100.00")) {
		t.Errorf("отмена дохода не совпадает: получили %s, хотели -100.00", reversed[1])
	}
}

func TestCalculateDeltasExpense(t *testing.T) {
	tx := &models.Transaction{Type: models.TransactionExpense, AccountID: 3, Amount: amount("40.50")}

	deltas := ledger.CalculateDeltas(tx, 1)
	if !deltas[3].Equal(amount("-40.50")) {
		t.Errorf("поправка расхода не совпадает: получили %s, хотели -40.50", deltas[3])
	}
}

func TestCalculateDeltasTransfer(t *testing.T) {
	tx := &models.Transaction{
		Type:        models.TransactionTransfer,
		AccountID:   1,
		ToAccountID: intPtr(2),
		Amount:      amount("50.00"),
	}

	deltas := ledger.CalculateDeltas(tx, 1)
	if len(deltas) != 2 {
		t.Fatalf("ожидались две поправки, получили %d", len(deltas))
	}
	if !deltas[1].Equal(amount("-50.00")) {
		t.Errorf("поправка счёта списания не совпадает: получили %s, хотели -50.00", deltas[1])
	}
	if !deltas[2].Equal(amount("50.00")) {
		t.Errorf("поправка счёта назначения не совпадает: получили %s, хотели 50.00", deltas[2])
	}
}

// Слияние отмены старой версии и эффекта новой даёт чистую разницу.
func TestMergeDeltasNetsOut(t *testing.T) {
	old := &models.Transaction{Type: models.TransactionExpense, AccountID: 1, Amount: amount("40.00")}
	updated := &models.Transaction{Type: models.TransactionExpense, AccountID: 1, Amount: amount("10.00")}

	deltas := ledger.CalculateDeltas(old, -1)
	ledger.MergeDeltas(deltas, ledger.CalculateDeltas(updated, 1))

	if len(deltas) != 1 {
		t.Fatalf("ожидалась одна поправка после слияния, получили %d", len(deltas))
	}
	if !deltas[1].Equal(amount("30.00")) {
		t.Errorf("чистая поправка не совпадает: получили %s, хотели 30.00", deltas[1])
	}
}

func TestMergeDeltasAccountChange(t *testing.T) {
	old := &models.Transaction{
		Type:        models.TransactionTransfer,
		AccountID:   1,
		ToAccountID: intPtr(2),
		Amount:      amount("50.00"),
	}
	updated := &models.Transaction{
		Type:        models.TransactionTransfer,
		AccountID:   1,
		ToAccountID: intPtr(3),
		Amount:      amount("50.00"),
	}

	deltas := ledger.CalculateDeltas(old, -1)
	ledger.MergeDeltas(deltas, ledger.CalculateDeltas(updated, 1))

	if !deltas[1].IsZero() {
		t.Errorf("счёт списания должен остаться без изменений, получили %s", deltas[1])
	}
	if !deltas[2].Equal(amount("-50.00")) {
		t.Errorf("возврат старого счёта назначения не совпадает: получили %s, хотели -50.00", deltas[2])
	}
	if !deltas[3].Equal(amount("50.00")) {
		t.Errorf("зачисление нового счёта назначения не совпадает: получили %s, хотели 50.00", deltas[3])
	}
}
