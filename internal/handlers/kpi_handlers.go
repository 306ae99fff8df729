package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
)

// Пересчёт балансов с нуля по истории транзакций — исправление дрейфа.
func RecalculateBalancesHandler(engine *ledger.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		if err := engine.RecalculateAllBalances(r.Context(), userID); err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Балансы пересчитаны корректно"})
	}
}

func GetKpiHandler(store ledger.KpiStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		year, err := strconv.Atoi(vars["year"])
		if err != nil {
			http.Error(w, "Invalid year", http.StatusBadRequest)
			return
		}
		month, err := strconv.Atoi(vars["month"])
		if err != nil || month < 1 || month > 12 {
			http.Error(w, "Invalid month", http.StatusBadRequest)
			return
		}
		userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		row, err := store.KpiByPeriod(r.Context(), userID, year, month)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, row)
	}
}
