package handlers

import (
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

func CreateLoanHandler(engine *ledger.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var loan models.Loan
		if err := json.NewDecoder(r.Body).Decode(&loan); err != nil {
			http.Error(w, "Invalid input data", http.StatusBadRequest)
			return
		}

		saved, err := engine.CreateLoan(r.Context(), loan.UserID, &loan)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	}
}

func UpdateLoanHandler(engine *ledger.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		id, err := strconv.Atoi(vars["id"])
		if err != nil {
			http.Error(w, "Invalid loan ID", http.StatusBadRequest)
			return
		}

		var loan models.Loan
		if err := json.NewDecoder(r.Body).Decode(&loan); err != nil {
			http.Error(w, "Invalid input data", http.StatusBadRequest)
			return
		}
		loan.ID = id

		saved, err := engine.UpdateLoan(r.Context(), loan.UserID, &loan)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, saved)
	}
}

func DeleteLoanHandler(engine *ledger.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		id, err := strconv.Atoi(vars["id"])
		if err != nil {
			http.Error(w, "Invalid loan ID", http.StatusBadRequest)
			return
		}
		userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		if err := engine.DeleteLoan(r.Context(), userID, id); err != nil {
			writeEngineError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
