package handlers

import (
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
	"github.com/valeriaulyamaeva/ledger-engine/models"
)

type paymentRequest struct {
	UserID int `json:"user_id"`
	models.LoanPayment
}

func RecordPaymentHandler(engine *ledger.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		loanID, err := strconv.Atoi(vars["id"])
		if err != nil {
			http.Error(w, "Invalid loan ID", http.StatusBadRequest)
			return
		}

		var req paymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid input data", http.StatusBadRequest)
			return
		}
		req.LoanPayment.LoanID = loanID

		saved, err := engine.RecordPayment(r.Context(), req.UserID, &req.LoanPayment)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	}
}

func UpdatePaymentHandler(engine *ledger.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		loanID, err := strconv.Atoi(vars["id"])
		if err != nil {
			http.Error(w, "Invalid loan ID", http.StatusBadRequest)
			return
		}
		paymentID, err := strconv.Atoi(vars["payment_id"])
		if err != nil {
			http.Error(w, "Invalid payment ID", http.StatusBadRequest)
			return
		}

		var req paymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid input data", http.StatusBadRequest)
			return
		}
		req.LoanPayment.LoanID = loanID
		req.LoanPayment.ID = paymentID

		saved, err := engine.UpdatePayment(r.Context(), req.UserID, &req.LoanPayment)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, saved)
	}
}

func DeletePaymentHandler(engine *ledger.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		loanID, err := strconv.Atoi(vars["id"])
		if err != nil {
			http.Error(w, "Invalid loan ID", http.StatusBadRequest)
			return
		}
		paymentID, err := strconv.Atoi(vars["payment_id"])
		if err != nil {
			http.Error(w, "Invalid payment ID", http.StatusBadRequest)
			return
		}
		userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		if err := engine.DeletePayment(r.Context(), userID, loanID, paymentID); err != nil {
			writeEngineError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
