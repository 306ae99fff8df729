package routes

import (
	"github.com/gorilla/mux"
	"github.com/valeriaulyamaeva/ledger-engine/internal/handlers"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
)

func SetupRouter(engine *ledger.Engine, kpi ledger.KpiStore) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/transactions", handlers.CreateTransactionHandler(engine)).Methods("POST")
	r.HandleFunc("/api/transactions/{id}", handlers.UpdateTransactionHandler(engine)).Methods("PUT")
	r.HandleFunc("/api/transactions/{id}", handlers.DeleteTransactionHandler(engine)).Methods("DELETE")

	r.HandleFunc("/api/loans", handlers.CreateLoanHandler(engine)).Methods("POST")
	r.HandleFunc("/api/loans/{id}", handlers.UpdateLoanHandler(engine)).Methods("PUT")
	r.HandleFunc("/api/loans/{id}", handlers.DeleteLoanHandler(engine)).Methods("DELETE")

	r.HandleFunc("/api/loans/{id}/payments", handlers.RecordPaymentHandler(engine)).Methods("POST")
	r.HandleFunc("/api/loans/{id}/payments/{payment_id}", handlers.UpdatePaymentHandler(engine)).Methods("PUT")
	r.HandleFunc("/api/loans/{id}/payments/{payment_id}", handlers.DeletePaymentHandler(engine)).Methods("DELETE")

	r.HandleFunc("/api/accounts/recalculate", handlers.RecalculateBalancesHandler(engine)).Methods("POST")
	r.HandleFunc("/api/kpi/{year}/{month}", handlers.GetKpiHandler(kpi)).Methods("GET")

	return r
}
