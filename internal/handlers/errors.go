package handlers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Бизнес-ошибки движка превращаются в адресуемые ответы формы,
// ошибки хранилища — в общий ответ "попробуйте снова".
func writeEngineError(w http.ResponseWriter, err error) {
	var validationErr *ledger.ValidationError
	var persistenceErr *ledger.PersistenceError

	switch {
	case errors.Is(err, ledger.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ledger.ErrImmutableLoan),
		errors.Is(err, ledger.ErrOutOfOrderDeletion),
		errors.Is(err, ledger.ErrHasPayments),
		errors.Is(err, ledger.ErrForbiddenMirrorEdit):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{validationErr.Field: validationErr.Message})
	case errors.Is(err, ledger.ErrInsufficientBalance),
		errors.Is(err, ledger.ErrInsufficientPrincipalRemaining):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.As(err, &persistenceErr):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Произошла непредвиденная ошибка. Попробуйте снова."})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Произошла непредвиденная ошибка. Попробуйте снова."})
	}
}
