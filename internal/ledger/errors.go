package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                       = errors.New("запись не найдена или не принадлежит пользователю")
	ErrInsufficientBalance            = errors.New("сумма превышает доступный остаток")
	ErrImmutableLoan                  = errors.New("нельзя изменять сумму, дату или счёт займа с зарегистрированными платежами")
	ErrInsufficientPrincipalRemaining = errors.New("сумма займа не может быть меньше уже выплаченного капитала")
	ErrOutOfOrderDeletion             = errors.New("удалить можно только последний платёж по займу")
	ErrHasPayments                    = errors.New("нельзя удалить займ с зарегистрированными платежами")
	ErrForbiddenMirrorEdit            = errors.New("зеркальную транзакцию займа или платежа нельзя изменять напрямую")
)

// Ошибка бизнес-валидации, привязанная к полю формы.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Ошибка хранилища. Возвращается после полного отката транзакции.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ошибка хранилища: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
