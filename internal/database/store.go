package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/ledger-engine/internal/ledger"
)

// Store реализует хранилище движка поверх pgx. Каждая единица работы —
// одна транзакция БД; строки счетов и займов блокируются через
// SELECT ... FOR UPDATE до чтения баланса.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) InTx(ctx context.Context, fn func(ledger.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return persistErr("ошибка открытия транзакции", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&queries{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return persistErr("ошибка фиксации транзакции", err)
	}
	return nil
}

// queries выполняет запросы единицы работы внутри открытой транзакции.
type queries struct {
	tx pgx.Tx
}

func persistErr(msg string, err error) error {
	return &ledger.PersistenceError{Err: fmt.Errorf("%s: %w", msg, err)}
}
