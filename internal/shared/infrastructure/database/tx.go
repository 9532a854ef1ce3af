package database

import (
	"context"
	"errors"
)

// ErrNoTransaction is returned when Commit or Rollback find no transaction.
var ErrNoTransaction = errors.New("no transaction in context")

type txKey struct{}

type txState struct {
	tx    Transaction
	owner bool
}

// WithTx returns a context carrying tx. Only the owner commits or rolls back.
func WithTx(ctx context.Context, tx Transaction, owner bool) context.Context {
	return context.WithValue(ctx, txKey{}, txState{tx: tx, owner: owner})
}

// TxFromContext returns the transaction in ctx, or nil.
func TxFromContext(ctx context.Context) Transaction {
	state, _ := ctx.Value(txKey{}).(txState)
	return state.tx
}

// ExecutorFromContext returns the active transaction if there is one and
// the connection otherwise, so repositories join a unit of work for free.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return conn
}

// UnitOfWork runs handler work inside one SQL transaction. Nested Begin
// calls reuse the outer transaction.
type UnitOfWork struct {
	conn Connection
}

// NewUnitOfWork creates a unit of work over conn.
func NewUnitOfWork(conn Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if tx := TxFromContext(ctx); tx != nil {
		return WithTx(ctx, tx, false), nil
	}
	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return WithTx(ctx, tx, true), nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	state, ok := ctx.Value(txKey{}).(txState)
	if !ok || state.tx == nil {
		return ErrNoTransaction
	}
	if !state.owner {
		return nil
	}
	return state.tx.Commit(ctx)
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	state, ok := ctx.Value(txKey{}).(txState)
	if !ok || state.tx == nil {
		return ErrNoTransaction
	}
	if !state.owner {
		return nil
	}
	return state.tx.Rollback(ctx)
}
