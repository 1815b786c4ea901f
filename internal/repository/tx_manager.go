package repository

import (
	"context"

	"gorm.io/gorm"
)

type contextKey string

const txKey contextKey = "gorm_tx"

// Advisory lock keys. Values are arbitrary but must stay stable across releases.
const (
	LockUserProvisioning int64 = 7_310_001
)

// TransactionManager manages database transactions via context injection.
// Repositories pick the transaction up from the context they are called with.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
	// RunLocked is RunInTx holding a transaction scoped advisory lock on key
	RunLocked(ctx context.Context, key int64, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &transactionManager{db: db}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey, tx)
		return fn(txCtx)
	})
}

func (t *transactionManager) RunLocked(ctx context.Context, key int64, fn func(txCtx context.Context) error) error {
	return t.RunInTx(ctx, func(txCtx context.Context) error {
		if err := GetDB(txCtx, t.db).Exec("SELECT pg_advisory_xact_lock(?)", key).Error; err != nil {
			return err
		}
		return fn(txCtx)
	})
}

// GetDB extracts the transaction DB from context if present, otherwise returns root DB.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}
