package mysql

import (
	"context"
	"errors"

	"movieshop/domain/purchase"
	"movieshop/infrastructure/persistence"
	"movieshop/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// PurchaseLedger MySQL/GORM implementation of the purchase ledger.
// Append-only; the uniq_user_movie constraint enforces exactly-once purchase
// even when two transactions passed the read check concurrently.
type PurchaseLedger struct {
	db *gorm.DB
}

// NewPurchaseLedger Create purchase ledger
func NewPurchaseLedger(db *gorm.DB) *PurchaseLedger {
	return &PurchaseLedger{db: db}
}

func (r *PurchaseLedger) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// IsPurchased Report whether the user already owns the movie
func (r *PurchaseLedger) IsPurchased(ctx context.Context, userID, movieID string) (bool, error) {
	var record po.PurchasePO
	result := r.getDB(ctx).First(&record, "user_id = ? AND movie_id = ?", userID, movieID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, result.Error
	}
	return true, nil
}

// Append Insert ledger records inside the caller's transaction
func (r *PurchaseLedger) Append(ctx context.Context, records []purchase.Record) error {
	if len(records) == 0 {
		return nil
	}

	recordPOs := make([]*po.PurchasePO, len(records))
	for i, record := range records {
		recordPOs[i] = po.FromPurchaseDomain(record)
	}

	if err := r.getDB(ctx).Create(&recordPOs).Error; err != nil {
		if isDuplicateKey(err) {
			return purchase.ErrDuplicateRecord
		}
		return err
	}
	return nil
}

// Compile-time interface implementation check
var _ purchase.Ledger = (*PurchaseLedger)(nil)
