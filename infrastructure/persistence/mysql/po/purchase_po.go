package po

import (
	"time"

	"movieshop/domain/purchase"
)

// PurchasePO Purchase ledger persistence object
// The composite unique index is the exactly-once backstop: a second purchase
// of the same movie by the same user fails at the database no matter how the
// request interleaved with others.
type PurchasePO struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	UserID      string    `gorm:"size:64;not null;uniqueIndex:uniq_user_movie"`
	MovieID     string    `gorm:"size:64;not null;uniqueIndex:uniq_user_movie"`
	PurchasedAt time.Time `gorm:"autoCreateTime"`
}

// TableName Specify table name
func (PurchasePO) TableName() string {
	return "purchases"
}

// FromPurchaseDomain Convert domain record to persistence object
func FromPurchaseDomain(r purchase.Record) *PurchasePO {
	return &PurchasePO{
		UserID:      r.UserID,
		MovieID:     r.MovieID,
		PurchasedAt: r.PurchasedAt,
	}
}

// ToDomain Convert persistence object to domain record
func (po *PurchasePO) ToDomain() purchase.Record {
	return purchase.Record{
		UserID:      po.UserID,
		MovieID:     po.MovieID,
		PurchasedAt: po.PurchasedAt,
	}
}
