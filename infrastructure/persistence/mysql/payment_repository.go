package mysql

import (
	"context"
	"errors"

	"movieshop/domain/payment"
	"movieshop/infrastructure/persistence"
	"movieshop/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// PaymentRepository MySQL/GORM implementation of the payment repository.
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository Create payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save Insert the payment and its items.
// When called within UoW.Execute(), it uses the transaction from context.
func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	paymentPO, itemPOs := po.FromPaymentDomain(p)

	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, paymentPO, itemPOs)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, paymentPO, itemPOs)
	})
}

func (r *PaymentRepository) saveWithTx(tx *gorm.DB, paymentPO *po.PaymentPO, itemPOs []po.PaymentItemPO) error {
	if err := tx.Create(paymentPO).Error; err != nil {
		return err
	}
	if len(itemPOs) > 0 {
		if err := tx.Create(&itemPOs).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID Find payment by ID
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*payment.Payment, error) {
	db := r.getDB(ctx)
	var paymentPO po.PaymentPO

	result := db.First(&paymentPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, result.Error
	}

	var itemPOs []po.PaymentItemPO
	if err := db.Where("payment_id = ?", id).Find(&itemPOs).Error; err != nil {
		return nil, err
	}

	return paymentPO.ToDomain(itemPOs), nil
}

// FindByUserID Find the user's payments, most recent first.
// An empty result is ErrPaymentNotFound.
func (r *PaymentRepository) FindByUserID(ctx context.Context, userID string) ([]*payment.Payment, error) {
	db := r.getDB(ctx)
	var paymentPOs []po.PaymentPO

	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&paymentPOs).Error; err != nil {
		return nil, err
	}
	if len(paymentPOs) == 0 {
		return nil, payment.ErrPaymentNotFound
	}

	payments := make([]*payment.Payment, len(paymentPOs))
	for i, paymentPO := range paymentPOs {
		var itemPOs []po.PaymentItemPO
		if err := db.Where("payment_id = ?", paymentPO.ID).Find(&itemPOs).Error; err != nil {
			return nil, err
		}
		payments[i] = paymentPO.ToDomain(itemPOs)
	}

	return payments, nil
}

// Compile-time interface implementation check
var _ payment.Repository = (*PaymentRepository)(nil)
