package po

import (
	"time"

	"movieshop/domain/payment"
	"movieshop/domain/shared"
)

// PaymentPO Payment persistence object
// Note: Only used for database mapping, does not contain any business logic
type PaymentPO struct {
	ID                string    `gorm:"primaryKey;size:64"`
	OrderID           string    `gorm:"size:64;index;not null"` // Only store ID, no GORM association
	UserID            string    `gorm:"size:64;index;not null"`
	Status            string    `gorm:"size:20;not null"`
	Amount            int64     `gorm:"not null"`
	Currency          string    `gorm:"size:3;not null"`
	ExternalPaymentID string    `gorm:"size:128"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (PaymentPO) TableName() string {
	return "payments"
}

// PaymentItemPO Payment item persistence object
type PaymentItemPO struct {
	ID            string `gorm:"primaryKey;size:64"`
	PaymentID     string `gorm:"size:64;index;not null"`
	OrderItemID   string `gorm:"size:64;not null"`
	MovieID       string `gorm:"size:64;not null"`
	PriceAmount   int64  `gorm:"not null"`
	PriceCurrency string `gorm:"size:3;not null"`
}

// TableName Specify table name
func (PaymentItemPO) TableName() string {
	return "payment_items"
}

// FromPaymentDomain Convert domain model to persistence objects
func FromPaymentDomain(p *payment.Payment) (*PaymentPO, []PaymentItemPO) {
	paymentPO := &PaymentPO{
		ID:                p.ID,
		OrderID:           p.OrderID,
		UserID:            p.UserID,
		Status:            string(p.Status),
		Amount:            p.Amount.Amount(),
		Currency:          p.Amount.Currency(),
		ExternalPaymentID: p.ExternalPaymentID,
		CreatedAt:         p.CreatedAt,
	}

	itemPOs := make([]PaymentItemPO, len(p.Items))
	for i, item := range p.Items {
		itemPOs[i] = PaymentItemPO{
			ID:            item.ID,
			PaymentID:     p.ID,
			OrderItemID:   item.OrderItemID,
			MovieID:       item.MovieID,
			PriceAmount:   item.PriceAtPayment.Amount(),
			PriceCurrency: item.PriceAtPayment.Currency(),
		}
	}

	return paymentPO, itemPOs
}

// ToDomain Convert persistence objects to domain model
func (po *PaymentPO) ToDomain(itemPOs []PaymentItemPO) *payment.Payment {
	items := make([]payment.Item, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = payment.Item{
			ID:             itemPO.ID,
			PaymentID:      itemPO.PaymentID,
			OrderItemID:    itemPO.OrderItemID,
			MovieID:        itemPO.MovieID,
			PriceAtPayment: *shared.NewMoney(itemPO.PriceAmount, itemPO.PriceCurrency),
		}
	}

	return &payment.Payment{
		ID:                po.ID,
		OrderID:           po.OrderID,
		UserID:            po.UserID,
		CreatedAt:         po.CreatedAt,
		Status:            payment.Status(po.Status),
		Amount:            *shared.NewMoney(po.Amount, po.Currency),
		ExternalPaymentID: po.ExternalPaymentID,
		Items:             items,
	}
}
