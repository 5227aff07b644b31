package mysql

import (
	"fmt"

	"movieshop/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates all tables of the commerce pipeline. The
// unique indexes declared on the POs carry the exactly-once guarantees, so
// migration must run before the server accepts traffic.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&po.MoviePO{},
		&po.CartPO{},
		&po.CartItemPO{},
		&po.OrderPO{},
		&po.OrderItemPO{},
		&po.PaymentPO{},
		&po.PaymentItemPO{},
		&po.PurchasePO{},
		&po.OutboxEventPO{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}
