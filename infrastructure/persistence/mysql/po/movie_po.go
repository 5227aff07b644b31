package po

import (
	"time"

	"movieshop/domain/catalog"
	"movieshop/domain/shared"
)

// MoviePO Movie persistence object
// Note: Only used for database mapping, does not contain any business logic
type MoviePO struct {
	ID            string    `gorm:"primaryKey;size:64"`
	Title         string    `gorm:"size:255;not null"`
	PriceAmount   int64     `gorm:"not null"`
	PriceCurrency string    `gorm:"size:3;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (MoviePO) TableName() string {
	return "movies"
}

// ToDomain Convert persistence object to domain model
func (po *MoviePO) ToDomain() *catalog.Movie {
	return &catalog.Movie{
		ID:    po.ID,
		Title: po.Title,
		Price: *shared.NewMoney(po.PriceAmount, po.PriceCurrency),
	}
}
