package mysql

import (
	"movieshop/domain/shared"
	"movieshop/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// UnitOfWorkFactory builds one UnitOfWork per request. UnitOfWork carries
// per-execution aggregate state, so instances are never shared.
type UnitOfWorkFactory struct {
	db          *gorm.DB
	retryConfig retry.Config
}

func NewUnitOfWorkFactory(db *gorm.DB, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db:          db,
		retryConfig: retryConfig,
	}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.db)
	uow.SetRetryConfig(f.retryConfig)
	return uow
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
