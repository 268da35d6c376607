package unitofwork

import (
	"context"

	"b2b-catalog-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	BrandRepository() contract.BrandRepository
	ProductRepository() contract.ProductRepository
	ProductEmbeddingRepository() contract.ProductEmbeddingRepository
	OrderRepository() contract.OrderRepository
}
