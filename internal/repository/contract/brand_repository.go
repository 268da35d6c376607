package contract

import (
	"context"

	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/repository/specification"
)

type BrandRepository interface {
	Create(ctx context.Context, brand *entity.Brand) error
	// FirstOrCreateByName resolves a brand id for catalog ingestion.
	FirstOrCreateByName(ctx context.Context, name string) (*entity.Brand, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Brand, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Brand, error)
}
