package contract

import (
	"context"

	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	UpsertByCode(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// DecrementStock subtracts qty atomically and fails if the row would go
	// negative.
	DecrementStock(ctx context.Context, id uuid.UUID, qty float64) error
	// DistinctNumeric lists the distinct non-null values of a numeric column
	// under the given filters; used to offer available options when a search
	// comes back empty.
	DistinctNumeric(ctx context.Context, column string, specs ...specification.Specification) ([]float64, error)
	DistinctStrings(ctx context.Context, column string, specs ...specification.Specification) ([]string, error)
}
