package contract

import (
	"context"

	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/repository/specification"
)

type OrderRepository interface {
	// Create persists the order together with its items.
	Create(ctx context.Context, order *entity.Order) error
	// CreateConversationLink snapshots the dialog context next to the order.
	CreateConversationLink(ctx context.Context, link *entity.ConversationOrder) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
