package contract

import (
	"context"

	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredProductEmbedding wraps ProductEmbedding with its similarity score
type ScoredProductEmbedding struct {
	Embedding  *entity.ProductEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type ProductEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.ProductEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.ProductEmbedding) error
	Update(ctx context.Context, embedding *entity.ProductEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByProductId(ctx context.Context, productId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProductEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns embeddings over the similarity threshold
	// whose product is still sellable (stock at or above stockThreshold).
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold, stockThreshold float64) ([]*ScoredProductEmbedding, error)
}
