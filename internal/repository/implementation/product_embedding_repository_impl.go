package implementation

import (
	"context"
	"errors"

	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/mapper"
	"b2b-catalog-be/internal/model"
	"b2b-catalog-be/internal/repository/contract"
	"b2b-catalog-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ProductEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProductEmbeddingMapper
}

func NewProductEmbeddingRepository(db *gorm.DB) contract.ProductEmbeddingRepository {
	return &ProductEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewProductEmbeddingMapper(),
	}
}

func (r *ProductEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProductEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.ProductEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProductEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.ProductEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.ProductEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ProductEmbeddingRepositoryImpl) Update(ctx context.Context, embedding *entity.ProductEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProductEmbeddingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ProductEmbedding{}, id).Error
}

func (r *ProductEmbeddingRepositoryImpl) DeleteByProductId(ctx context.Context, productId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productId).Delete(&model.ProductEmbedding{}).Error
}

func (r *ProductEmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProductEmbedding, error) {
	var m model.ProductEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProductEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ProductEmbedding{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore runs cosine similarity over product embeddings.
// pgvector's <=> operator is cosine distance, so similarity is 1 - distance.
// Products that are soft-deleted or effectively out of stock never surface.
func (r *ProductEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold, stockThreshold float64) ([]*contract.ScoredProductEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.ProductEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("product_embeddings").
		Select("product_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN products ON products.id = product_embeddings.product_id").
		Where("product_embeddings.deleted_at IS NULL").
		Where("products.deleted_at IS NULL").
		Where("products.stock >= ?", stockThreshold).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredProductEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredProductEmbedding{
			Embedding:  r.mapper.ToEntity(&res.ProductEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
