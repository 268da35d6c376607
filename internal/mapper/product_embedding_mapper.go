package mapper

import (
	"time"

	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ProductEmbeddingMapper struct{}

func NewProductEmbeddingMapper() *ProductEmbeddingMapper {
	return &ProductEmbeddingMapper{}
}

func (m *ProductEmbeddingMapper) ToEntity(e *model.ProductEmbedding) *entity.ProductEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.ProductEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		ProductId:      e.ProductId,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *ProductEmbeddingMapper) ToModel(e *entity.ProductEmbedding) *model.ProductEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.ProductEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		ProductId:      e.ProductId,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}
