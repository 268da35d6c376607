package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProductEmbedding holds the semantic-search document for one product: the
// descriptive text that was embedded plus its vector.
type ProductEmbedding struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Document       string
	EmbeddingValue []float32
	ProductId      uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
