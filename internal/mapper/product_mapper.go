package mapper

import (
	"encoding/json"
	"time"

	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductMapper struct{}

func NewProductMapper() *ProductMapper {
	return &ProductMapper{}
}

func (m *ProductMapper) ToEntity(p *model.Product) *entity.Product {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	var features []string
	if len(p.Features) > 0 {
		// Malformed rows degrade to no tags rather than failing the read.
		_ = json.Unmarshal(p.Features, &features)
	}

	return &entity.Product{
		Id:          p.Id,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		BrandId:     p.BrandId,
		Category:    p.Category,
		DiameterMm:  p.DiameterMm,
		StrokeMm:    p.StrokeMm,
		Features:    features,
		Stock:       p.Stock,
		UnitPrice:   p.UnitPrice,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   p.DeletedAt.Valid,
	}
}

func (m *ProductMapper) ToModel(p *entity.Product) *model.Product {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	features := p.Features
	if features == nil {
		features = []string{}
	}
	raw, _ := json.Marshal(features)

	return &model.Product{
		Id:          p.Id,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		BrandId:     p.BrandId,
		Category:    p.Category,
		DiameterMm:  p.DiameterMm,
		StrokeMm:    p.StrokeMm,
		Features:    datatypes.JSON(raw),
		Stock:       p.Stock,
		UnitPrice:   p.UnitPrice,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *ProductMapper) ToEntities(products []*model.Product) []*entity.Product {
	entities := make([]*entity.Product, len(products))
	for i, p := range products {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *ProductMapper) ToModels(products []*entity.Product) []*model.Product {
	models := make([]*model.Product, len(products))
	for i, p := range products {
		models[i] = m.ToModel(p)
	}
	return models
}
