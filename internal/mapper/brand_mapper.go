package mapper

import (
	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/model"
)

type BrandMapper struct{}

func NewBrandMapper() *BrandMapper {
	return &BrandMapper{}
}

func (m *BrandMapper) ToEntity(b *model.Brand) *entity.Brand {
	if b == nil {
		return nil
	}
	return &entity.Brand{
		Id:        b.Id,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
	}
}

func (m *BrandMapper) ToModel(b *entity.Brand) *model.Brand {
	if b == nil {
		return nil
	}
	return &model.Brand{
		Id:        b.Id,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
	}
}

func (m *BrandMapper) ToEntities(brands []*model.Brand) []*entity.Brand {
	entities := make([]*entity.Brand, len(brands))
	for i, b := range brands {
		entities[i] = m.ToEntity(b)
	}
	return entities
}
