package implementation

import (
	"context"
	"errors"
	"strings"

	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/mapper"
	"b2b-catalog-be/internal/model"
	"b2b-catalog-be/internal/repository/contract"
	"b2b-catalog-be/internal/repository/specification"

	"gorm.io/gorm"
)

type BrandRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BrandMapper
}

func NewBrandRepository(db *gorm.DB) contract.BrandRepository {
	return &BrandRepositoryImpl{
		db:     db,
		mapper: mapper.NewBrandMapper(),
	}
}

func (r *BrandRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BrandRepositoryImpl) Create(ctx context.Context, brand *entity.Brand) error {
	m := r.mapper.ToModel(brand)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*brand = *r.mapper.ToEntity(m)
	return nil
}

func (r *BrandRepositoryImpl) FirstOrCreateByName(ctx context.Context, name string) (*entity.Brand, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	var m model.Brand
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Attrs(model.Brand{Name: name}).
		FirstOrCreate(&m).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BrandRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Brand, error) {
	var m model.Brand
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BrandRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Brand, error) {
	var models []*model.Brand
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
