package implementation

import (
	"context"
	"errors"
	"fmt"

	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/mapper"
	"b2b-catalog-be/internal/model"
	"b2b-catalog-be/internal/repository/contract"
	"b2b-catalog-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProductMapper
}

func NewProductRepository(db *gorm.DB) contract.ProductRepository {
	return &ProductRepositoryImpl{
		db:     db,
		mapper: mapper.NewProductMapper(),
	}
}

func (r *ProductRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// productRow carries the joined brand name alongside the product columns.
type productRow struct {
	model.Product
	BrandName string
}

func (r *ProductRepositoryImpl) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("products").
		Select("products.*, brands.name as brand_name").
		Joins("LEFT JOIN brands ON brands.id = products.brand_id").
		Where("products.deleted_at IS NULL")
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ToModel(product)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	brandName := product.BrandName
	*product = *r.mapper.ToEntity(m)
	product.BrandName = brandName
	return nil
}

func (r *ProductRepositoryImpl) Update(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ToModel(product)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	brandName := product.BrandName
	*product = *r.mapper.ToEntity(m)
	product.BrandName = brandName
	return nil
}

// UpsertByCode inserts or refreshes a catalog row keyed by product code;
// ingestion runs are idempotent this way.
func (r *ProductRepositoryImpl) UpsertByCode(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ToModel(product)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "brand_id", "category",
			"diameter_mm", "stroke_mm", "features", "stock", "unit_price", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	brandName := product.BrandName
	*product = *r.mapper.ToEntity(m)
	product.BrandName = brandName
	return nil
}

func (r *ProductRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *ProductRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	var row productRow
	query := r.applySpecifications(r.baseQuery(ctx), specs...)
	if err := query.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	e := r.mapper.ToEntity(&row.Product)
	e.BrandName = row.BrandName
	return e, nil
}

func (r *ProductRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	var rows []productRow
	query := r.applySpecifications(r.baseQuery(ctx), specs...)
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Product, len(rows))
	for i := range rows {
		e := r.mapper.ToEntity(&rows[i].Product)
		e.BrandName = rows[i].BrandName
		entities[i] = e
	}
	return entities, nil
}

func (r *ProductRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Product{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProductRepositoryImpl) DecrementStock(ctx context.Context, id uuid.UUID, qty float64) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("insufficient stock for product %s", id)
	}
	return nil
}

func (r *ProductRepositoryImpl) DistinctNumeric(ctx context.Context, column string, specs ...specification.Specification) ([]float64, error) {
	var values []float64
	query := r.applySpecifications(
		r.db.WithContext(ctx).Model(&model.Product{}).Where(fmt.Sprintf("%s IS NOT NULL", column)),
		specs...,
	)
	if err := query.Distinct().Order(column).Pluck(column, &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

func (r *ProductRepositoryImpl) DistinctStrings(ctx context.Context, column string, specs ...specification.Specification) ([]string, error) {
	var values []string
	query := r.applySpecifications(
		r.db.WithContext(ctx).Model(&model.Product{}).Where(fmt.Sprintf("%s IS NOT NULL AND %s <> ''", column, column)),
		specs...,
	)
	if err := query.Distinct().Order(column).Pluck(column, &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}
