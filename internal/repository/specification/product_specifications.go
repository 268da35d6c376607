package specification

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByProductID qualifies the id column; the product query joins brands, so a
// bare "id" would be ambiguous.
type ByProductID struct {
	ID uuid.UUID
}

func (s ByProductID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("products.id = ?", s.ID)
}

type ByProductIDs struct {
	IDs []uuid.UUID
}

func (s ByProductIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("products.id IN ?", s.IDs)
}

type ByCode struct {
	Code string
}

func (s ByCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("UPPER(code) = ?", strings.ToUpper(s.Code))
}

type ByDiameter struct {
	Mm float64
}

func (s ByDiameter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("diameter_mm = ?", s.Mm)
}

type ByStroke struct {
	Mm float64
}

func (s ByStroke) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stroke_mm = ?", s.Mm)
}

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// ByBrandName matches against the brands join the product query always
// carries; brand names in the lexicon are stored upper-case.
type ByBrandName struct {
	Name string
}

func (s ByBrandName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("UPPER(brands.name) = ?", strings.ToUpper(s.Name))
}

// HasFeature uses jsonb containment against the features array column.
type HasFeature struct {
	Tag string
}

func (s HasFeature) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("features @> ?", fmt.Sprintf(`["%s"]`, s.Tag))
}

// InStock keeps rows with at least the given stock; fractional thresholds
// cover products sold by the meter.
type InStock struct {
	Threshold float64
}

func (s InStock) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stock >= ?", s.Threshold)
}

// ProductTextLike is the lexical fallback over name and description.
type ProductTextLike struct {
	Query string
}

func (s ProductTextLike) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
}
