package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog row as the engine sees it: dimensions in
// millimeters, canonical feature tags, stock as a fractional quantity so
// partial units (meters of hose) work the same as discrete parts.
type Product struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code        string
	Name        string
	Description string
	BrandId     uuid.UUID `gorm:"type:uuid;index"`
	BrandName   string
	Category    string
	DiameterMm  *float64
	StrokeMm    *float64
	Features    []string
	Stock       float64
	UnitPrice   float64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

func (p *Product) HasFeature(tag string) bool {
	for _, f := range p.Features {
		if f == tag {
			return true
		}
	}
	return false
}
