package dto

import (
	"time"

	"github.com/google/uuid"
)

// UpsertProductRequest ingests one catalog row. Code is the natural key:
// re-ingesting the same code updates the existing product in place.
type UpsertProductRequest struct {
	Code        string   `json:"code" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category" validate:"required"`
	DiameterMm  *float64 `json:"diameter_mm"`
	StrokeMm    *float64 `json:"stroke_mm"`
	Features    []string `json:"features"`
	Stock       float64  `json:"stock" validate:"gte=0"`
	UnitPrice   float64  `json:"unit_price" validate:"gte=0"`
}

type UpsertProductResponse struct {
	Id   uuid.UUID `json:"id"`
	Code string    `json:"code"`
}

type IngestCatalogRequest struct {
	Products []UpsertProductRequest `json:"products" validate:"required,min=1,dive"`
}

type IngestCatalogResponse struct {
	Ingested int `json:"ingested"`
}

type ShowProductResponse struct {
	Id          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Brand       string     `json:"brand,omitempty"`
	Category    string     `json:"category"`
	DiameterMm  *float64   `json:"diameter_mm,omitempty"`
	StrokeMm    *float64   `json:"stroke_mm,omitempty"`
	Features    []string   `json:"features,omitempty"`
	Stock       float64    `json:"stock"`
	UnitPrice   float64    `json:"unit_price"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// AvailableOptionsResponse lists the distinct values still in stock, offered
// to the user when a search comes back empty.
type AvailableOptionsResponse struct {
	Diameters []float64 `json:"diameters,omitempty"`
	Strokes   []float64 `json:"strokes,omitempty"`
	Brands    []string  `json:"brands,omitempty"`
}

// PublishEmbedProductMessage is the queue payload asking the consumer to
// (re)build the semantic document for one product.
type PublishEmbedProductMessage struct {
	ProductId uuid.UUID `json:"product_id"`
}
