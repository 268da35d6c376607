package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code        string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name        string         `gorm:"type:varchar(255);not null"`
	Description string         `gorm:"type:text"`
	BrandId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Category    string         `gorm:"type:varchar(64);index"`
	DiameterMm  *float64       `gorm:"index"`
	StrokeMm    *float64       `gorm:"index"`
	Features    datatypes.JSON `gorm:"type:jsonb"`
	Stock       float64        `gorm:"not null;default:0"`
	UnitPrice   float64        `gorm:"not null;default:0"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Product) TableName() string {
	return "products"
}
