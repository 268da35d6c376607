package entity

import (
	"time"

	"github.com/google/uuid"
)

type Brand struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	CreatedAt time.Time
}
