package model

import (
	"time"

	"github.com/google/uuid"
)

type Brand struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Brand) TableName() string {
	return "brands"
}
