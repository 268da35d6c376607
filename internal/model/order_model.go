package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Order struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	SessionId   string    `gorm:"type:varchar(64);index"`
	CustomerId  string    `gorm:"type:varchar(64);index"`
	Status      string    `gorm:"type:varchar(16);not null"`
	TotalAmount float64   `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Items []*OrderItem `gorm:"foreignKey:OrderId"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderId     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductId   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductCode string    `gorm:"type:varchar(64);not null"`
	ProductName string    `gorm:"type:varchar(255);not null"`
	Quantity    int       `gorm:"not null"`
	UnitPrice   float64   `gorm:"not null"`
	TotalPrice  float64   `gorm:"not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

type ConversationOrder struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderId   uuid.UUID      `gorm:"type:uuid;not null;index"`
	SessionId string         `gorm:"type:varchar(64);index"`
	Context   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (ConversationOrder) TableName() string {
	return "conversation_orders"
}
