package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusCancelled = "CANCELLED"
)

type Order struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber string
	SessionId   string
	CustomerId  string
	Status      string
	TotalAmount float64
	Items       []*OrderItem
	CreatedAt   time.Time
}

type OrderItem struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderId     uuid.UUID `gorm:"type:uuid;index"`
	ProductId   uuid.UUID `gorm:"type:uuid;index"`
	ProductCode string
	ProductName string
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
}

// ConversationOrder links a placed order back to the dialog that produced
// it, with a snapshot of the slots and candidates at confirmation time.
type ConversationOrder struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderId   uuid.UUID `gorm:"type:uuid;index"`
	SessionId string
	Context   map[string]interface{}
	CreatedAt time.Time
}
