package mapper

import (
	"encoding/json"

	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/model"

	"gorm.io/datatypes"
)

type OrderMapper struct{}

func NewOrderMapper() *OrderMapper {
	return &OrderMapper{}
}

func (m *OrderMapper) ToEntity(o *model.Order) *entity.Order {
	if o == nil {
		return nil
	}

	items := make([]*entity.OrderItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = m.ItemToEntity(it)
	}

	return &entity.Order{
		Id:          o.Id,
		OrderNumber: o.OrderNumber,
		SessionId:   o.SessionId,
		CustomerId:  o.CustomerId,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		Items:       items,
		CreatedAt:   o.CreatedAt,
	}
}

func (m *OrderMapper) ToModel(o *entity.Order) *model.Order {
	if o == nil {
		return nil
	}

	items := make([]*model.OrderItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = m.ItemToModel(it)
	}

	return &model.Order{
		Id:          o.Id,
		OrderNumber: o.OrderNumber,
		SessionId:   o.SessionId,
		CustomerId:  o.CustomerId,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		Items:       items,
		CreatedAt:   o.CreatedAt,
	}
}

func (m *OrderMapper) ItemToEntity(it *model.OrderItem) *entity.OrderItem {
	if it == nil {
		return nil
	}
	return &entity.OrderItem{
		Id:          it.Id,
		OrderId:     it.OrderId,
		ProductId:   it.ProductId,
		ProductCode: it.ProductCode,
		ProductName: it.ProductName,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		TotalPrice:  it.TotalPrice,
	}
}

func (m *OrderMapper) ItemToModel(it *entity.OrderItem) *model.OrderItem {
	if it == nil {
		return nil
	}
	return &model.OrderItem{
		Id:          it.Id,
		OrderId:     it.OrderId,
		ProductId:   it.ProductId,
		ProductCode: it.ProductCode,
		ProductName: it.ProductName,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		TotalPrice:  it.TotalPrice,
	}
}

func (m *OrderMapper) ConversationToEntity(c *model.ConversationOrder) *entity.ConversationOrder {
	if c == nil {
		return nil
	}

	var context map[string]interface{}
	if len(c.Context) > 0 {
		_ = json.Unmarshal(c.Context, &context)
	}

	return &entity.ConversationOrder{
		Id:        c.Id,
		OrderId:   c.OrderId,
		SessionId: c.SessionId,
		Context:   context,
		CreatedAt: c.CreatedAt,
	}
}

func (m *OrderMapper) ConversationToModel(c *entity.ConversationOrder) *model.ConversationOrder {
	if c == nil {
		return nil
	}

	raw, _ := json.Marshal(c.Context)

	return &model.ConversationOrder{
		Id:        c.Id,
		OrderId:   c.OrderId,
		SessionId: c.SessionId,
		Context:   datatypes.JSON(raw),
		CreatedAt: c.CreatedAt,
	}
}

func (m *OrderMapper) ToEntities(orders []*model.Order) []*entity.Order {
	entities := make([]*entity.Order, len(orders))
	for i, o := range orders {
		entities[i] = m.ToEntity(o)
	}
	return entities
}
