package models

import (
	"sort"

	"github.com/shopfacade/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order domain entity.
type OrderModel struct {
	BaseModel
	UserID string           `gorm:"type:varchar(64);not null;index"`
	Total  decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Items  []OrderItemModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel stores one product reference of an order. Position keeps
// the requested order, so a product may appear more than once.
type OrderItemModel struct {
	OrderID   string `gorm:"type:varchar(64);primaryKey"`
	Position  int    `gorm:"primaryKey;autoIncrement:false"`
	ProductID string `gorm:"type:varchar(64);not null;index"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *trade.Order {
	items := make([]OrderItemModel, len(m.Items))
	copy(items, m.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	productIDs := make([]string, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	return &trade.Order{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		ProductIDs: productIDs,
		Total:      m.Total,
	}
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.UserID = o.UserID
	m.Total = o.Total
	m.Items = make([]OrderItemModel, o.ItemCount())
	for i, productID := range o.ProductIDs {
		m.Items[i] = OrderItemModel{
			OrderID:   o.ID,
			Position:  i,
			ProductID: productID,
		}
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
