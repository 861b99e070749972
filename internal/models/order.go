package models

import "time"

// The three status axes of an order are tracked independently; each has its
// own fixed enumeration and its own update endpoint. No cross-axis
// consistency is enforced.

// OrderStatus is the overall fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus is the payment state of an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

// DeliveryStatus is the delivery state of an order. Note the single-l
// "canceled" spelling; it differs from OrderStatusCancelled and is part of
// the wire contract.
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusShipped   DeliveryStatus = "shipped"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusCanceled  DeliveryStatus = "canceled"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusPending, DeliveryStatusShipped, DeliveryStatusDelivered, DeliveryStatusCanceled:
		return true
	}
	return false
}

// Order is an order header. It is created atomically with its items; after
// creation only the three status columns change.
type Order struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	UserID              uint           `gorm:"not null;index" json:"user_id"`
	TotalAmount         float64        `gorm:"not null" json:"total_amount"`
	DeliveryAddress     string         `gorm:"not null" json:"delivery_address"`
	SpecialInstructions string         `json:"special_instructions,omitempty"`
	Status              OrderStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentStatus       PaymentStatus  `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	DeliveryStatus      DeliveryStatus `gorm:"type:varchar(20);default:'pending'" json:"delivery_status"`
	Items               []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CustomerEmail       string         `gorm:"->;-:migration" json:"customer_email,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// OrderItem is one line of an order. Price is the unit price captured at
// order time; later catalog price changes do not affect it. Items are never
// modified after creation.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	PizzaID   uint      `gorm:"not null" json:"pizza_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderItemInput is one requested line item.
type OrderItemInput struct {
	PizzaID  uint    `json:"pizza_id" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,gt=0"`
	Price    float64 `json:"price" binding:"required,gt=0"`
}

// CreateOrderRequest is the order-creation payload.
type CreateOrderRequest struct {
	Items               []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress     string           `json:"delivery_address" binding:"required"`
	SpecialInstructions string           `json:"special_instructions"`
}

// Pagination is the pagination block of list responses.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}
