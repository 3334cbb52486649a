package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest captura de venta.
type CreateOrderRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Address   string          `json:"address"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Notes     string          `json:"notes"`
}

// OrderResponse representación pública de un pedido.
type OrderResponse struct {
	ID                 string          `json:"id"`
	SellerID           string          `json:"seller_id"`
	Amount             decimal.Decimal `json:"amount"`
	Status             string          `json:"status"`
	DeliveryAssignedTo string          `json:"delivery_assigned_to,omitempty"`
	Address            string          `json:"address"`
	Latitude           float64         `json:"latitude"`
	Longitude          float64         `json:"longitude"`
	Notes              string          `json:"notes,omitempty"`
	StatusChangedAt    time.Time       `json:"status_changed_at"`
	StatusReason       string          `json:"status_reason,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}
