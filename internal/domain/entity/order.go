package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del ciclo de vida de un pedido de venta.
type OrderStatus string

// Estados del pedido. Confirmed, Cancelled, Returned y Failed son terminales:
// ninguna transición sale de ellos.
const (
	OrderPending        OrderStatus = "pending"
	OrderAssigned       OrderStatus = "assigned"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderCancelled      OrderStatus = "cancelled"
	OrderReturned       OrderStatus = "returned"
	OrderFailed         OrderStatus = "failed"
)

// IsTerminal indica si el estado no admite más transiciones.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderConfirmed, OrderCancelled, OrderReturned, OrderFailed:
		return true
	}
	return false
}

// Order representa una transacción de venta. Nunca se borra físicamente:
// cancelación y devolución son estados, no eliminaciones.
type Order struct {
	ID                 string
	SellerID           string
	Amount             decimal.Decimal
	Status             OrderStatus
	DeliveryAssignedTo string // id del repartidor; vacío si no hay asignación
	Address            string
	Latitude           float64
	Longitude          float64
	Notes              string
	StatusChangedAt    time.Time
	StatusChangedBy    string // actor de la última transición
	StatusReason       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
