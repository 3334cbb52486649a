// Package sales implementa la captura de ventas: creación y consulta de pedidos.
// Las transiciones de estado y la asignación viven en el paquete dispatch.
package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/domain"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
	"github.com/jcastano/retail-ops-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Geocoder puerto del enriquecimiento de dirección -> coordenadas.
// Es no crítico: un fallo o timeout devuelve (0,0,false) y el pedido se guarda igual.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, ok bool)
}

// SalesUseCase casos de uso de captura de ventas.
type SalesUseCase struct {
	orderRepo repository.OrderRepository
	geocoder  Geocoder
}

// NewSalesUseCase construye el caso de uso. geocoder puede ser nil (sin enriquecimiento).
func NewSalesUseCase(orderRepo repository.OrderRepository, geocoder Geocoder) *SalesUseCase {
	return &SalesUseCase{orderRepo: orderRepo, geocoder: geocoder}
}

// CreateOrder registra una venta en estado pending.
func (uc *SalesUseCase) CreateOrder(ctx context.Context, sellerID string, in dto.CreateOrderRequest) (*entity.Order, error) {
	if sellerID == "" || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	lat, lng := in.Latitude, in.Longitude
	if lat == 0 && lng == 0 && in.Address != "" && uc.geocoder != nil {
		if glat, glng, ok := uc.geocoder.Geocode(ctx, in.Address); ok {
			lat, lng = glat, glng
		}
	}
	now := time.Now()
	order := &entity.Order{
		ID:              uuid.New().String(),
		SellerID:        sellerID,
		Amount:          in.Amount,
		Status:          entity.OrderPending,
		Address:         in.Address,
		Latitude:        lat,
		Longitude:       lng,
		Notes:           in.Notes,
		StatusChangedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder devuelve un pedido por id.
func (uc *SalesUseCase) GetOrder(id string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListBySeller lista los pedidos de un vendedor.
func (uc *SalesUseCase) ListBySeller(sellerID string, page dto.PageRequest) ([]*entity.Order, error) {
	page.DefaultPage()
	return uc.orderRepo.ListBySeller(sellerID, page.Limit, page.Offset)
}

// ToOrderResponse mapea la entidad a su representación pública.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	return &dto.OrderResponse{
		ID:                 o.ID,
		SellerID:           o.SellerID,
		Amount:             o.Amount,
		Status:             string(o.Status),
		DeliveryAssignedTo: o.DeliveryAssignedTo,
		Address:            o.Address,
		Latitude:           o.Latitude,
		Longitude:          o.Longitude,
		Notes:              o.Notes,
		StatusChangedAt:    o.StatusChangedAt,
		StatusReason:       o.StatusReason,
		CreatedAt:          o.CreatedAt,
	}
}
