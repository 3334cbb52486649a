package domain

import "errors"

// Errores de autenticación (terminales para la petición; el cliente debe re-autenticarse).
var (
	ErrInvalidToken   = errors.New("token inválido")
	ErrExpiredToken   = errors.New("token expirado")
	ErrPersonNotFound = errors.New("persona no encontrada")
	ErrPersonDisabled = errors.New("persona desactivada")
)

// Errores de autorización y de dominio.
var (
	ErrUnauthorized      = errors.New("no autorizado")
	ErrOrderNotFound     = errors.New("pedido no encontrado")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrWorkerInactive    = errors.New("el repartidor no está activo o no es de logística")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrOutOfFence        = errors.New("fuera del perímetro de la sede")
	ErrInvalidQR         = errors.New("código QR inválido o vencido")
)

// ErrStoreUnavailable indica un fallo de infraestructura al consultar la base de datos.
// Debe distinguirse de un "no encontrado / desactivado" definitivo: el llamador puede
// reintentar (HTTP 503) y nunca debe tratarse como una denegación de acceso.
var ErrStoreUnavailable = errors.New("almacén de datos no disponible")
