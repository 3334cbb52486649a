package entity

import "time"

// Person representa un empleado u operador del sistema (pertenece a una sede).
// Nunca se borra físicamente: desactivar apaga el flag Active.
type Person struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt, nunca en claro después de persistir
	RawRole      string // etiqueta libre tal como está en la DB ("VENDEDORA", "Gerencia", ...)
	Active       bool
	SiteID       string // sede/sucursal asignada
	SubjectID    string // id de sujeto vinculado al token de sesión (suele coincidir con ID)
	CurrentLoad  int    // pedidos activos asignados (solo para personal de logística)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Site representa una sede/sucursal con su perímetro de geocerca para asistencia.
type Site struct {
	ID        string
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	RadiusM   float64 // radio de la geocerca en metros
	CreatedAt time.Time
}
