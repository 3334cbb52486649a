package dto

import "time"

// LoginRequest credenciales de inicio de sesión.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PersonResponse representación pública de una persona (sin hash).
type PersonResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`      // rol canónico normalizado
	RawRole   string    `json:"raw_role"`  // etiqueta original de la DB
	Active    bool      `json:"active"`
	SiteID    string    `json:"site_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse token de sesión + persona.
type LoginResponse struct {
	Token  string         `json:"token"`
	Person PersonResponse `json:"person"`
}

// RefreshResponse nuevo token emitido para una identidad vigente.
type RefreshResponse struct {
	Token string `json:"token"`
}

// ChangePasswordRequest cambio de contraseña (exige la contraseña actual real).
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// CreatePersonRequest alta de una persona (aprovisionamiento admin).
type CreatePersonRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RawRole  string `json:"raw_role"`
	SiteID   string `json:"site_id"`
}

// UpdatePersonRequest edición de una persona.
type UpdatePersonRequest struct {
	Name    string `json:"name"`
	RawRole string `json:"raw_role"`
	SiteID  string `json:"site_id"`
}
