package dto

import "time"

// CheckinRequest registro de asistencia: por geocerca (lat/lng) o por QR (token).
type CheckinRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	QRToken   string  `json:"qr_token,omitempty"`
}

// CheckinResponse resultado del registro.
type CheckinResponse struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"site_id"`
	Method    string    `json:"method"`
	DistanceM float64   `json:"distance_m"`
	CheckedAt time.Time `json:"checked_at"`
}

// SiteQRResponse token QR vigente para una sede.
type SiteQRResponse struct {
	SiteID  string `json:"site_id"`
	Date    string `json:"date"`
	QRToken string `json:"qr_token"`
}
