package entity

import "time"

// CheckinMethod medio por el que se registró la asistencia.
type CheckinMethod string

const (
	CheckinGeofence CheckinMethod = "geofence"
	CheckinQR       CheckinMethod = "qr"
)

// AttendanceCheckin registro de asistencia de una persona en una sede.
type AttendanceCheckin struct {
	ID        string
	PersonID  string
	SiteID    string
	Method    CheckinMethod
	Latitude  float64
	Longitude float64
	DistanceM float64 // distancia a la sede al momento del registro
	CheckedAt time.Time
}
