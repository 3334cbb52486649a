package repository

import "github.com/jcastano/retail-ops-api/internal/domain/entity"

// AttendanceRepository define el puerto de persistencia para registros de asistencia.
type AttendanceRepository interface {
	Create(c *entity.AttendanceCheckin) error
	ListByPersonAndDate(personID, date string) ([]*entity.AttendanceCheckin, error)
	ListBySiteAndDate(siteID, date string) ([]*entity.AttendanceCheckin, error)
}
