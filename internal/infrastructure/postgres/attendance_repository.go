package postgres

import (
	"context"
	"fmt"

	"github.com/jcastano/retail-ops-api/internal/domain"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
	"github.com/jcastano/retail-ops-api/internal/domain/repository"
)

var _ repository.AttendanceRepository = (*AttendanceRepo)(nil)

const attendanceColumns = `id, person_id, site_id, method, latitude, longitude, distance_m, checked_at`

// AttendanceRepo implementación del puerto AttendanceRepository sobre PostgreSQL.
type AttendanceRepo struct {
	q Querier
}

// NewAttendanceRepository construye el adaptador de persistencia para asistencia.
func NewAttendanceRepository(q Querier) *AttendanceRepo {
	return &AttendanceRepo{q: q}
}

// Create persiste un registro de asistencia.
func (r *AttendanceRepo) Create(c *entity.AttendanceCheckin) error {
	query := `
		INSERT INTO attendance_checkins (` + attendanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.PersonID, c.SiteID, string(c.Method),
		c.Latitude, c.Longitude, c.DistanceM, c.CheckedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert checkin: %w", err)
	}
	return nil
}

// ListByPersonAndDate asistencia de una persona en un día.
func (r *AttendanceRepo) ListByPersonAndDate(personID, date string) ([]*entity.AttendanceCheckin, error) {
	query := `
		SELECT ` + attendanceColumns + ` FROM attendance_checkins
		WHERE person_id = $1 AND checked_at::date = $2::date ORDER BY checked_at`
	return r.list(query, personID, date)
}

// ListBySiteAndDate asistencia de una sede en un día.
func (r *AttendanceRepo) ListBySiteAndDate(siteID, date string) ([]*entity.AttendanceCheckin, error) {
	query := `
		SELECT ` + attendanceColumns + ` FROM attendance_checkins
		WHERE site_id = $1 AND checked_at::date = $2::date ORDER BY checked_at`
	return r.list(query, siteID, date)
}

func (r *AttendanceRepo) list(query string, args ...any) ([]*entity.AttendanceCheckin, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list checkins: %w", err)
	}
	defer rows.Close()
	var list []*entity.AttendanceCheckin
	for rows.Next() {
		var c entity.AttendanceCheckin
		var method string
		if err := rows.Scan(
			&c.ID, &c.PersonID, &c.SiteID, &method,
			&c.Latitude, &c.Longitude, &c.DistanceM, &c.CheckedAt,
		); err != nil {
			return nil, fmt.Errorf("scan checkin: %w", err)
		}
		c.Method = entity.CheckinMethod(method)
		list = append(list, &c)
	}
	return list, rows.Err()
}
