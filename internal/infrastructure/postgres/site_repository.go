package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
	"github.com/jcastano/retail-ops-api/internal/domain/repository"
)

var _ repository.SiteRepository = (*SiteRepo)(nil)

// SiteRepo implementación del puerto SiteRepository sobre PostgreSQL.
type SiteRepo struct {
	q Querier
}

// NewSiteRepository construye el adaptador de persistencia para sedes.
func NewSiteRepository(q Querier) *SiteRepo {
	return &SiteRepo{q: q}
}

// GetByID obtiene una sede por ID.
func (r *SiteRepo) GetByID(id string) (*entity.Site, error) {
	query := `
		SELECT id, name, address, latitude, longitude, radius_m, created_at
		FROM sites WHERE id = $1`
	var s entity.Site
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Name, &s.Address, &s.Latitude, &s.Longitude, &s.RadiusM, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return &s, nil
}

// List lista todas las sedes.
func (r *SiteRepo) List() ([]*entity.Site, error) {
	query := `
		SELECT id, name, address, latitude, longitude, radius_m, created_at
		FROM sites ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()
	var list []*entity.Site
	for rows.Next() {
		var s entity.Site
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.Latitude, &s.Longitude, &s.RadiusM, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
