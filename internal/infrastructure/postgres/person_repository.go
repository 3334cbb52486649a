package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jcastano/retail-ops-api/internal/domain"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
	"github.com/jcastano/retail-ops-api/internal/domain/repository"
)

var _ repository.PersonRepository = (*PersonRepo)(nil)

const personColumns = `id, name, email, password_hash, raw_role, active, site_id, subject_id, current_load, created_at, updated_at`

// PersonRepo implementación del puerto PersonRepository sobre PostgreSQL (usable con pool o tx).
type PersonRepo struct {
	q Querier
}

// NewPersonRepository construye el adaptador de persistencia para personas. Pasar pool o tx (Querier).
func NewPersonRepository(q Querier) *PersonRepo {
	return &PersonRepo{q: q}
}

// Create persiste una nueva persona.
func (r *PersonRepo) Create(p *entity.Person) error {
	query := `
		INSERT INTO people (` + personColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Name, p.Email, p.PasswordHash, p.RawRole, p.Active,
		p.SiteID, p.SubjectID, p.CurrentLoad, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

// GetByID obtiene una persona por ID.
func (r *PersonRepo) GetByID(id string) (*entity.Person, error) {
	return r.findOne(`SELECT `+personColumns+` FROM people WHERE id = $1`, id)
}

// GetBySubjectID obtiene una persona por el subject id de su token de sesión.
func (r *PersonRepo) GetBySubjectID(subjectID string) (*entity.Person, error) {
	return r.findOne(`SELECT `+personColumns+` FROM people WHERE subject_id = $1`, subjectID)
}

// GetByEmail obtiene una persona por email.
func (r *PersonRepo) GetByEmail(email string) (*entity.Person, error) {
	return r.findOne(`SELECT `+personColumns+` FROM people WHERE email = $1 LIMIT 1`, email)
}

func (r *PersonRepo) findOne(query string, arg any) (*entity.Person, error) {
	var p entity.Person
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.RawRole, &p.Active,
		&p.SiteID, &p.SubjectID, &p.CurrentLoad, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	return &p, nil
}

// Update actualiza una persona (no toca current_load: eso es de AdjustLoad).
func (r *PersonRepo) Update(p *entity.Person) error {
	query := `
		UPDATE people SET name = $2, email = $3, password_hash = $4, raw_role = $5,
			active = $6, site_id = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Name, p.Email, p.PasswordHash, p.RawRole, p.Active, p.SiteID, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	return nil
}

// Deactivate baja lógica: nunca hay DELETE sobre people.
func (r *PersonRepo) Deactivate(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE people SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate person: %w", err)
	}
	return nil
}

// List lista personas con paginación.
func (r *PersonRepo) List(limit, offset int) ([]*entity.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()
	var list []*entity.Person
	for rows.Next() {
		var p entity.Person
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.RawRole, &p.Active,
			&p.SiteID, &p.SubjectID, &p.CurrentLoad, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// AdjustLoad suma delta a current_load con piso en cero (GREATEST): un decremento
// de más nunca deja la carga negativa.
func (r *PersonRepo) AdjustLoad(workerID string, delta int) error {
	query := `UPDATE people SET current_load = GREATEST(current_load + $2, 0), updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, workerID, delta)
	if err != nil {
		return fmt.Errorf("adjust load: %w", err)
	}
	return nil
}
