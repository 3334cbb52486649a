// Package people implementa el aprovisionamiento de personal. Las personas nunca
// se borran físicamente: darlas de baja es desactivarlas.
package people

import (
	"time"

	"github.com/google/uuid"
	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/domain"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
	"github.com/jcastano/retail-ops-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// PeopleUseCase altas, ediciones y bajas (lógicas) de personal.
type PeopleUseCase struct {
	personRepo repository.PersonRepository
}

// NewPeopleUseCase construye el caso de uso.
func NewPeopleUseCase(personRepo repository.PersonRepository) *PeopleUseCase {
	return &PeopleUseCase{personRepo: personRepo}
}

// Create da de alta una persona. La etiqueta de rol se guarda tal cual llega
// (la normalización ocurre al autorizar, no al persistir).
func (uc *PeopleUseCase) Create(in dto.CreatePersonRequest) (*entity.Person, error) {
	if in.Email == "" || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.personRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	id := uuid.New().String()
	p := &entity.Person{
		ID:           id,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		RawRole:      in.RawRole,
		Active:       true,
		SiteID:       in.SiteID,
		SubjectID:    id,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.personRepo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update edita nombre, etiqueta de rol y sede.
func (uc *PeopleUseCase) Update(id string, in dto.UpdatePersonRequest) (*entity.Person, error) {
	p, err := uc.personRepo.GetByID(id)
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	if p == nil {
		return nil, domain.ErrPersonNotFound
	}
	if in.Name != "" {
		p.Name = in.Name
	}
	if in.RawRole != "" {
		p.RawRole = in.RawRole
	}
	if in.SiteID != "" {
		p.SiteID = in.SiteID
	}
	p.UpdatedAt = time.Now()
	if err := uc.personRepo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Deactivate baja lógica: la persona queda rechazada por el autorizador aunque
// su token siga sin expirar.
func (uc *PeopleUseCase) Deactivate(id string) error {
	p, err := uc.personRepo.GetByID(id)
	if err != nil {
		return domain.ErrStoreUnavailable
	}
	if p == nil {
		return domain.ErrPersonNotFound
	}
	return uc.personRepo.Deactivate(id)
}

// List lista personal con paginación.
func (uc *PeopleUseCase) List(page dto.PageRequest) ([]*entity.Person, error) {
	page.DefaultPage()
	return uc.personRepo.List(page.Limit, page.Offset)
}
