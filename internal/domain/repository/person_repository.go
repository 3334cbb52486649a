package repository

import "github.com/jcastano/retail-ops-api/internal/domain/entity"

// PersonRepository define el puerto de persistencia para Person (DIP).
// Las personas nunca se borran: Deactivate apaga el flag active.
type PersonRepository interface {
	Create(p *entity.Person) error
	GetByID(id string) (*entity.Person, error)
	GetBySubjectID(subjectID string) (*entity.Person, error)
	GetByEmail(email string) (*entity.Person, error)
	Update(p *entity.Person) error
	Deactivate(id string) error
	List(limit, offset int) ([]*entity.Person, error)
	// AdjustLoad suma delta a current_load con piso en cero (GREATEST en SQL).
	// Solo el caso de uso de despacho debe invocarlo.
	AdjustLoad(workerID string, delta int) error
}

// SiteRepository define el puerto de persistencia para sedes.
type SiteRepository interface {
	GetByID(id string) (*entity.Site, error)
	List() ([]*entity.Site, error)
}
