// Package auth implementa la autenticación de sesión y la resolución de identidad:
// valida el token firmado, carga la Persona desde el almacén y deriva su rol
// canónico. La autorización por capacidades vive en el paquete authz.
package auth

import (
	"errors"
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jcastano/retail-ops-api/internal/domain"
	"github.com/jcastano/retail-ops-api/internal/domain/repository"
	"github.com/jcastano/retail-ops-api/internal/domain/role"
	pkgjwt "github.com/jcastano/retail-ops-api/pkg/jwt"
)

// Identity resultado de autenticar un token: sujeto y rol reclamado.
// ClaimedRole es solo informativo; el rol efectivo sale de ResolveIdentity.
type Identity struct {
	SubjectID   string
	ClaimedRole string
}

// PersonContext identidad resuelta contra el almacén de personas.
type PersonContext struct {
	PersonID string
	Name     string
	Role     role.Role
	SiteID   string
}

// JWTConfig configuración para emisión y validación de tokens de sesión.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Authorizer responde "¿quién es este?" para cada petición. Es de solo lectura
// sobre el almacén de personas (emitir un token renovado es la única escritura
// relacionada, y no toca la DB).
type Authorizer struct {
	personRepo repository.PersonRepository
	jwtCfg     JWTConfig
}

// NewAuthorizer construye el autorizador.
func NewAuthorizer(personRepo repository.PersonRepository, jwtCfg JWTConfig) *Authorizer {
	return &Authorizer{personRepo: personRepo, jwtCfg: jwtCfg}
}

// Authenticate verifica firma y expiración del token.
// Devuelve ErrExpiredToken si venció y ErrInvalidToken para cualquier otro fallo
// de formato o firma. Todo fallo es terminal: el cliente debe re-autenticarse.
func (a *Authorizer) Authenticate(token string) (*Identity, error) {
	claims, err := pkgjwt.Parse(a.jwtCfg.Secret, token)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}
	return &Identity{SubjectID: claims.SubjectID, ClaimedRole: claims.RoleClaim}, nil
}

// ResolveIdentity busca la Persona por subject id y deriva su rol canónico.
// Distingue tres resultados: no existe (ErrPersonNotFound), existe pero está
// desactivada (ErrPersonDisabled, sin importar que el token sea válido) y fallo
// de infraestructura (ErrStoreUnavailable, reintentable, nunca una denegación).
func (a *Authorizer) ResolveIdentity(subjectID string) (*PersonContext, error) {
	p, err := a.personRepo.GetBySubjectID(subjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if p == nil {
		return nil, domain.ErrPersonNotFound
	}
	if !p.Active {
		return nil, domain.ErrPersonDisabled
	}
	return &PersonContext{
		PersonID: p.ID,
		Name:     p.Name,
		Role:     role.Normalize(p.RawRole),
		SiteID:   p.SiteID,
	}, nil
}

// Refresh emite un nuevo token firmado para una identidad ya resuelta.
func (a *Authorizer) Refresh(pc *PersonContext, subjectID string) (string, error) {
	return pkgjwt.Generate(a.jwtCfg.Secret, subjectID, pc.Role.String(), a.jwtCfg.Issuer, a.jwtCfg.ExpMinutes)
}
