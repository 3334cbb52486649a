package auth

import (
	"time"

	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/domain"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
	"github.com/jcastano/retail-ops-api/internal/domain/repository"
	"github.com/jcastano/retail-ops-api/internal/domain/role"
	pkgjwt "github.com/jcastano/retail-ops-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthUseCase casos de uso de autenticación: login y cambio de contraseña.
type AuthUseCase struct {
	personRepo repository.PersonRepository
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(personRepo repository.PersonRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{personRepo: personRepo, jwtCfg: jwtCfg}
}

// Login verifica email/password, exige que la persona esté activa y emite el
// token de sesión. Cerrar sesión solo borra la cookie en el cliente: el token
// sigue siendo válido hasta su expiración (no hay lista de revocación).
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	p, err := uc.personRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	if p == nil {
		return nil, domain.ErrPersonNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !p.Active {
		return nil, domain.ErrPersonDisabled
	}
	r := role.Normalize(p.RawRole)
	token, err := pkgjwt.Generate(uc.jwtCfg.Secret, p.SubjectID, r.String(), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:  token,
		Person: *ToPersonResponse(p),
	}, nil
}

// ChangePassword exige la contraseña actual real. No existe contraseña maestra
// de recuperación: esa puerta trasera del sistema anterior no se conservó.
func (uc *AuthUseCase) ChangePassword(personID string, in dto.ChangePasswordRequest) error {
	if len(in.NewPassword) < 8 {
		return domain.ErrInvalidInput
	}
	p, err := uc.personRepo.GetByID(personID)
	if err != nil {
		return domain.ErrStoreUnavailable
	}
	if p == nil {
		return domain.ErrPersonNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.ErrUnauthorized
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hash)
	p.UpdatedAt = time.Now()
	return uc.personRepo.Update(p)
}

// ToPersonResponse mapea la entidad a su representación pública (rol ya normalizado).
func ToPersonResponse(p *entity.Person) *dto.PersonResponse {
	if p == nil {
		return nil
	}
	return &dto.PersonResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Role:      role.Normalize(p.RawRole).String(),
		RawRole:   p.RawRole,
		Active:    p.Active,
		SiteID:    p.SiteID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
