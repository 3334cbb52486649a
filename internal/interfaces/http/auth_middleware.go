package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jcastano/retail-ops-api/internal/application/auth"
	"github.com/jcastano/retail-ops-api/internal/application/authz"
	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/domain"
	"github.com/jcastano/retail-ops-api/internal/domain/role"
	"github.com/jcastano/retail-ops-api/pkg/logger"
)

// Locals keys para la identidad resuelta en Fiber.
const (
	LocalPersonID  = "person_id"
	LocalSubjectID = "subject_id"
	LocalRole      = "role"
	LocalSiteID    = "site_id"
)

// AuthMiddleware valida el Bearer Token y resuelve la identidad contra el
// almacén de personas en cada petición: una persona desactivada queda fuera
// de inmediato aunque su token siga vigente.
//
// Respuestas:
//   - 401 → token ausente, inválido, expirado, o persona inexistente.
//   - 403 → persona desactivada.
//   - 503 → almacén de personas inalcanzable (reintentable, nunca denegación).
func AuthMiddleware(authorizer *auth.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}

		identity, err := authorizer.Authenticate(tokenString)
		if err != nil {
			if errors.Is(err, domain.ErrExpiredToken) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "EXPIRED_TOKEN", Message: "sesión expirada, inicie sesión de nuevo"})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido"})
		}

		pc, err := authorizer.ResolveIdentity(identity.SubjectID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrStoreUnavailable):
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "no se pudo verificar la identidad, intente más tarde"})
			case errors.Is(err, domain.ErrPersonDisabled):
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "PERSON_DISABLED", Message: "cuenta desactivada"})
			default:
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNKNOWN_SUBJECT", Message: "identidad no reconocida"})
			}
		}

		c.Locals(LocalPersonID, pc.PersonID)
		c.Locals(LocalSubjectID, identity.SubjectID)
		c.Locals(LocalRole, pc.Role)
		c.Locals(LocalSiteID, pc.SiteID)
		return c.Next()
	}
}

// RouteGuard autoriza la ruta por prefijo según la Policy. Debe usarse DESPUÉS
// de AuthMiddleware. Una ruta sin regla se permite, pero queda registrada con
// warning para que la omisión sea auditable.
func RouteGuard(policy *authz.Policy, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r := GetRole(c)
		path := c.Path()
		if _, mapped := policy.RequiredCapability(path); !mapped {
			log.Warn().Str("path", path).Str("role", r.String()).Msg("Ruta sin regla de autorización, acceso permitido")
			return c.Next()
		}
		if !policy.AuthorizeRoute(r, path) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol no tiene permiso para esta operación"})
		}
		return c.Next()
	}
}

// RequireCapability exige una capacidad puntual, para operaciones que el
// prefijo de ruta no distingue (p. ej. emitir el QR de sede).
func RequireCapability(policy *authz.Policy, required authz.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !policy.Authorize(GetRole(c), required) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol no tiene permiso para esta operación"})
		}
		return c.Next()
	}
}

// GetPersonID devuelve el id de la persona resuelta (después del middleware).
func GetPersonID(c *fiber.Ctx) string {
	v := c.Locals(LocalPersonID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetSubjectID devuelve el subject del token (después del middleware).
func GetSubjectID(c *fiber.Ctx) string {
	v := c.Locals(LocalSubjectID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRole devuelve el rol canónico resuelto (después del middleware).
func GetRole(c *fiber.Ctx) role.Role {
	v := c.Locals(LocalRole)
	if v == nil {
		return role.Unknown
	}
	r, ok := v.(role.Role)
	if !ok {
		return role.Unknown
	}
	return r
}

// GetSiteID devuelve la sede de la persona resuelta (después del middleware).
func GetSiteID(c *fiber.Ctx) string {
	v := c.Locals(LocalSiteID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
