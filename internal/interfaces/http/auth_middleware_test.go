package http_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastano/retail-ops-api/internal/application/auth"
	"github.com/jcastano/retail-ops-api/internal/application/authz"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
	apphttp "github.com/jcastano/retail-ops-api/internal/interfaces/http"
	pkgjwt "github.com/jcastano/retail-ops-api/pkg/jwt"
	"github.com/jcastano/retail-ops-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "retail-ops-test"
	testExpMin    = 60
)

// fakePersonRepo almacén de personas en memoria, indexado por subject_id.
type fakePersonRepo struct {
	people map[string]*entity.Person
	down   bool
}

func (r *fakePersonRepo) Create(p *entity.Person) error { return nil }

func (r *fakePersonRepo) GetByID(id string) (*entity.Person, error) { return nil, nil }

func (r *fakePersonRepo) GetBySubjectID(subjectID string) (*entity.Person, error) {
	if r.down {
		return nil, fmt.Errorf("conexión rechazada")
	}
	return r.people[subjectID], nil
}

func (r *fakePersonRepo) GetByEmail(email string) (*entity.Person, error) { return nil, nil }

func (r *fakePersonRepo) Update(p *entity.Person) error { return nil }

func (r *fakePersonRepo) Deactivate(id string) error { return nil }

func (r *fakePersonRepo) List(limit, offset int) ([]*entity.Person, error) { return nil, nil }

func (r *fakePersonRepo) AdjustLoad(workerID string, delta int) error { return nil }

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para resolver la identidad contra el almacén falso
//   - RouteGuard para autorizar por prefijo de ruta con la Policy de producción
//   - Handlers dummy que devuelven 200 si pasan los middlewares
func buildTestApp(repo *fakePersonRepo) *fiber.App {
	authorizer := auth.NewAuthorizer(repo, auth.JWTConfig{
		Secret:     testJWTSecret,
		ExpMinutes: testExpMin,
		Issuer:     testIssuer,
	})
	policy := authz.Default()
	log := logger.Nop()

	app := fiber.New()
	protected := app.Group("/api", apphttp.AuthMiddleware(authorizer), apphttp.RouteGuard(policy, log))
	ok := func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"ok":   true,
			"role": apphttp.GetRole(c).String(),
		})
	}
	protected.Get("/reports/sales", ok)
	protected.Post("/dispatch/assign", ok)
	protected.Post("/orders", ok)
	protected.Get("/ruta-sin-regla", ok)
	return app
}

// seedPerson registra una persona en el repo falso y devuelve su subject.
func seedPerson(repo *fakePersonRepo, subjectID, rawRole string, active bool) {
	repo.people[subjectID] = &entity.Person{
		ID:        "person-" + subjectID,
		Name:      "Persona " + subjectID,
		RawRole:   rawRole,
		Active:    active,
		SiteID:    "site-1",
		SubjectID: subjectID,
	}
}

// tokenFor genera un token firmado para un subject.
func tokenFor(t *testing.T, subjectID, roleClaim string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, subjectID, roleClaim, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token válido")
	return "Bearer " + tok
}

// doRequest lanza una petición y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, method, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware: autenticación y resolución de identidad
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader(t *testing.T) {
	repo := &fakePersonRepo{people: map[string]*entity.Person{}}
	app := buildTestApp(repo)

	resp := doRequest(t, app, http.MethodGet, "/api/reports/sales", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenBasura(t *testing.T) {
	repo := &fakePersonRepo{people: map[string]*entity.Person{}}
	app := buildTestApp(repo)

	resp := doRequest(t, app, http.MethodGet, "/api/reports/sales", "Bearer no-es-un-jwt")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	repo := &fakePersonRepo{people: map[string]*entity.Person{}}
	seedPerson(repo, "s1", "coordinador", true)
	app := buildTestApp(repo)

	tok, err := pkgjwt.Generate(testJWTSecret, "s1", "coordinador", testIssuer, -5)
	require.NoError(t, err)
	resp := doRequest(t, app, http.MethodGet, "/api/reports/sales", "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "EXPIRED_TOKEN",
		"la expiración debe distinguirse del token inválido")
}

func TestAuthMiddleware_SubjectInexistente(t *testing.T) {
	repo := &fakePersonRepo{people: map[string]*entity.Person{}}
	app := buildTestApp(repo)

	resp := doRequest(t, app, http.MethodGet, "/api/reports/sales", tokenFor(t, "fantasma", "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"un token válido de una persona que ya no existe no entra")
}

func TestAuthMiddleware_PersonaDesactivada(t *testing.T) {
	repo := &fakePersonRepo{people: map[string]*entity.Person{}}
	seedPerson(repo, "s1", "coordinador", false)
	app := buildTestApp(repo)

	resp := doRequest(t, app, http.MethodGet, "/api/reports/sales", tokenFor(t, "s1", "coordinador"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "PERSON_DISABLED",
		"desactivada ≠ inexistente: el cliente debe poder distinguirlo")
}

func TestAuthMiddleware_AlmacenCaidoRespondee503(t *testing.T) {
	repo := &fakePersonRepo{people: map[string]*entity.Person{}, down: true}
	seedPerson(repo, "s1", "coordinador", true)
	app := buildTestApp(repo)

	resp := doRequest(t, app, http.MethodGet, "/api/reports/sales", tokenFor(t, "s1", "coordinador"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode,
		"el fallo de infraestructura es reintentable, no una denegación")
}

// ──────────────────────────────────────────────────────────────────────────────
// RouteGuard: el rol efectivo sale de la DB, no del claim del token
// ──────────────────────────────────────────────────────────────────────────────

func TestRouteGuard_CoordinadorVeReporteDeVentas(t *testing.T) {
	repo := &fakePersonRepo{people: map[string]*entity.Person{}}
	seedPerson(repo, "s1", "Coordinación Comercial", true)
	app := buildTestApp(repo)

	resp := doRequest(t, app, http.MethodGet, "/api/reports/sales", tokenFor(t, "s1", "coordinador"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"role":"coordinador"`,
		"la etiqueta libre de la DB debe llegar ya normalizada")
}

func TestRouteGuard_AsesorBloqueadoEnReporteDeVentas(t *testing.T) {
	repo := &fakePersonRepo{people: map[string]*entity.Person{}}
	seedPerson(repo, "s1", "VENDEDORA", true)
	app := buildTestApp(repo)

	resp := doRequest(t, app, http.MethodGet, "/api/reports/sales", tokenFor(t, "s1", "vendedor"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRouteGuard_ClaimDelTokenNoManda(t *testing.T) {
	// El token reclama admin pero la DB dice vendedora: manda la DB.
	repo := &fakePersonRepo{people: map[string]*entity.Person{}}
	seedPerson(repo, "s1", "vendedora", true)
	app := buildTestApp(repo)

	resp := doRequest(t, app, http.MethodGet, "/api/reports/sales", tokenFor(t, "s1", "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"el role claim es informativo: el rol efectivo sale del registro Person")
}

func TestRouteGuard_AdminEntraATodo(t *testing.T) {
	repo := &fakePersonRepo{people: map[string]*entity.Person{}}
	seedPerson(repo, "s1", "Gerencia", true)
	app := buildTestApp(repo)

	for _, rt := range []struct{ method, path string }{
		{http.MethodGet, "/api/reports/sales"},
		{http.MethodPost, "/api/dispatch/assign"},
		{http.MethodPost, "/api/orders"},
	} {
		resp := doRequest(t, app, rt.method, rt.path, tokenFor(t, "s1", "admin"))
		assert.Equal(t, http.StatusOK, resp.StatusCode,
			"admin (comodín) debe entrar a %s", rt.path)
		resp.Body.Close()
	}
}

func TestRouteGuard_RolDesconocidoBloqueadoEnRutasConRegla(t *testing.T) {
	repo := &fakePersonRepo{people: map[string]*entity.Person{}}
	seedPerson(repo, "s1", "practicante", true)
	app := buildTestApp(repo)

	resp := doRequest(t, app, http.MethodPost, "/api/orders", tokenFor(t, "s1", "practicante"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"una etiqueta no reconocida cae en unknown y unknown no opera nada protegido")
}

func TestRouteGuard_RutaSinReglaSePermite(t *testing.T) {
	repo := &fakePersonRepo{people: map[string]*entity.Person{}}
	seedPerson(repo, "s1", "practicante", true)
	app := buildTestApp(repo)

	resp := doRequest(t, app, http.MethodGet, "/api/ruta-sin-regla", tokenFor(t, "s1", "practicante"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"una ruta sin regla se permite y queda registrada en el log")
}
