package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastano/retail-ops-api/internal/application/attendance"
	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/domain"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
	pkgjwt "github.com/jcastano/retail-ops-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeAttRepo struct {
	checkins []*entity.AttendanceCheckin
}

func (r *fakeAttRepo) Create(c *entity.AttendanceCheckin) error {
	r.checkins = append(r.checkins, c)
	return nil
}

func (r *fakeAttRepo) ListByPersonAndDate(personID, date string) ([]*entity.AttendanceCheckin, error) {
	return nil, nil
}

func (r *fakeAttRepo) ListBySiteAndDate(siteID, date string) ([]*entity.AttendanceCheckin, error) {
	var out []*entity.AttendanceCheckin
	for _, c := range r.checkins {
		if c.SiteID == siteID && c.CheckedAt.Format("2006-01-02") == date {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeSiteRepo struct{ sites map[string]*entity.Site }

func (r *fakeSiteRepo) GetByID(id string) (*entity.Site, error) { return r.sites[id], nil }

func (r *fakeSiteRepo) List() ([]*entity.Site, error) {
	var out []*entity.Site
	for _, s := range r.sites {
		out = append(out, s)
	}
	return out, nil
}

type fakePersonRepo struct{ people map[string]*entity.Person }

func (r *fakePersonRepo) Create(p *entity.Person) error                    { return nil }
func (r *fakePersonRepo) GetByID(id string) (*entity.Person, error)        { return r.people[id], nil }
func (r *fakePersonRepo) GetBySubjectID(s string) (*entity.Person, error)  { return nil, nil }
func (r *fakePersonRepo) GetByEmail(e string) (*entity.Person, error)      { return nil, nil }
func (r *fakePersonRepo) Update(p *entity.Person) error                    { return nil }
func (r *fakePersonRepo) Deactivate(id string) error                       { return nil }
func (r *fakePersonRepo) List(limit, offset int) ([]*entity.Person, error) { return nil, nil }
func (r *fakePersonRepo) AdjustLoad(workerID string, delta int) error      { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures: sede en el centro de Bogotá con geocerca de 150 m.
// ──────────────────────────────────────────────────────────────────────────────

const (
	siteLat   = 4.6243
	siteLng   = -74.0636
	qrSecret  = "qr-secret-for-tests"
	qrIssuer  = "retail-ops-test"
	testQRTTL = 4 * time.Hour
)

func buildUseCase() (*attendance.AttendanceUseCase, *fakeAttRepo) {
	attRepo := &fakeAttRepo{}
	siteRepo := &fakeSiteRepo{sites: map[string]*entity.Site{
		"site-1": {ID: "site-1", Name: "Sede Principal", Latitude: siteLat, Longitude: siteLng, RadiusM: 150},
	}}
	personRepo := &fakePersonRepo{people: map[string]*entity.Person{
		"p1": {ID: "p1", Name: "Ana", RawRole: "vendedora", Active: true, SiteID: "site-1"},
		"ex": {ID: "ex", Name: "Ex", RawRole: "vendedor", Active: false, SiteID: "site-1"},
	}}
	uc := attendance.NewAttendanceUseCase(attRepo, siteRepo, personRepo, attendance.QRConfig{
		Secret: qrSecret,
		Issuer: qrIssuer,
		TTL:    testQRTTL,
	})
	return uc, attRepo
}

// ──────────────────────────────────────────────────────────────────────────────
// Geocerca
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckIn_DentroDeLaGeocerca(t *testing.T) {
	uc, attRepo := buildUseCase()

	// ~50 m al norte de la sede (1 grado de latitud ≈ 111 km).
	checkin, err := uc.CheckIn("p1", dto.CheckinRequest{
		Latitude:  siteLat + 0.00045,
		Longitude: siteLng,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CheckinGeofence, checkin.Method)
	assert.Less(t, checkin.DistanceM, 150.0)
	assert.Len(t, attRepo.checkins, 1)
}

func TestCheckIn_FueraDeLaGeocerca(t *testing.T) {
	uc, attRepo := buildUseCase()

	// ~550 m al norte: fuera del radio de 150 m.
	_, err := uc.CheckIn("p1", dto.CheckinRequest{
		Latitude:  siteLat + 0.005,
		Longitude: siteLng,
	})
	assert.ErrorIs(t, err, domain.ErrOutOfFence)
	assert.Empty(t, attRepo.checkins, "un registro rechazado no persiste nada")
}

func TestCheckIn_PersonaDesactivada(t *testing.T) {
	uc, _ := buildUseCase()

	_, err := uc.CheckIn("ex", dto.CheckinRequest{Latitude: siteLat, Longitude: siteLng})
	assert.ErrorIs(t, err, domain.ErrPersonDisabled)
}

func TestHaversine_DistanciasConocidas(t *testing.T) {
	// Bogotá -> Medellín: ~238.7 km de círculo máximo entre esas coordenadas.
	d := attendance.Haversine(4.7110, -74.0721, 6.2442, -75.5812)
	assert.InDelta(t, 238700, d, 2000)

	assert.Zero(t, attendance.Haversine(siteLat, siteLng, siteLat, siteLng),
		"la distancia de un punto a sí mismo es cero")
}

// ──────────────────────────────────────────────────────────────────────────────
// QR de sede
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckIn_QRValidoIgnoraLaDistancia(t *testing.T) {
	uc, _ := buildUseCase()

	out, err := uc.IssueSiteQR("site-1")
	require.NoError(t, err)

	// Lejos de la sede: el QR de la sede correcta basta.
	checkin, err := uc.CheckIn("p1", dto.CheckinRequest{
		Latitude:  siteLat + 0.05,
		Longitude: siteLng,
		QRToken:   out.QRToken,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CheckinQR, checkin.Method)
	assert.Greater(t, checkin.DistanceM, 150.0,
		"la distancia se guarda igualmente como dato informativo")
}

func TestCheckIn_QRDeOtraSedeRechazado(t *testing.T) {
	uc, _ := buildUseCase()

	token, err := pkgjwt.GenerateSiteQR(qrSecret, "otra-sede", time.Now().Format("2006-01-02"), qrIssuer, testQRTTL)
	require.NoError(t, err)

	_, err = uc.CheckIn("p1", dto.CheckinRequest{QRToken: token})
	assert.ErrorIs(t, err, domain.ErrInvalidQR)
}

func TestCheckIn_QRDeOtroDiaRechazado(t *testing.T) {
	uc, _ := buildUseCase()

	ayer := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	token, err := pkgjwt.GenerateSiteQR(qrSecret, "site-1", ayer, qrIssuer, testQRTTL)
	require.NoError(t, err)

	_, err = uc.CheckIn("p1", dto.CheckinRequest{QRToken: token})
	assert.ErrorIs(t, err, domain.ErrInvalidQR, "el QR de ayer no sirve hoy aunque la firma sea válida")
}

func TestCheckIn_QRExpiradoRechazado(t *testing.T) {
	uc, _ := buildUseCase()

	token, err := pkgjwt.GenerateSiteQR(qrSecret, "site-1", time.Now().Format("2006-01-02"), qrIssuer, -time.Hour)
	require.NoError(t, err)

	_, err = uc.CheckIn("p1", dto.CheckinRequest{QRToken: token})
	assert.ErrorIs(t, err, domain.ErrInvalidQR)
}

func TestCheckIn_QRConFirmaAjenaRechazado(t *testing.T) {
	uc, _ := buildUseCase()

	token, err := pkgjwt.GenerateSiteQR("otro-secreto", "site-1", time.Now().Format("2006-01-02"), qrIssuer, testQRTTL)
	require.NoError(t, err)

	_, err = uc.CheckIn("p1", dto.CheckinRequest{QRToken: token})
	assert.ErrorIs(t, err, domain.ErrInvalidQR)
}
