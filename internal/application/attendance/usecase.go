// Package attendance implementa el registro de asistencia con geocerca y QR.
package attendance

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/domain"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
	"github.com/jcastano/retail-ops-api/internal/domain/repository"
	pkgjwt "github.com/jcastano/retail-ops-api/pkg/jwt"
)

// QRConfig firma y vigencia del token QR de sede.
type QRConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// AttendanceUseCase registro y consulta de asistencia.
type AttendanceUseCase struct {
	attRepo    repository.AttendanceRepository
	siteRepo   repository.SiteRepository
	personRepo repository.PersonRepository
	qrCfg      QRConfig
}

// NewAttendanceUseCase construye el caso de uso.
func NewAttendanceUseCase(
	attRepo repository.AttendanceRepository,
	siteRepo repository.SiteRepository,
	personRepo repository.PersonRepository,
	qrCfg QRConfig,
) *AttendanceUseCase {
	return &AttendanceUseCase{attRepo: attRepo, siteRepo: siteRepo, personRepo: personRepo, qrCfg: qrCfg}
}

// CheckIn registra la asistencia de la persona en su sede. Con QRToken presente
// valida el token (sede y día correctos); si no, valida que las coordenadas
// caigan dentro del radio de la geocerca de la sede.
func (uc *AttendanceUseCase) CheckIn(personID string, in dto.CheckinRequest) (*entity.AttendanceCheckin, error) {
	p, err := uc.personRepo.GetByID(personID)
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	if p == nil {
		return nil, domain.ErrPersonNotFound
	}
	if !p.Active {
		return nil, domain.ErrPersonDisabled
	}
	site, err := uc.siteRepo.GetByID(p.SiteID)
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	method := entity.CheckinGeofence
	distance := Haversine(in.Latitude, in.Longitude, site.Latitude, site.Longitude)

	if in.QRToken != "" {
		claims, err := pkgjwt.ParseSiteQR(uc.qrCfg.Secret, in.QRToken)
		if err != nil {
			return nil, domain.ErrInvalidQR
		}
		if claims.SiteID != site.ID || claims.Date != now.Format("2006-01-02") {
			return nil, domain.ErrInvalidQR
		}
		method = entity.CheckinQR
	} else if distance > site.RadiusM {
		return nil, domain.ErrOutOfFence
	}

	checkin := &entity.AttendanceCheckin{
		ID:        uuid.New().String(),
		PersonID:  p.ID,
		SiteID:    site.ID,
		Method:    method,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		DistanceM: distance,
		CheckedAt: now,
	}
	if err := uc.attRepo.Create(checkin); err != nil {
		return nil, err
	}
	return checkin, nil
}

// IssueSiteQR emite el token QR del día para una sede.
func (uc *AttendanceUseCase) IssueSiteQR(siteID string) (*dto.SiteQRResponse, error) {
	site, err := uc.siteRepo.GetByID(siteID)
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}
	date := time.Now().Format("2006-01-02")
	token, err := pkgjwt.GenerateSiteQR(uc.qrCfg.Secret, site.ID, date, uc.qrCfg.Issuer, uc.qrCfg.TTL)
	if err != nil {
		return nil, err
	}
	return &dto.SiteQRResponse{SiteID: site.ID, Date: date, QRToken: token}, nil
}

// ListBySite asistencia de una sede en un día.
func (uc *AttendanceUseCase) ListBySite(siteID, date string) ([]*entity.AttendanceCheckin, error) {
	return uc.attRepo.ListBySiteAndDate(siteID, date)
}

const earthRadiusM = 6371000.0

// Haversine distancia en metros entre dos coordenadas.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
