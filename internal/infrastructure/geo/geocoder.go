package geo

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jcastano/retail-ops-api/internal/application/sales"
	"github.com/jcastano/retail-ops-api/pkg/logger"
)

var _ sales.Geocoder = (*GeocoderClient)(nil)

// GeocoderClient cliente de geocoding (formato Nominatim).
type GeocoderClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        *logger.Logger
}

// NewGeocoderClient construye el cliente.
func NewGeocoderClient(baseURL string, timeout time.Duration, log *logger.Logger) *GeocoderClient {
	return &GeocoderClient{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout + time.Second},
		log:        log,
	}
}

type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resuelve una dirección a coordenadas. (0, 0, false) ante cualquier
// fallo o cuando la dirección no arroja resultados.
func (c *GeocoderClient) Geocode(ctx context.Context, address string) (float64, float64, bool) {
	endpoint := c.baseURL + "/search?format=json&limit=1&q=" + url.QueryEscape(address)
	var results []geocodeResult
	if err := httpGetJSON(ctx, c.httpClient, endpoint, c.timeout, &results); err != nil {
		logDegraded(c.log, "geocode", err)
		return 0, 0, false
	}
	if len(results) == 0 {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(results[0].Lat, 64)
	lng, err2 := strconv.ParseFloat(results[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
