package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/application/report"
	"github.com/jcastano/retail-ops-api/pkg/logger"
)

var _ report.WeatherProvider = (*WeatherClient)(nil)

// weatherCacheTTL unos minutos bastan: el clima no cambia por petición y la
// API externa tiene cuota.
const weatherCacheTTL = 10 * time.Minute

// WeatherClient cliente del servicio de clima (formato OpenWeatherMap) con caché
// opcional en Redis.
type WeatherClient struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	cache      Cache
	log        *logger.Logger
}

// NewWeatherClient construye el cliente. cache puede ser nil.
func NewWeatherClient(apiKey, baseURL string, timeout time.Duration, cache Cache, log *logger.Logger) *WeatherClient {
	return &WeatherClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout + time.Second},
		cache:      cache,
		log:        log,
	}
}

type weatherPayload struct {
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

// CurrentAt devuelve el clima actual en unas coordenadas. (WeatherDTO{}, false)
// ante cualquier fallo: clave ausente, timeout o respuesta inválida.
func (c *WeatherClient) CurrentAt(ctx context.Context, lat, lng float64) (dto.WeatherDTO, bool) {
	if c.apiKey == "" {
		return dto.WeatherDTO{}, false
	}

	key := fmt.Sprintf("weather:%.3f:%.3f", lat, lng)
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, key); ok {
			var w dto.WeatherDTO
			if err := json.Unmarshal([]byte(cached), &w); err == nil {
				return w, true
			}
		}
	}

	url := fmt.Sprintf("%s/weather?lat=%f&lon=%f&units=metric&appid=%s", c.baseURL, lat, lng, c.apiKey)
	var payload weatherPayload
	if err := httpGetJSON(ctx, c.httpClient, url, c.timeout, &payload); err != nil {
		logDegraded(c.log, "weather", err)
		return dto.WeatherDTO{}, false
	}

	w := dto.WeatherDTO{TempC: payload.Main.Temp}
	if len(payload.Weather) > 0 {
		w.Condition = payload.Weather[0].Main
	}
	if c.cache != nil {
		if raw, err := json.Marshal(w); err == nil {
			c.cache.Set(ctx, key, string(raw), weatherCacheTTL)
		}
	}
	return w, true
}
