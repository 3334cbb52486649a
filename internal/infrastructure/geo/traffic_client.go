package geo

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/application/report"
	"github.com/jcastano/retail-ops-api/pkg/logger"
)

var _ report.TrafficProvider = (*TrafficClient)(nil)

// TrafficClient cliente del servicio de tráfico para el tablero de despacho.
type TrafficClient struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        *logger.Logger
}

// NewTrafficClient construye el cliente.
func NewTrafficClient(apiKey, baseURL string, timeout time.Duration, log *logger.Logger) *TrafficClient {
	return &TrafficClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout + time.Second},
		log:        log,
	}
}

type trafficPayload struct {
	FlowSegmentData struct {
		CurrentSpeed  float64 `json:"currentSpeed"`
		FreeFlowSpeed float64 `json:"freeFlowSpeed"`
	} `json:"flowSegmentData"`
}

// CongestionAt devuelve la congestión cerca de unas coordenadas.
// (TrafficDTO{}, false) ante cualquier fallo.
func (c *TrafficClient) CongestionAt(ctx context.Context, lat, lng float64) (dto.TrafficDTO, bool) {
	if c.apiKey == "" {
		return dto.TrafficDTO{}, false
	}

	url := fmt.Sprintf("%s/flowSegmentData/absolute/10/json?point=%f,%f&key=%s", c.baseURL, lat, lng, c.apiKey)
	var payload trafficPayload
	if err := httpGetJSON(ctx, c.httpClient, url, c.timeout, &payload); err != nil {
		logDegraded(c.log, "traffic", err)
		return dto.TrafficDTO{}, false
	}

	flow := payload.FlowSegmentData
	if flow.FreeFlowSpeed <= 0 {
		return dto.TrafficDTO{}, false
	}
	ratio := flow.CurrentSpeed / flow.FreeFlowSpeed
	t := dto.TrafficDTO{}
	switch {
	case ratio >= 0.8:
		t.Level = "free"
	case ratio >= 0.5:
		t.Level = "moderate"
	default:
		t.Level = "heavy"
	}
	// Retraso estimado sobre un trayecto de referencia de 10 km.
	if flow.CurrentSpeed > 0 {
		t.DelayMinutes = (10/flow.CurrentSpeed - 10/flow.FreeFlowSpeed) * 60
		if t.DelayMinutes < 0 {
			t.DelayMinutes = 0
		}
	}
	return t, true
}
