// Package geo agrupa los clientes HTTP de APIs externas de enriquecimiento
// (clima, tráfico, geocoding). Ninguno es crítico para la corrección: toda
// llamada va acotada por timeout y todo fallo degrada a un resultado neutro
// o vacío, nunca a un error fatal para la petición que lo consume.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jcastano/retail-ops-api/pkg/logger"
)

// Cache puerto del caché de lecturas de corta vida (clima, tráfico).
// La implementación Redis vive en infrastructure/cache; un nil desactiva el caché.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

// httpGetJSON hace un GET con timeout y deserializa JSON en out.
func httpGetJSON(ctx context.Context, client *http.Client, url string, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// logDegraded registra la degradación a resultado neutro sin propagar el error.
func logDegraded(log *logger.Logger, service string, err error) {
	if log != nil {
		log.Warn().Err(err).Str("service", service).Msg("API externa degradada a resultado vacío")
	}
}
