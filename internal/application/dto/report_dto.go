package dto

import "github.com/shopspring/decimal"

// SalesSummaryResponse resumen de ventas para el tablero.
type SalesSummaryResponse struct {
	Date       string          `json:"date"`
	Orders     int             `json:"orders"`
	Total      decimal.Decimal `json:"total"`
	ByStatus   map[string]int  `json:"by_status"`
}

// WeatherDTO condición climática de una sede (enriquecimiento no crítico; puede venir vacío).
type WeatherDTO struct {
	Condition string  `json:"condition,omitempty"`
	TempC     float64 `json:"temp_c,omitempty"`
}

// TrafficDTO nivel de congestión cerca de una sede (enriquecimiento no crítico).
type TrafficDTO struct {
	Level        string  `json:"level,omitempty"` // free | moderate | heavy
	DelayMinutes float64 `json:"delay_minutes,omitempty"`
}

// OpsQueryDTO interpretación estructurada de una pregunta libre de operaciones.
type OpsQueryDTO struct {
	Metric     string  `json:"metric"`      // sales | deliveries | attendance
	WorkerName string  `json:"worker_name"` // opcional
	DateFrom   string  `json:"date_from"`   // YYYY-MM-DD
	DateTo     string  `json:"date_to"`     // YYYY-MM-DD
	Status     string  `json:"status"`      // filtro de estado, opcional
	Confidence float64 `json:"confidence_score"`
}
