// Package role define el conjunto cerrado de roles del sistema y la normalización
// de las etiquetas libres que llegan de la base de datos ("VENDEDORA", "Gerencia",
// "LOGÍSTICA", ...). Ninguna cadena cruda debe pasar de esta frontera: el resto de
// la aplicación solo conoce valores Role producidos por Normalize.
package role

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Role es el rol canónico derivado de la etiqueta libre de una Persona.
type Role string

// Roles válidos del sistema.
const (
	Admin       Role = "admin"
	Coordinador Role = "coordinador"
	Lider       Role = "lider"
	Asesor      Role = "asesor"
	Promotor    Role = "promotor"
	Logistica   Role = "logistica"
	// Unknown es el respaldo seguro para etiquetas no reconocidas: existe como rol
	// pero no tiene capacidades asignadas por defecto.
	Unknown Role = "unknown"
)

// String implementa fmt.Stringer.
func (r Role) String() string { return string(r) }

// IsValid indica si el valor pertenece al conjunto cerrado (incluye Unknown).
func (r Role) IsValid() bool {
	switch r {
	case Admin, Coordinador, Lider, Asesor, Promotor, Logistica, Unknown:
		return true
	}
	return false
}

// synonyms mapea subcadenas (ya limpias: minúsculas y sin tildes) a su rol canónico.
// El orden importa: se evalúa de más específico a más genérico.
var synonyms = []struct {
	substr string
	role   Role
}{
	{"administrador", Admin},
	{"gerencia", Admin},
	{"gerente", Admin},
	{"admin", Admin},
	{"coordinador", Coordinador},
	{"coordinacion", Coordinador},
	{"lider", Lider},
	{"jefe de tienda", Lider},
	{"vendedor", Asesor},
	{"asesor", Asesor},
	{"ventas", Asesor},
	{"promotor", Promotor},
	{"promotoria", Promotor},
	{"impulsador", Promotor},
	{"logistica", Logistica},
	{"repartidor", Logistica},
	{"domiciliario", Logistica},
	{"mensajero", Logistica},
	{"chofer", Logistica},
	{"conductor", Logistica},
	{"reparto", Logistica},
}

// Normalize convierte una etiqueta libre en un Role canónico. Es una función pura y
// total: insensible a mayúsculas y tildes, acepta sinónimos y variantes de género
// ("VENDEDOR" y "Vendedora" → Asesor) y nunca falla: lo no reconocido es Unknown.
func Normalize(raw string) Role {
	clean := fold(raw)
	if clean == "" {
		return Unknown
	}
	for _, s := range synonyms {
		if strings.Contains(clean, s.substr) {
			return s.role
		}
	}
	return Unknown
}

// foldTransformer descompone (NFD), elimina marcas diacríticas y recompone (NFC):
// "LOGÍSTICA" → "LOGISTICA".
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold limpia la etiqueta: recorta espacios, quita tildes y pasa a minúsculas.
func fold(raw string) string {
	out, _, err := transform.String(foldTransformer, strings.TrimSpace(raw))
	if err != nil {
		// transform.String solo falla con entradas mal formadas; aun así la
		// normalización debe ser total, usamos la cadena original.
		out = strings.TrimSpace(raw)
	}
	return strings.ToLower(out)
}
