// Package authz implementa la autorización por capacidades: una tabla estática
// Role -> conjunto de capacidades, inyectada al construir la Policy (no es un
// singleton de paquete: los tests pueden sustituir políticas alternas).
package authz

import (
	"strings"

	"github.com/jcastano/retail-ops-api/internal/domain/role"
)

// Capability es un permiso nombrado que protege una operación.
type Capability string

// Capacidades del sistema.
const (
	CapViewSalesReport    Capability = "view:sales-report"
	CapViewDashboard      Capability = "view:dashboard"
	CapCreateOrder        Capability = "create:order"
	CapAssignDelivery     Capability = "assign:delivery"
	CapUpdateDelivery     Capability = "update:delivery-status"
	CapViewDispatchBoard  Capability = "view:dispatch-board"
	CapManageInventory    Capability = "manage:inventory"
	CapManagePeople       Capability = "manage:people"
	CapCheckinAttendance  Capability = "checkin:attendance"
	CapViewAttendance     Capability = "view:attendance"
	CapUseAssistant       Capability = "use:ai-assistant"
)

// RouteRule asocia un prefijo de ruta con la capacidad requerida.
// Se evalúan en orden: la primera regla cuyo prefijo coincide gana.
type RouteRule struct {
	Prefix     string
	Capability Capability
}

// Policy tabla de autorización. Inmutable después de construida.
type Policy struct {
	grants map[role.Role]map[Capability]struct{}
	routes []RouteRule
}

// New construye una Policy a partir de los grants y reglas de ruta dados.
func New(grants map[role.Role][]Capability, routes []RouteRule) *Policy {
	p := &Policy{
		grants: make(map[role.Role]map[Capability]struct{}, len(grants)),
		routes: routes,
	}
	for r, caps := range grants {
		set := make(map[Capability]struct{}, len(caps))
		for _, c := range caps {
			set[c] = struct{}{}
		}
		p.grants[r] = set
	}
	return p
}

// Default devuelve la política de producción.
// admin no aparece en la tabla: tiene comodín implícito en Authorize.
func Default() *Policy {
	return New(map[role.Role][]Capability{
		role.Coordinador: {
			CapViewSalesReport, CapViewDashboard, CapCreateOrder,
			CapAssignDelivery, CapViewDispatchBoard, CapManageInventory,
			CapViewAttendance, CapUseAssistant,
		},
		role.Lider: {
			CapViewSalesReport, CapViewDashboard, CapCreateOrder,
			CapViewAttendance, CapCheckinAttendance,
		},
		role.Asesor: {
			CapCreateOrder, CapCheckinAttendance,
		},
		role.Promotor: {
			CapCheckinAttendance,
		},
		role.Logistica: {
			CapUpdateDelivery, CapViewDispatchBoard, CapCheckinAttendance,
		},
		// unknown: sin capacidades. Puede autenticarse pero no opera nada protegido.
	}, DefaultRouteRules())
}

// DefaultRouteRules reglas de ruta de producción (prefijo más específico primero).
func DefaultRouteRules() []RouteRule {
	return []RouteRule{
		{Prefix: "/api/reports/sales", Capability: CapViewSalesReport},
		{Prefix: "/api/reports", Capability: CapViewDashboard},
		{Prefix: "/api/dispatch/assign", Capability: CapAssignDelivery},
		{Prefix: "/api/dispatch/reassign", Capability: CapAssignDelivery},
		{Prefix: "/api/dispatch/transition", Capability: CapUpdateDelivery},
		{Prefix: "/api/dispatch", Capability: CapViewDispatchBoard},
		{Prefix: "/api/orders", Capability: CapCreateOrder},
		{Prefix: "/api/inventory", Capability: CapManageInventory},
		{Prefix: "/api/people", Capability: CapManagePeople},
		{Prefix: "/api/attendance/checkin", Capability: CapCheckinAttendance},
		{Prefix: "/api/attendance", Capability: CapViewAttendance},
		{Prefix: "/api/assistant", Capability: CapUseAssistant},
	}
}

// Authorize responde si el rol tiene la capacidad. Determinista: tabla estática,
// sin overrides por usuario. admin está autorizado para toda capacidad (comodín).
func (p *Policy) Authorize(r role.Role, c Capability) bool {
	if r == role.Admin {
		return true
	}
	set, ok := p.grants[r]
	if !ok {
		return false
	}
	_, ok = set[c]
	return ok
}

// RequiredCapability devuelve la capacidad que exige una ruta, si hay regla.
func (p *Policy) RequiredCapability(path string) (Capability, bool) {
	for _, rule := range p.routes {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule.Capability, true
		}
	}
	return "", false
}

// AuthorizeRoute mapea la ruta a su capacidad y autoriza. Una ruta sin regla se
// PERMITE: decisión de política heredada y documentada (comodidad para rutas
// nuevas), no un descuido: el middleware registra cada acceso sin regla para
// que quede auditable.
func (p *Policy) AuthorizeRoute(r role.Role, path string) bool {
	c, ok := p.RequiredCapability(path)
	if !ok {
		return true
	}
	return p.Authorize(r, c)
}
