package authz_test

import (
	"testing"

	"github.com/jcastano/retail-ops-api/internal/application/authz"
	"github.com/jcastano/retail-ops-api/internal/domain/role"
	"github.com/stretchr/testify/assert"
)

// ──────────────────────────────────────────────────────────────────────────────
// La Policy es una tabla estática: misma entrada, misma respuesta, sin
// overrides por usuario. admin tiene comodín implícito.
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthorize_AdminComodin(t *testing.T) {
	p := authz.Default()
	caps := []authz.Capability{
		authz.CapViewSalesReport, authz.CapViewDashboard, authz.CapCreateOrder,
		authz.CapAssignDelivery, authz.CapUpdateDelivery, authz.CapViewDispatchBoard,
		authz.CapManageInventory, authz.CapManagePeople, authz.CapCheckinAttendance,
		authz.CapViewAttendance, authz.CapUseAssistant,
	}
	for _, c := range caps {
		assert.True(t, p.Authorize(role.Admin, c),
			"admin debe tener la capacidad %s sin estar en la tabla", c)
	}
}

func TestAuthorize_AsesorNoVeReporteDeVentas(t *testing.T) {
	p := authz.Default()

	assert.False(t, p.Authorize(role.Asesor, authz.CapViewSalesReport),
		"asesor no debe ver el reporte de ventas")
	assert.True(t, p.Authorize(role.Asesor, authz.CapCreateOrder),
		"asesor sí puede capturar pedidos")
	assert.True(t, p.Authorize(role.Lider, authz.CapViewSalesReport),
		"líder sí ve el reporte de ventas")
}

func TestAuthorize_UnknownSinCapacidades(t *testing.T) {
	p := authz.Default()
	for _, c := range []authz.Capability{
		authz.CapViewSalesReport, authz.CapCreateOrder, authz.CapCheckinAttendance,
	} {
		assert.False(t, p.Authorize(role.Unknown, c),
			"unknown puede autenticarse pero no debe operar nada protegido (%s)", c)
	}
}

func TestAuthorize_LogisticaSoloDespacho(t *testing.T) {
	p := authz.Default()

	assert.True(t, p.Authorize(role.Logistica, authz.CapUpdateDelivery))
	assert.True(t, p.Authorize(role.Logistica, authz.CapViewDispatchBoard))
	assert.False(t, p.Authorize(role.Logistica, authz.CapAssignDelivery),
		"logística actualiza estados pero no asigna pedidos")
	assert.False(t, p.Authorize(role.Logistica, authz.CapManagePeople))
}

func TestAuthorize_EsDeterminista(t *testing.T) {
	p := authz.Default()
	first := p.Authorize(role.Coordinador, authz.CapAssignDelivery)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, p.Authorize(role.Coordinador, authz.CapAssignDelivery))
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reglas de ruta: prefijo más específico primero, rutas sin regla se permiten.
// ──────────────────────────────────────────────────────────────────────────────

func TestRequiredCapability_PrefijoMasEspecificoGana(t *testing.T) {
	p := authz.Default()

	c, ok := p.RequiredCapability("/api/reports/sales")
	assert.True(t, ok)
	assert.Equal(t, authz.CapViewSalesReport, c,
		"/api/reports/sales debe exigir view:sales-report, no la regla genérica de /api/reports")

	c, ok = p.RequiredCapability("/api/reports/dispatch-sheet/w1")
	assert.True(t, ok)
	assert.Equal(t, authz.CapViewDashboard, c)

	c, ok = p.RequiredCapability("/api/dispatch/transition")
	assert.True(t, ok)
	assert.Equal(t, authz.CapUpdateDelivery, c)
}

func TestAuthorizeRoute_RutaSinReglaSePermite(t *testing.T) {
	p := authz.Default()

	_, ok := p.RequiredCapability("/api/totalmente-nueva")
	assert.False(t, ok, "no debe existir regla para la ruta")
	assert.True(t, p.AuthorizeRoute(role.Promotor, "/api/totalmente-nueva"),
		"una ruta sin regla se permite (el middleware la deja registrada en el log)")
}

func TestAuthorizeRoute_DeniegaPorRol(t *testing.T) {
	p := authz.Default()

	assert.False(t, p.AuthorizeRoute(role.Asesor, "/api/reports/sales"),
		"asesor no ve reportes de ventas")
	assert.False(t, p.AuthorizeRoute(role.Promotor, "/api/dispatch/assign"),
		"promotor no asigna entregas")
	assert.True(t, p.AuthorizeRoute(role.Coordinador, "/api/dispatch/assign"))
}
