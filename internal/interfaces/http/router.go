package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jcastano/retail-ops-api/internal/application/attendance"
	"github.com/jcastano/retail-ops-api/internal/application/auth"
	"github.com/jcastano/retail-ops-api/internal/application/authz"
	"github.com/jcastano/retail-ops-api/internal/application/dispatch"
	"github.com/jcastano/retail-ops-api/internal/application/people"
	"github.com/jcastano/retail-ops-api/internal/application/report"
	"github.com/jcastano/retail-ops-api/internal/application/sales"
	"github.com/jcastano/retail-ops-api/internal/application/usecase"
	"github.com/jcastano/retail-ops-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	Authorizer   *auth.Authorizer
	Policy       *authz.Policy
	SalesUC      *sales.SalesUseCase
	DispatchUC   *dispatch.DispatchUseCase
	ReportUC     *report.ReportUseCase
	AttendanceUC *attendance.AttendanceUseCase
	PeopleUC     *people.PeopleUseCase
	AssistantUC  *usecase.AssistantUseCase
	Log          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público; refresh y change-password exigen token)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Authorizer)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", AuthMiddleware(deps.Authorizer), authHandler.Refresh)
	authGroup.Post("/change-password", AuthMiddleware(deps.Authorizer), authHandler.ChangePassword)

	// Rutas protegidas: identidad resuelta + autorización por prefijo de ruta
	protected := api.Group("/", AuthMiddleware(deps.Authorizer), RouteGuard(deps.Policy, deps.Log))

	// Orders (captura de ventas)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.SalesUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)

	// Dispatch (asignación, transiciones, tablero)
	dispatchGroup := protected.Group("/dispatch")
	dispatchHandler := NewDispatchHandler(deps.DispatchUC, deps.ReportUC)
	dispatchGroup.Post("/assign", dispatchHandler.Assign)
	dispatchGroup.Post("/reassign", dispatchHandler.Reassign)
	dispatchGroup.Post("/transition", dispatchHandler.Transition)
	dispatchGroup.Get("/stats/:workerId", dispatchHandler.Stats)
	dispatchGroup.Get("/board", dispatchHandler.Board)

	// Reports (la hoja de despacho exige además ver el tablero: el prefijo
	// /api/reports solo pide view:dashboard y el PDF trae datos de despacho)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/sales", reportHandler.SalesSummary)
	reports.Get("/dispatch-sheet/:workerId",
		RequireCapability(deps.Policy, authz.CapViewDispatchBoard),
		reportHandler.DispatchSheet)

	// Attendance (registro con geocerca o QR)
	attendanceGroup := protected.Group("/attendance")
	attendanceHandler := NewAttendanceHandler(deps.AttendanceUC)
	attendanceGroup.Post("/checkin", attendanceHandler.CheckIn)
	attendanceGroup.Get("/qr/:siteId", attendanceHandler.SiteQR)
	attendanceGroup.Get("/", attendanceHandler.List)

	// People (aprovisionamiento)
	peopleGroup := protected.Group("/people")
	peopleHandler := NewPeopleHandler(deps.PeopleUC)
	peopleGroup.Post("/", peopleHandler.Create)
	peopleGroup.Get("/", peopleHandler.List)
	peopleGroup.Put("/:id", peopleHandler.Update)
	peopleGroup.Delete("/:id", peopleHandler.Deactivate)

	// Assistant (IA)
	assistantGroup := protected.Group("/assistant")
	assistantHandler := NewAssistantHandler(deps.AssistantUC)
	assistantGroup.Post("/interpret", assistantHandler.Interpret)
}
