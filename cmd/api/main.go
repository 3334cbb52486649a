package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jcastano/retail-ops-api/internal/application/attendance"
	"github.com/jcastano/retail-ops-api/internal/application/auth"
	"github.com/jcastano/retail-ops-api/internal/application/authz"
	"github.com/jcastano/retail-ops-api/internal/application/dispatch"
	"github.com/jcastano/retail-ops-api/internal/application/people"
	"github.com/jcastano/retail-ops-api/internal/application/report"
	"github.com/jcastano/retail-ops-api/internal/application/sales"
	"github.com/jcastano/retail-ops-api/internal/application/usecase"
	infraai "github.com/jcastano/retail-ops-api/internal/infrastructure/ai"
	infracache "github.com/jcastano/retail-ops-api/internal/infrastructure/cache"
	infrageo "github.com/jcastano/retail-ops-api/internal/infrastructure/geo"
	infrapdf "github.com/jcastano/retail-ops-api/internal/infrastructure/pdf"
	"github.com/jcastano/retail-ops-api/internal/infrastructure/postgres"
	httpRouter "github.com/jcastano/retail-ops-api/internal/interfaces/http"
	"github.com/jcastano/retail-ops-api/pkg/config"
	"github.com/jcastano/retail-ops-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	personRepo := postgres.NewPersonRepository(pool)
	siteRepo := postgres.NewSiteRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	routeRepo := postgres.NewRouteRepository(pool)
	attendanceRepo := postgres.NewAttendanceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	jwtCfg := auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}
	authorizer := auth.NewAuthorizer(personRepo, jwtCfg)
	authUC := auth.NewAuthUseCase(personRepo, jwtCfg)
	policy := authz.Default()

	// Enriquecimientos externos: todos degradan a resultado vacío si fallan.
	extTimeout := time.Duration(cfg.External.TimeoutSeconds) * time.Second
	redisCache := infracache.NewRedisCache(cfg.Redis, log)
	defer redisCache.Close()
	geocoder := infrageo.NewGeocoderClient(cfg.External.GeocodeBaseURL, extTimeout, log)
	weather := infrageo.NewWeatherClient(cfg.External.WeatherAPIKey, cfg.External.WeatherBaseURL, extTimeout, redisCache, log)
	traffic := infrageo.NewTrafficClient(cfg.External.TrafficAPIKey, cfg.External.TrafficBaseURL, extTimeout, log)

	salesUC := sales.NewSalesUseCase(orderRepo, geocoder)
	dispatchUC := dispatch.NewDispatchUseCase(txRunner, orderRepo, routeRepo)
	sheetGen := infrapdf.NewMarotoSheetGenerator()
	reportUC := report.NewReportUseCase(dispatchUC, orderRepo, routeRepo, personRepo, siteRepo, sheetGen, weather, traffic)
	attendanceUC := attendance.NewAttendanceUseCase(attendanceRepo, siteRepo, personRepo, attendance.QRConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.QRTTLHours) * time.Hour,
	})
	peopleUC := people.NewPeopleUseCase(personRepo)

	anthropicSvc := infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	assistantUC := usecase.NewAssistantUseCase(anthropicSvc)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Retail Ops API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		Authorizer:   authorizer,
		Policy:       policy,
		SalesUC:      salesUC,
		DispatchUC:   dispatchUC,
		ReportUC:     reportUC,
		AttendanceUC: attendanceUC,
		PeopleUC:     peopleUC,
		AssistantUC:  assistantUC,
		Log:          log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
