// seed crea los datos mínimos para arrancar en un ambiente nuevo: una sede de
// demostración y la persona administradora inicial. Es idempotente: si el email
// del admin ya existe no hace nada.
//
// Uso: ADMIN_EMAIL=... ADMIN_PASSWORD=... go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jcastano/retail-ops-api/internal/domain/entity"
	"github.com/jcastano/retail-ops-api/internal/infrastructure/postgres"
	"github.com/jcastano/retail-ops-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_EMAIL y ADMIN_PASSWORD son requeridos")
		os.Exit(1)
	}
	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "ADMIN_PASSWORD debe tener al menos 8 caracteres")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	personRepo := postgres.NewPersonRepository(pool)
	siteRepo := postgres.NewSiteRepository(pool)

	existing, err := personRepo.GetByEmail(email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "consultar admin: %v\n", err)
		os.Exit(1)
	}
	if existing != nil {
		fmt.Printf("el admin %s ya existe, nada que hacer\n", email)
		return
	}

	// Sede de demostración (coordenadas del centro de Bogotá).
	var siteID string
	sites, err := siteRepo.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "listar sedes: %v\n", err)
		os.Exit(1)
	}
	if len(sites) > 0 {
		siteID = sites[0].ID
	} else {
		siteID = uuid.New().String()
		_, err = pool.Exec(ctx, `
			INSERT INTO sites (id, name, address, latitude, longitude, radius_m, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
			siteID, "Sede Principal", "Cra 7 # 32-16, Bogotá", 4.6243, -74.0636, 150.0,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "crear sede: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("sede de demostración creada")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash de contraseña: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	id := uuid.New().String()
	admin := &entity.Person{
		ID:           id,
		Name:         "Administrador",
		Email:        email,
		PasswordHash: string(hash),
		RawRole:      "administrador",
		Active:       true,
		SiteID:       siteID,
		SubjectID:    id,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := personRepo.Create(admin); err != nil {
		fmt.Fprintf(os.Stderr, "crear admin: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("admin %s creado\n", email)
}
