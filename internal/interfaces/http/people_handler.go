package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jcastano/retail-ops-api/internal/application/auth"
	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/application/people"
	"github.com/jcastano/retail-ops-api/internal/domain"
)

// PeopleHandler maneja el aprovisionamiento de personas (protegido, admin).
type PeopleHandler struct {
	uc *people.PeopleUseCase
}

// NewPeopleHandler construye el handler.
func NewPeopleHandler(uc *people.PeopleUseCase) *PeopleHandler {
	return &PeopleHandler{uc: uc}
}

// Create da de alta una persona.
// POST /api/people
func (h *PeopleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePersonRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.Create(in)
	if err != nil {
		return peopleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(auth.ToPersonResponse(p))
}

// Update edita nombre, rol o sede de una persona.
// PUT /api/people/:id
func (h *PeopleHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdatePersonRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.Update(id, in)
	if err != nil {
		return peopleError(c, err)
	}
	return c.JSON(auth.ToPersonResponse(p))
}

// Deactivate desactiva una persona. Las personas nunca se borran: sus registros
// históricos (pedidos, rutas, asistencia) siguen referenciándola.
// DELETE /api/people/:id
func (h *PeopleHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Params("id")); err != nil {
		return peopleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List lista personas con paginación.
// GET /api/people?limit=&offset=
func (h *PeopleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.uc.List(page)
	if err != nil {
		return peopleError(c, err)
	}
	result := make([]*dto.PersonResponse, 0, len(out))
	for _, p := range out {
		result = append(result, auth.ToPersonResponse(p))
	}
	return c.JSON(result)
}

func peopleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrPersonNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "persona no encontrada"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "almacén no disponible, intente más tarde"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
