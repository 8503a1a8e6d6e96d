package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kostku_backend/internals/features/tenants/tenants/dto"
	"kostku_backend/internals/features/tenants/tenants/repository"
	helper "kostku_backend/internals/helpers"
)

type TenantController struct {
	Repo      *repository.TenantRepository
	Validator *validator.Validate
}

func NewTenantController(repo *repository.TenantRepository) *TenantController {
	return &TenantController{Repo: repo, Validator: validator.New()}
}

// POST /tenants
func (h *TenantController) Create(c *fiber.Ctx) error {
	var req dto.CreateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	req.Normalize()
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := h.Repo.Create(c.UserContext(), m); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "tenant created", dto.FromModel(m))
}

// GET /tenants/:id
func (h *TenantController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	m, err := h.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

// GET /tenants?property_id=&room_id=&active=&q=&page=&per_page=
func (h *TenantController) List(c *fiber.Ctx) error {
	var f repository.ListFilter
	if s := strings.TrimSpace(c.Query("property_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid property_id")
		}
		f.PropertyID = &id
	}
	if s := strings.TrimSpace(c.Query("room_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid room_id")
		}
		f.RoomID = &id
	}
	f.ActiveOnly = strings.EqualFold(c.Query("active"), "true")
	f.Search = strings.TrimSpace(c.Query("q"))

	p := helper.ResolvePaging(c, 20, 200)
	rows, total, err := h.Repo.List(c.UserContext(), f, p.Offset, p.Limit)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPagination(total, p, len(rows)))
}
