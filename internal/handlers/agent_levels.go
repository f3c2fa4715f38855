package handlers

import (
	"github.com/gofiber/fiber/v2"

	backoffice "github.com/bohemiyan/backoffice"
)

// AgentLevels serves the /api/agent-levels endpoints.
type AgentLevels struct {
	svc *backoffice.Service
}

func NewAgentLevels(svc *backoffice.Service) *AgentLevels {
	return &AgentLevels{svc: svc}
}

func (h *AgentLevels) List(c *fiber.Ctx) error {
	levels, err := h.svc.ListAgentLevels(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": levels, "count": len(levels)})
}

func (h *AgentLevels) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	level, err := h.svc.GetAgentLevel(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": level})
}

func (h *AgentLevels) Create(c *fiber.Ctx) error {
	var in backoffice.AgentLevelInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	level, err := h.svc.CreateAgentLevel(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "agent level created",
		"data":    level,
	})
}

func (h *AgentLevels) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var in backoffice.AgentLevelInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	level, err := h.svc.UpdateAgentLevel(c.Context(), id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "agent level updated",
		"data":    level,
	})
}

func (h *AgentLevels) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.svc.DeleteAgentLevel(c.Context(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "agent level deleted"})
}

type reorderRequest struct {
	NewOrder int `json:"newOrder"`
}

func (h *AgentLevels) Reorder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req reorderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	level, err := h.svc.SetHierarchyOrder(c.Context(), id, req.NewOrder)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "hierarchy order updated",
		"data":    level,
	})
}

func (h *AgentLevels) ValidateOrder(c *fiber.Ctx) error {
	report, err := h.svc.ValidateHierarchyOrder(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": report, "valid": report.Valid()})
}
