package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	backoffice "github.com/bohemiyan/backoffice"
)

// Permissions serves the /api/permissions endpoints.
type Permissions struct {
	svc *backoffice.Service
}

func NewPermissions(svc *backoffice.Service) *Permissions {
	return &Permissions{svc: svc}
}

func (h *Permissions) List(c *fiber.Ctx) error {
	perms, err := h.svc.ListPermissions(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": perms, "count": len(perms)})
}

func (h *Permissions) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	perm, err := h.svc.GetPermission(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": perm})
}

func (h *Permissions) Create(c *fiber.Ctx) error {
	var in backoffice.PermissionInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	perm, err := h.svc.CreatePermission(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "permission created",
		"data":    perm,
	})
}

// Update reports a cascade failure as a warning on an otherwise successful
// response: the primary rename committed, only the reference rewrite failed.
func (h *Permissions) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var in backoffice.PermissionInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}

	perm, err := h.svc.UpdatePermission(c.Context(), id, in)
	var cascade *backoffice.CascadeError
	if errors.As(err, &cascade) {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "permission updated",
			"warning": cascade.Error(),
			"data":    perm,
		})
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "permission updated",
		"data":    perm,
	})
}

func (h *Permissions) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	err = h.svc.DeletePermission(c.Context(), id)
	var cascade *backoffice.CascadeError
	if errors.As(err, &cascade) {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "permission deleted",
			"warning": cascade.Error(),
		})
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "permission deleted"})
}
