package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/subscriber-service/internal/auth"
	"github.com/spec-kit/subscriber-service/internal/repository"
	"github.com/spec-kit/subscriber-service/internal/schema"
	"github.com/spec-kit/subscriber-service/pkg/util"
)

// UsersHandler exposes user registration and per-user preference CRUD.
type UsersHandler struct {
	prefs repository.PreferenceRepository
}

// NewUsersHandler constructs handler.
func NewUsersHandler(prefs repository.PreferenceRepository) *UsersHandler {
	return &UsersHandler{prefs: prefs}
}

// List handles GET /users. Admin only; returns every user identifier.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	if err := auth.RequireAdmin(auth.PrincipalFromContext(c)); err != nil {
		return err
	}

	users, err := h.prefs.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// Create handles POST /users. Admin only; the body is the raw user
// identifier. The collection's unique index is the conflict oracle.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	if err := auth.RequireAdmin(auth.PrincipalFromContext(c)); err != nil {
		return err
	}

	user := string(c.Body())
	if user == "" {
		return util.NewValidationError("user identifier required", nil)
	}

	if err := h.prefs.Create(c.UserContext(), user); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Get handles GET /users/:user. Owner or admin.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user := c.Params("user")
	if err := auth.RequireOwnerOrAdmin(auth.PrincipalFromContext(c), user); err != nil {
		return err
	}

	doc, err := h.prefs.Get(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

// Replace handles PUT /users/:user. Owner or admin; the body must pass the
// preference schema and fully replaces the stored preference body.
func (h *UsersHandler) Replace(c *fiber.Ctx) error {
	user := c.Params("user")
	if err := auth.RequireOwnerOrAdmin(auth.PrincipalFromContext(c), user); err != nil {
		return err
	}

	var doc map[string]any
	if err := json.Unmarshal(c.Body(), &doc); err != nil || doc == nil {
		return util.NewValidationError("body must be a json object", nil)
	}
	if err := schema.Validate(doc); err != nil {
		return err
	}

	sub, notif := schema.Normalize(doc)
	if err := h.prefs.Replace(c.UserContext(), user, sub, notif); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete handles DELETE /users/:user. Owner or admin.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	user := c.Params("user")
	if err := auth.RequireOwnerOrAdmin(auth.PrincipalFromContext(c), user); err != nil {
		return err
	}

	if err := h.prefs.Delete(c.UserContext(), user); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
