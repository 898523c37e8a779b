package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/subscriber-service/internal/repository"
	"github.com/spec-kit/subscriber-service/internal/upstream"
)

// CatalogHandler serves the open endpoints backed by the upstream catalog.
type CatalogHandler struct {
	catalog upstream.CatalogClient
	prefs   repository.PreferenceRepository
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog upstream.CatalogClient, prefs repository.PreferenceRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, prefs: prefs}
}

// Vtubers handles GET /vtubers, proxying the upstream catalog verbatim.
func (h *CatalogHandler) Vtubers(c *fiber.Ctx) error {
	raw, _, err := h.catalog.Catalog(c.UserContext())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}

// Stats handles GET /stats: the catalog entry count plus the estimated
// subscriber count.
func (h *CatalogHandler) Stats(c *fiber.Ctx) error {
	_, vtubers, err := h.catalog.Catalog(c.UserContext())
	if err != nil {
		return err
	}

	subscribers, err := h.prefs.Count(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"vtubers":     vtubers,
		"subscribers": subscribers,
	})
}
