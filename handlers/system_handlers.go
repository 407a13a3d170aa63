package handlers

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"

	"merchantassistant/models"
)

// Health reports liveness and whether the database answers a ping.
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.store.Ping(c.UserContext()); err != nil {
		h.log.WithError(err).Warn("Database ping failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.HealthResponse{
			Status:   "degraded",
			Message:  "Merchant Assistant API is running",
			Database: "unreachable",
		})
	}
	return c.JSON(models.HealthResponse{
		Status:   "ok",
		Message:  "Merchant Assistant API is running",
		Database: "ok",
	})
}

// Version prints the build information of the running binary.
func (h *Handler) Version(c *fiber.Ctx) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("no build information available")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
	return c.SendString("<pre>\n" + info.String() + "</pre>\n")
}
