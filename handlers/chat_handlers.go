package handlers

import (
	"github.com/gofiber/fiber/v2"

	"merchantassistant/analytics"
	"merchantassistant/database"
	"merchantassistant/middleware"
	"merchantassistant/models"
)

// HandleChat answers a free-text question about one merchant.
func (h *Handler) HandleChat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := h.bind(c, &req); err != nil {
		return h.respondError(c, err)
	}
	if !middleware.Authorized(c, req.MerchantID) {
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse{Error: "Token is not valid for this merchant"})
	}

	var reply analytics.ChatReply
	err := h.store.Session(c.UserContext(), func(repo database.Repository) error {
		var err error
		reply, err = analytics.Respond(c.UserContext(), repo, analytics.ChatQuery{
			MerchantID: req.MerchantID,
			Message:    req.Message,
			AsOf:       h.opts.Now(),
		})
		return err
	})
	if err != nil {
		return h.respondError(c, err)
	}

	middleware.ObserveIntent(string(reply.Intent))
	return c.JSON(reply)
}
