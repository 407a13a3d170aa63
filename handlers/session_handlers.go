package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"merchantassistant/database"
	"merchantassistant/middleware"
	"merchantassistant/models"
)

// HandleCreateSession issues a token bound to the chosen merchant. When an
// access key hash is configured the request must carry the matching key.
func (h *Handler) HandleCreateSession(c *fiber.Ctx) error {
	if len(h.opts.JWTSecret) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "Sessions are not enabled"})
	}

	var req models.SessionRequest
	if err := h.bind(c, &req); err != nil {
		return h.respondError(c, err)
	}

	if h.opts.AccessKeyHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(h.opts.AccessKeyHash), []byte(req.AccessKey)); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Invalid access key"})
		}
	}

	var name string
	err := h.store.Session(c.UserContext(), func(repo database.Repository) error {
		var err error
		name, err = repo.MerchantName(c.UserContext(), req.MerchantID)
		return err
	})
	if err != nil {
		return h.respondError(c, err)
	}

	token, expiresAt, err := middleware.IssueToken(h.opts.JWTSecret, req.MerchantID, h.opts.SessionTTL, time.Now())
	if err != nil {
		h.log.WithError(err).Error("Failed to issue session token")
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Failed to create session"})
	}

	h.log.WithField("merchant_id", req.MerchantID).Info("Session issued")
	return c.Status(fiber.StatusCreated).JSON(models.SessionResponse{
		Token:        token,
		ExpiresAt:    expiresAt,
		MerchantID:   req.MerchantID,
		MerchantName: name,
	})
}
