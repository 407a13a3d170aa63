package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"

	"merchantassistant/models"
)

// Authorized reports whether the request may act for merchantID. Requests
// that went through no JWT check carry no merchant and are allowed.
func Authorized(c *fiber.Ctx, merchantID string) bool {
	tokenMerchant, ok := c.Locals(LocalMerchantID).(string)
	if !ok {
		return true
	}
	return tokenMerchant == merchantID
}

// MerchantRequired rejects requests whose token is bound to a different
// merchant than the :merchantId route parameter.
func MerchantRequired(c *fiber.Ctx) error {
	if !Authorized(c, c.Params("merchantId")) {
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse{Error: "Token is not valid for this merchant"})
	}
	return c.Next()
}

// RequestLogger writes one structured line per request.
func RequestLogger(log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		entry := log.WithFields(logrus.Fields{
			"request_id": c.Locals(requestid.ConfigDefault.ContextKey),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.IP(),
		})
		if merchantID, ok := c.Locals(LocalMerchantID).(string); ok {
			entry = entry.WithField("merchant_id", merchantID)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("request failed")
		case status >= fiber.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
		return err
	}
}
