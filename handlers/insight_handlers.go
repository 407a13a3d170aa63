package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"merchantassistant/analytics"
	"merchantassistant/database"
	"merchantassistant/middleware"
	"merchantassistant/models"
)

func (h *Handler) extract(c *fiber.Ctx, merchantID string, w analytics.Window) (analytics.MerchantMetrics, error) {
	var m analytics.MerchantMetrics
	err := h.store.Session(c.UserContext(), func(repo database.Repository) error {
		var err error
		m, err = analytics.Extract(c.UserContext(), repo, merchantID, w)
		return err
	})
	return m, err
}

// HandleGetInsights returns the metrics snapshot and rule-based insights for
// the last ?days= (default 7).
func (h *Handler) HandleGetInsights(c *fiber.Ctx) error {
	merchantID := c.Params("merchantId")
	w, err := h.window(c, 7)
	if err != nil {
		return h.respondError(c, err)
	}

	m, err := h.extract(c, merchantID, w)
	if err != nil {
		return h.respondError(c, err)
	}

	insights := analytics.Evaluate(m)
	for _, in := range insights {
		middleware.ObserveInsight(string(in.Type))
	}
	h.log.WithFields(logrus.Fields{
		"merchant_id": merchantID,
		"days":        w.Days,
		"insights":    len(insights),
	}).Debug("Insights computed")

	return c.JSON(models.NewInsightsResponse(m, insights))
}

// HandleGetRecommendations returns recommendations and operational alerts for
// the last ?days= (default 30).
func (h *Handler) HandleGetRecommendations(c *fiber.Ctx) error {
	merchantID := c.Params("merchantId")
	w, err := h.window(c, 30)
	if err != nil {
		return h.respondError(c, err)
	}

	m, err := h.extract(c, merchantID, w)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(models.RecommendationsResponse{
		MerchantID:      m.MerchantID,
		MerchantName:    m.MerchantName,
		Days:            w.Days,
		AsOf:            w.AsOf,
		Recommendations: analytics.Recommend(m),
	})
}

// HandleGetInsightsSummary asks the configured model to narrate the insights.
// The connection is released before the model is called.
func (h *Handler) HandleGetInsightsSummary(c *fiber.Ctx) error {
	if h.opts.Narrator == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{Error: "AI summary is not configured"})
	}

	merchantID := c.Params("merchantId")
	w, err := h.window(c, 7)
	if err != nil {
		return h.respondError(c, err)
	}

	m, err := h.extract(c, merchantID, w)
	if err != nil {
		return h.respondError(c, err)
	}
	insights := analytics.Evaluate(m)

	summary, err := h.opts.Narrator.Summarize(c.UserContext(), m, insights)
	if err != nil {
		h.log.WithField("merchant_id", merchantID).WithError(err).Error("Failed to generate summary")
		return c.Status(fiber.StatusBadGateway).JSON(models.ErrorResponse{Error: "Failed to generate summary"})
	}

	return c.JSON(models.NarrativeResponse{
		MerchantID: merchantID,
		Days:       w.Days,
		Model:      h.opts.Narrator.Model(),
		Summary:    summary,
		Insights:   insights,
	})
}
