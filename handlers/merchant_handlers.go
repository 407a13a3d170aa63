package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"merchantassistant/analytics"
	"merchantassistant/database"
	"merchantassistant/models"
	"merchantassistant/utils"
)

const (
	topProductsLimit     = 10
	defaultKeywordsLimit = 20
	maxKeywordsLimit     = 100
)

// HandleListMerchants returns one page of merchants for the merchant picker.
func (h *Handler) HandleListMerchants(c *fiber.Ctx) error {
	page, err := utils.ParseIntParam(c.Query("page"), 1)
	if err != nil {
		return h.respondError(c, fmt.Errorf("%w: page must be an integer", analytics.ErrInvalidInput))
	}
	pageSize, err := utils.ParseIntParam(c.Query("page_size"), utils.DefaultPageSize)
	if err != nil {
		return h.respondError(c, fmt.Errorf("%w: page_size must be an integer", analytics.ErrInvalidInput))
	}
	page, pageSize = utils.NormalizePage(page, pageSize)

	var resp models.MerchantsResponse
	err = h.store.Session(c.UserContext(), func(repo database.Repository) error {
		merchants, total, err := repo.ListMerchants(c.UserContext(), pageSize, utils.Offset(page, pageSize))
		if err != nil {
			return err
		}
		resp = models.MerchantsResponse{
			Merchants:  merchants,
			Pagination: utils.CreatePagination(total, page, pageSize),
		}
		return nil
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(resp)
}

// HandleGetMerchantSummary returns lifetime totals for one merchant.
func (h *Handler) HandleGetMerchantSummary(c *fiber.Ctx) error {
	merchantID := c.Params("merchantId")

	var summary models.MerchantSummary
	err := h.store.Session(c.UserContext(), func(repo database.Repository) error {
		var err error
		summary, err = repo.MerchantSummary(c.UserContext(), merchantID)
		return err
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(summary)
}

// HandleGetDailySales returns the per-day sales series for the last ?days=.
func (h *Handler) HandleGetDailySales(c *fiber.Ctx) error {
	merchantID := c.Params("merchantId")
	w, err := h.window(c, 30)
	if err != nil {
		return h.respondError(c, err)
	}

	resp := models.DailySalesResponse{MerchantID: merchantID, Days: w.Days}
	err = h.store.Session(c.UserContext(), func(repo database.Repository) error {
		if _, err := repo.MerchantName(c.UserContext(), merchantID); err != nil {
			return err
		}
		_, from, to := w.Bounds()
		var err error
		resp.Sales, err = repo.DailySales(c.UserContext(), merchantID, from, to)
		return err
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(resp)
}

// HandleGetSalesMetrics compares the last ?days= with the period before.
func (h *Handler) HandleGetSalesMetrics(c *fiber.Ctx) error {
	merchantID := c.Params("merchantId")
	w, err := h.window(c, 30)
	if err != nil {
		return h.respondError(c, err)
	}

	var current, previous models.SalesTotals
	err = h.store.Session(c.UserContext(), func(repo database.Repository) error {
		if _, err := repo.MerchantName(c.UserContext(), merchantID); err != nil {
			return err
		}
		previousFrom, from, to := w.Bounds()
		var err error
		if current, err = repo.SalesTotals(c.UserContext(), merchantID, from, to); err != nil {
			return err
		}
		previous, err = repo.SalesTotals(c.UserContext(), merchantID, previousFrom, from)
		return err
	})
	if err != nil {
		return h.respondError(c, err)
	}

	resp := models.SalesMetrics{
		MerchantID:    merchantID,
		Days:          w.Days,
		TotalSales:    utils.RoundMoney(current.TotalSales),
		TotalOrders:   current.TotalOrders,
		PreviousSales: utils.RoundMoney(previous.TotalSales),
		SalesChange:   analytics.PercentChange(current.TotalSales, previous.TotalSales),
	}
	if current.TotalOrders > 0 {
		resp.AvgOrderValue = analytics.Some(utils.RoundMoney(current.TotalSales / float64(current.TotalOrders)))
	}
	if !resp.SalesChange.Valid {
		resp.SalesChangeNote = analytics.NoteNoPreviousSales
	}
	return c.JSON(resp)
}

// HandleGetTopProducts returns the ten items with the highest revenue.
func (h *Handler) HandleGetTopProducts(c *fiber.Ctx) error {
	merchantID := c.Params("merchantId")

	var products []models.TopProduct
	err := h.store.Session(c.UserContext(), func(repo database.Repository) error {
		if _, err := repo.MerchantName(c.UserContext(), merchantID); err != nil {
			return err
		}
		var err error
		products, err = repo.TopProducts(c.UserContext(), merchantID, topProductsLimit)
		return err
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"merchant_id": merchantID, "products": products})
}

// HandleGetItemPerformance returns every menu item with orders and revenue.
func (h *Handler) HandleGetItemPerformance(c *fiber.Ctx) error {
	merchantID := c.Params("merchantId")

	resp := models.ItemPerformanceResponse{MerchantID: merchantID}
	err := h.store.Session(c.UserContext(), func(repo database.Repository) error {
		if _, err := repo.MerchantName(c.UserContext(), merchantID); err != nil {
			return err
		}
		var err error
		resp.Items, err = repo.ItemPerformance(c.UserContext(), merchantID)
		return err
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(resp)
}

// HandleGetKeywords returns the search keyword funnel. The data is platform
// wide, which the response states with scoped=false.
func (h *Handler) HandleGetKeywords(c *fiber.Ctx) error {
	merchantID := c.Params("merchantId")
	limit, err := utils.ParseIntParam(c.Query("limit"), defaultKeywordsLimit)
	if err != nil || limit < 1 || limit > maxKeywordsLimit {
		return h.respondError(c, fmt.Errorf("%w: limit must be between 1 and %d", analytics.ErrInvalidInput, maxKeywordsLimit))
	}

	resp := models.KeywordsResponse{
		Scoped: false,
		Note:   "keyword statistics are platform wide, not per merchant",
	}
	err = h.store.Session(c.UserContext(), func(repo database.Repository) error {
		if _, err := repo.MerchantName(c.UserContext(), merchantID); err != nil {
			return err
		}
		var err error
		resp.Keywords, err = repo.Keywords(c.UserContext(), limit)
		return err
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(resp)
}
