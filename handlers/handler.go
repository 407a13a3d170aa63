package handlers

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"merchantassistant/analytics"
	"merchantassistant/assistant"
	"merchantassistant/database"
	"merchantassistant/models"
	"merchantassistant/utils"
)

// Store is the database as seen by the handlers.
type Store interface {
	Session(ctx context.Context, fn func(database.Repository) error) error
	Ping(ctx context.Context) error
}

// Options carries the configuration the handlers depend on.
type Options struct {
	// Now is the reference time for analytics windows.
	Now func() time.Time

	JWTSecret     []byte
	SessionTTL    time.Duration
	AccessKeyHash string

	// Narrator is nil when the Gemini summary is not configured.
	Narrator assistant.Narrator
}

// Handler serves every API endpoint.
type Handler struct {
	store    Store
	log      *logrus.Logger
	validate *validator.Validate
	opts     Options
}

// New builds a Handler.
func New(store Store, log *logrus.Logger, opts Options) *Handler {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		store:    store,
		log:      log,
		validate: validate,
		opts:     opts,
	}
}

// respondError maps the analytics error kinds to HTTP statuses. Data access
// failures are logged and reported without their cause.
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, analytics.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, analytics.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "Merchant not found"})
	}

	h.log.WithFields(logrus.Fields{
		"path":        c.Path(),
		"merchant_id": c.Params("merchantId"),
	}).WithError(err).Error("Failed to fetch merchant data")
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Failed to fetch merchant data"})
}

// window reads ?days= with the given default and validates it.
func (h *Handler) window(c *fiber.Ctx, defaultDays int) (analytics.Window, error) {
	days, err := utils.ParseIntParam(c.Query("days"), defaultDays)
	if err != nil {
		return analytics.Window{}, fmt.Errorf("%w: days must be an integer", analytics.ErrInvalidInput)
	}
	return analytics.NewWindow(days, h.opts.Now())
}

// bind parses and validates a JSON body.
func (h *Handler) bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: cannot parse JSON body", analytics.ErrInvalidInput)
	}
	if err := h.validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s is %s", analytics.ErrInvalidInput, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", analytics.ErrInvalidInput, err)
	}
	return nil
}
