package subscription

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"bookswap/app/echoServer/jwtx"
	subsvc "bookswap/service/subscription"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc subsvc.Service
	Log *slog.Logger
}

// GET /v1/subscription
func (h *Controller) Status(c echo.Context) error {
	st, err := h.Svc.Status(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		if errors.Is(err, subsvc.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		}
		h.Log.Error("subscription status", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, st)
}

// POST /v1/subscription/checkout
func (h *Controller) CreateCheckout(c echo.Context) error {
	url, err := h.Svc.CreateCheckout(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		if errors.Is(err, subsvc.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		}
		h.Log.Error("create checkout", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"checkout_url": url})
}

// POST /v1/payment/stripe (webhook)
func (h *Controller) HandleStripe(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad body"})
	}
	sig := c.Request().Header.Get("Stripe-Signature")

	if err := h.Svc.HandleStripe(c.Request().Context(), sig, raw); err != nil {
		h.Log.Error("stripe webhook", "err", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "webhook rejected"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}
