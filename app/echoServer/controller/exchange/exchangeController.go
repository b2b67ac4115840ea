package exchange

import (
	"log/slog"
	"net/http"

	"bookswap/app/echoServer/jwtx"
	"bookswap/model"
	es "bookswap/service/exchange"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc es.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/exchanges
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateExchangeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid := jwtx.UserID(c)

	out, err := h.Svc.Request(c.Request().Context(), uid, req.BookID, req.Message, req.OfferedBookID)
	if err != nil {
		return h.mapErr(c, "exchange create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// POST /v1/exchanges/:id/respond
func (h *Controller) Respond(c echo.Context) error {
	var req model.RespondExchangeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid := jwtx.UserID(c)

	if err := h.Svc.Respond(c.Request().Context(), uid, c.Param("id"), *req.Accept); err != nil {
		return h.mapErr(c, "exchange respond", err)
	}
	verdict := "rejected"
	if *req.Accept {
		verdict = "accepted"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": verdict})
}

// POST /v1/exchanges/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	uid := jwtx.UserID(c)
	if err := h.Svc.Cancel(c.Request().Context(), uid, c.Param("id")); err != nil {
		return h.mapErr(c, "exchange cancel", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cancelled"})
}

// POST /v1/exchanges/:id/done
func (h *Controller) MarkDone(c echo.Context) error {
	uid := jwtx.UserID(c)
	if err := h.Svc.MarkDone(c.Request().Context(), uid, c.Param("id")); err != nil {
		return h.mapErr(c, "exchange done", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "done"})
}

// GET /v1/exchanges/incoming
func (h *Controller) Incoming(c echo.Context) error {
	rows, err := h.Svc.Incoming(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		h.Log.Error("exchange incoming", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/exchanges/outgoing
func (h *Controller) Outgoing(c echo.Context) error {
	rows, err := h.Svc.Outgoing(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		h.Log.Error("exchange outgoing", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

func (h *Controller) mapErr(c echo.Context, op string, err error) error {
	switch es.Code(err) {
	case es.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	case es.ErrNotAuthorized:
		return c.JSON(http.StatusForbidden, echo.Map{"message": err.Error()})
	case es.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
