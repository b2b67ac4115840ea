package rating

import (
	"errors"
	"log/slog"
	"net/http"

	"bookswap/app/echoServer/jwtx"
	"bookswap/model"
	ratingsvc "bookswap/service/rating"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc ratingsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/users/:id/ratings
func (h *Controller) Rate(c echo.Context) error {
	var req model.RateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid := jwtx.UserID(c)

	rt, err := h.Svc.Rate(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		if errors.Is(err, ratingsvc.ErrSelfRating) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "cannot rate yourself"})
		}
		h.Log.Error("rate user", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, rt)
}

// GET /v1/users/:id/ratings
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.ListForUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.Log.Error("list ratings", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
