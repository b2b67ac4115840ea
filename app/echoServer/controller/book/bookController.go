package book

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"bookswap/app/echoServer/jwtx"
	"bookswap/model"
	booksvc "bookswap/service/book"
	exchangesvc "bookswap/service/exchange"
	recommendsvc "bookswap/service/recommend"
	searchsvc "bookswap/service/search"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc      booksvc.Service
	Searcher searchsvc.Service
	Exchange exchangesvc.Service
	V        *validator.Validate
	Log      *slog.Logger
}

// GET /v1/books
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		h.Log.Error("book list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/mine
func (h *Controller) Mine(c echo.Context) error {
	rows, err := h.Svc.MyBooks(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		h.Log.Error("my books error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/:id
func (h *Controller) Detail(c echo.Context) error {
	row, err := h.Svc.ByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, booksvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		}
		h.Log.Error("book detail error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, row)
}

// POST /v1/books
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	b, err := h.Svc.Add(c.Request().Context(), jwtx.UserID(c), req)
	if err != nil {
		h.Log.Error("book create error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, b)
}

// PATCH /v1/books/:id
func (h *Controller) Update(c echo.Context) error {
	var req model.UpdateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	b, err := h.Svc.Update(c.Request().Context(), jwtx.UserID(c), c.Param("id"), req)
	if err != nil {
		return h.mapOwnerErr(c, "book update error", err)
	}
	return c.JSON(http.StatusOK, b)
}

// DELETE /v1/books/:id
func (h *Controller) Delete(c echo.Context) error {
	if err := h.Svc.Delete(c.Request().Context(), jwtx.UserID(c), c.Param("id")); err != nil {
		return h.mapOwnerErr(c, "book delete error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// POST /v1/books/:id/availability
func (h *Controller) ToggleAvailability(c echo.Context) error {
	var req ToggleAvailabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	if err := h.Svc.ToggleAvailability(c.Request().Context(), jwtx.UserID(c), c.Param("id"), *req.Available); err != nil {
		return h.mapOwnerErr(c, "toggle availability error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

func (h *Controller) mapOwnerErr(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, booksvc.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	case errors.Is(err, booksvc.ErrNotOwner):
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

// GET /v1/genres
func (h *Controller) Genres(c echo.Context) error {
	rows, err := h.Svc.Genres(c.Request().Context())
	if err != nil {
		h.Log.Error("genres error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/recent?limit=
func (h *Controller) Recent(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid limit"})
		}
		limit = n
	}
	rows, err := h.Svc.RecentlyAdded(c.Request().Context(), limit)
	if err != nil {
		h.Log.Error("recent books error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/popular?limit=
func (h *Controller) Popular(c echo.Context) error {
	limit := recommendsvc.DefaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid limit"})
		}
		limit = n
	}
	all, err := h.Svc.List(c.Request().Context(), "")
	if err != nil {
		h.Log.Error("popular books error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": recommendsvc.PopularBooks(all, limit)})
}

// GET /v1/books/:id/related
//
// Companion shelves for the book page: more by the same author and more in
// the same genre, excluding the book itself.
func (h *Controller) Related(c echo.Context) error {
	ctx := c.Request().Context()
	b, err := h.Svc.ByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, booksvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		}
		h.Log.Error("related books error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	all, err := h.Svc.List(ctx, "")
	if err != nil {
		h.Log.Error("related books error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	exclude := []string{b.ID}
	return c.JSON(http.StatusOK, echo.Map{
		"by_author": recommendsvc.BooksByAuthor(all, b.Author, exclude, recommendsvc.DefaultLimit),
		"by_genre":  recommendsvc.BooksByGenre(all, b.Genre, exclude, recommendsvc.DefaultLimit),
	})
}

// GET /v1/genres/:genre/books
func (h *Controller) ByGenre(c echo.Context) error {
	rows, err := h.Svc.ByGenre(c.Request().Context(), c.Param("genre"))
	if err != nil {
		h.Log.Error("books by genre error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/search?q=&genre=&mode=
func (h *Controller) Search(c echo.Context) error {
	rows := h.Searcher.SearchBooks(
		c.Request().Context(),
		jwtx.UserID(c),
		c.QueryParam("q"),
		c.QueryParam("genre"),
		searchsvc.ParseMode(c.QueryParam("mode")),
	)
	if rows == nil {
		rows = []model.Book{}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/recommendations?q=&genre=&limit=
func (h *Controller) Recommendations(c echo.Context) error {
	ctx := c.Request().Context()
	uid := jwtx.UserID(c)

	limit := recommendsvc.DefaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid limit"})
		}
		limit = n
	}

	all, err := h.Svc.List(ctx, uid)
	if err != nil {
		h.Log.Error("recommendations list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	// The user's own listings are excluded from their suggestions.
	mine, err := h.Svc.MyBooks(ctx, uid)
	if err != nil {
		h.Log.Error("recommendations own books error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	exclude := make([]string, 0, len(mine))
	for _, b := range mine {
		exclude = append(exclude, b.ID)
	}

	history, err := h.Exchange.RequestHistory(ctx, uid)
	if err != nil {
		h.Log.Error("recommendations history error", "err", err)
		history = nil
	}

	rows := recommendsvc.GetRecommendations(all, recommendsvc.Options{
		SearchQuery:        c.QueryParam("q"),
		CurrentGenre:       c.QueryParam("genre"),
		ExcludeBookIDs:     exclude,
		Limit:              limit,
		UserRequestHistory: history,
	})
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
