package echoServer

import (
	"net/http"

	authctrl "bookswap/app/echoServer/controller/auth"
	bookctrl "bookswap/app/echoServer/controller/book"
	exchangectrl "bookswap/app/echoServer/controller/exchange"
	ratingctrl "bookswap/app/echoServer/controller/rating"
	subctrl "bookswap/app/echoServer/controller/subscription"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth         *authctrl.Controller
	Book         *bookctrl.Controller
	Exchange     *exchangectrl.Controller
	Rating       *ratingctrl.Controller
	Subscription *subctrl.Controller
	JWTSecret    string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// payment webhook
	pub.POST("/payment/stripe", c.Subscription.HandleStripe)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	auth.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tokenObj := ctx.Get("user")
			if tokenObj == nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			tok, ok := tokenObj.(*jwt.Token)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			sub, ok := claims["sub"].(string)
			if !ok || sub == "" {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", sub)
			return next(ctx)
		}
	})

	// Books
	auth.GET("/books", c.Book.List)
	auth.GET("/books/mine", c.Book.Mine)
	auth.GET("/books/search", c.Book.Search)
	auth.GET("/books/recommendations", c.Book.Recommendations)
	auth.GET("/books/recent", c.Book.Recent)
	auth.GET("/books/popular", c.Book.Popular)
	auth.GET("/books/:id", c.Book.Detail)
	auth.GET("/books/:id/related", c.Book.Related)
	auth.POST("/books", c.Book.Create)
	auth.PATCH("/books/:id", c.Book.Update)
	auth.DELETE("/books/:id", c.Book.Delete)
	auth.POST("/books/:id/availability", c.Book.ToggleAvailability)
	auth.GET("/genres", c.Book.Genres)
	auth.GET("/genres/:genre/books", c.Book.ByGenre)

	// Exchanges
	auth.POST("/exchanges", c.Exchange.Create)
	auth.POST("/exchanges/:id/respond", c.Exchange.Respond)
	auth.POST("/exchanges/:id/cancel", c.Exchange.Cancel)
	auth.POST("/exchanges/:id/done", c.Exchange.MarkDone)
	auth.GET("/exchanges/incoming", c.Exchange.Incoming)
	auth.GET("/exchanges/outgoing", c.Exchange.Outgoing)

	// Ratings
	auth.POST("/users/:id/ratings", c.Rating.Rate)
	auth.GET("/users/:id/ratings", c.Rating.List)

	// Subscription
	auth.GET("/subscription", c.Subscription.Status)
	auth.POST("/subscription/checkout", c.Subscription.CreateCheckout)
}
