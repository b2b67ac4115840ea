// Package main bookswap API.
//
// @title           bookswap API
// @version         1.0
// @description     peer-to-peer book exchange (listings, search, exchanges, ratings, subscription).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"bookswap/app/echoServer"
	authctrl "bookswap/app/echoServer/controller/auth"
	bookctrl "bookswap/app/echoServer/controller/book"
	exchangectrl "bookswap/app/echoServer/controller/exchange"
	ratingctrl "bookswap/app/echoServer/controller/rating"
	subctrl "bookswap/app/echoServer/controller/subscription"
	"bookswap/app/echoServer/validation"
	"bookswap/config"
	bookrepo "bookswap/repository/book"
	exchangerepo "bookswap/repository/exchange"
	messagingrepo "bookswap/repository/messaging"
	ratingrepo "bookswap/repository/rating"
	striperepo "bookswap/repository/stripe"
	userrepo "bookswap/repository/user"
	authsvc "bookswap/service/auth"
	booksvc "bookswap/service/book"
	exchangesvc "bookswap/service/exchange"
	ratingsvc "bookswap/service/rating"
	searchsvc "bookswap/service/search"
	subsvc "bookswap/service/subscription"
	"bookswap/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	br := bookrepo.New(db)
	er := exchangerepo.New(db)
	rr := ratingrepo.New(db)
	mr := messagingrepo.New(db)
	sr := striperepo.NewHTTP(cfg.StripeSecretKey)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	bs := booksvc.New(br)
	ss := searchsvc.New(br, ur, log)
	es := exchangesvc.New(er, br, mr, log)
	rs := ratingsvc.New(rr)
	subs := subsvc.New(ur, sr, cfg.StripePriceID, cfg.AppBaseURL, log)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, Searcher: ss, Exchange: es, V: v, Log: log}
	exchangeC := &exchangectrl.Controller{Svc: es, V: v, Log: log}
	ratingC := &ratingctrl.Controller{Svc: rs, V: v, Log: log}
	subC := &subctrl.Controller{Svc: subs, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:         authC,
		Book:         bookC,
		Exchange:     exchangeC,
		Rating:       ratingC,
		Subscription: subC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
