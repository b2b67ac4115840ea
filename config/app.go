package config

type App struct {
	Port            string `env:"APP_PORT" default:"8080"`
	DatabaseURL     string `env:"DATABASE_URL,required"`
	JWTSecret       string `env:"JWT_SECRET,required"`
	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`
	StripePriceID   string `env:"STRIPE_PRICE_ID"`
	AppBaseURL      string `env:"APP_BASE_URL" default:"http://localhost:8080"`
	Env             string `env:"APP_ENV" default:"dev"`
}
