package model

import "time"

type SubscriptionStatus string

const (
	SubActive   SubscriptionStatus = "active"
	SubInactive SubscriptionStatus = "inactive"
)

type User struct {
	ID                   string             `json:"id"`
	Username             string             `json:"username"`
	Email                string             `json:"email"`
	PasswordHash         string             `json:"-"`
	AvatarURL            string             `json:"avatar_url,omitempty"`
	PhoneNumber          string             `json:"phone_number,omitempty"`
	LocationCity         string             `json:"location_city,omitempty"`
	Latitude             *float64           `json:"latitude,omitempty"`
	Longitude            *float64           `json:"longitude,omitempty"`
	SubscriptionStatus   SubscriptionStatus `json:"subscription_status"`
	SubscriptionEndDate  *time.Time         `json:"subscription_end_date,omitempty"`
	StripeCustomerID     *string            `json:"-"`
	StripeSubscriptionID *string            `json:"-"`
	CreatedAt            time.Time          `json:"created_at"`
}

// RegisterReq represents user registration payload
// swagger:model RegisterReq
type RegisterReq struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginReq represents login payload
// swagger:model LoginReq
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
