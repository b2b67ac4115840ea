package subscriptionsvc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bookswap/model"
	striperepo "bookswap/repository/stripe"
	userrepo "bookswap/repository/user"
)

var ErrUserNotFound = errors.New("user not found")

// graceDays is the fallback subscription length when Stripe does not report
// a period end.
const graceDays = 30

type Status struct {
	Active  bool       `json:"active"`
	EndDate *time.Time `json:"end_date,omitempty"`
}

type Service interface {
	// Status reports whether the user's subscription is currently active.
	// An active row whose end date has passed is downgraded on read.
	Status(ctx context.Context, userID string) (*Status, error)

	// CreateCheckout returns a Stripe checkout URL for the subscription.
	CreateCheckout(ctx context.Context, userID string) (string, error)

	// HandleStripe processes a checkout webhook and activates the paying
	// user's subscription.
	HandleStripe(ctx context.Context, sigHeader string, raw []byte) error
}

type service struct {
	ur      userrepo.Repo
	stripe  striperepo.Repo
	priceID string
	baseURL string
	log     *slog.Logger
}

func New(ur userrepo.Repo, st striperepo.Repo, priceID, baseURL string, log *slog.Logger) Service {
	return &service{ur: ur, stripe: st, priceID: priceID, baseURL: baseURL, log: log}
}

func (s *service) Status(ctx context.Context, userID string) (*Status, error) {
	u, err := s.ur.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	active := u.SubscriptionStatus == model.SubActive
	if active && u.SubscriptionEndDate != nil && u.SubscriptionEndDate.Before(time.Now()) {
		active = false
		if err := s.ur.UpdateSubscription(ctx, userID, model.SubInactive, u.SubscriptionEndDate, nil, nil); err != nil {
			s.log.Error("subscription downgrade failed", "user_id", userID, "err", err)
		}
	}
	return &Status{Active: active, EndDate: u.SubscriptionEndDate}, nil
}

func (s *service) CreateCheckout(ctx context.Context, userID string) (string, error) {
	if _, err := s.ur.ByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	resp, err := s.stripe.CreateCheckoutSession(striperepo.CreateCheckoutReq{
		PriceID:     s.priceID,
		CustomerRef: userID,
		SuccessURL:  s.baseURL + "/subscription/success",
		CancelURL:   s.baseURL + "/subscription",
	})
	if err != nil {
		return "", err
	}
	return resp.CheckoutURL, nil
}

type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ClientReferenceID string `json:"client_reference_id"`
			Customer          string `json:"customer"`
			Subscription      string `json:"subscription"`
		} `json:"object"`
	} `json:"data"`
}

func (s *service) HandleStripe(ctx context.Context, sigHeader string, raw []byte) error {
	if err := s.stripe.VerifyCallbackSignature(sigHeader, raw); err != nil {
		return err
	}

	var ev stripeEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("bad webhook json: %w", err)
	}
	if ev.Type != "checkout.session.completed" {
		return nil
	}
	obj := ev.Data.Object
	if obj.ClientReferenceID == "" {
		return errors.New("missing client_reference_id")
	}

	end := time.Now().AddDate(0, 0, graceDays)
	if obj.Subscription != "" {
		if sub, err := s.stripe.GetSubscription(obj.Subscription); err != nil {
			s.log.Error("stripe subscription lookup failed", "subscription_id", obj.Subscription, "err", err)
		} else if sub.CurrentPeriodEnd > 0 {
			end = time.Unix(sub.CurrentPeriodEnd, 0)
		}
	}

	var custID, subID *string
	if obj.Customer != "" {
		custID = &obj.Customer
	}
	if obj.Subscription != "" {
		subID = &obj.Subscription
	}
	return s.ur.UpdateSubscription(ctx, obj.ClientReferenceID, model.SubActive, &end, custID, subID)
}
