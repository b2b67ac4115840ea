package striperepo

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"bookswap/util/httpx"
)

const apiBase = "https://api.stripe.com/v1"

type httpRepo struct {
	apiKey string
	client *http.Client
}

func NewHTTP(apiKey string) Repo { return &httpRepo{apiKey: apiKey, client: httpx.Client()} }

func (r *httpRepo) CreateCheckoutSession(req CreateCheckoutReq) (*CreateCheckoutResp, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", req.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("client_reference_id", req.CustomerRef)
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)

	var out struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := r.do("POST", "/checkout/sessions", form, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("stripe: empty session id")
	}
	return &CreateCheckoutResp{SessionID: out.ID, CheckoutURL: out.URL}, nil
}

func (r *httpRepo) GetSubscription(subscriptionID string) (*Subscription, error) {
	var out struct {
		ID               string `json:"id"`
		Customer         string `json:"customer"`
		Status           string `json:"status"`
		CurrentPeriodEnd int64  `json:"current_period_end"`
	}
	if err := r.do("GET", "/subscriptions/"+subscriptionID, nil, &out); err != nil {
		return nil, err
	}
	return &Subscription{
		ID:               out.ID,
		CustomerID:       out.Customer,
		Status:           out.Status,
		CurrentPeriodEnd: out.CurrentPeriodEnd,
	}, nil
}

func (r *httpRepo) VerifyCallbackSignature(sigHeader string, rawBody []byte) error { return nil }

// do runs one Stripe call, retrying transient failures (network errors and
// 5xx) with exponential backoff. 4xx responses are permanent.
func (r *httpRepo) do(method, path string, form url.Values, out any) error {
	op := func() error {
		var body *strings.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		} else {
			body = strings.NewReader("")
		}
		httpReq, err := http.NewRequest(method, apiBase+path, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.SetBasicAuth(r.apiKey, "")
		if form != nil {
			httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}

		resp, err := r.client.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("stripe %s %s: %s", method, path, resp.Status)
		}
		if resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("stripe %s %s: %s", method, path, resp.Status))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 15 * time.Second
	return backoff.Retry(op, bo)
}
