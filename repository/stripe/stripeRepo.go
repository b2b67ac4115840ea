package striperepo

type CreateCheckoutReq struct {
	PriceID     string
	CustomerRef string // our user id, echoed back in the webhook
	SuccessURL  string
	CancelURL   string
}

type CreateCheckoutResp struct {
	SessionID   string
	CheckoutURL string
}

type Subscription struct {
	ID               string
	CustomerID       string
	Status           string
	CurrentPeriodEnd int64
}

type Repo interface {
	CreateCheckoutSession(req CreateCheckoutReq) (*CreateCheckoutResp, error)
	GetSubscription(subscriptionID string) (*Subscription, error)
	VerifyCallbackSignature(sigHeader string, rawBody []byte) error
}
