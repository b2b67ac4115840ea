package subscriptionsvc

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"bookswap/model"
	striperepo "bookswap/repository/stripe"
	userrepo "bookswap/repository/user"

	"github.com/stretchr/testify/require"
)

type userRepoMock struct {
	byIDFn               func(ctx context.Context, id string) (*model.User, error)
	updateSubscriptionFn func(ctx context.Context, id string, status model.SubscriptionStatus,
		endDate *time.Time, customerID, subscriptionID *string) error
}

var _ userrepo.Repo = (*userRepoMock)(nil)

func (m *userRepoMock) Create(ctx context.Context, u *model.User) error { return nil }
func (m *userRepoMock) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, sql.ErrNoRows
}
func (m *userRepoMock) ByID(ctx context.Context, id string) (*model.User, error) {
	return m.byIDFn(ctx, id)
}
func (m *userRepoMock) SearchIDsByUsername(ctx context.Context, q string) ([]string, error) {
	return nil, nil
}
func (m *userRepoMock) UpdateSubscription(ctx context.Context, id string, status model.SubscriptionStatus,
	endDate *time.Time, customerID, subscriptionID *string) error {
	if m.updateSubscriptionFn == nil {
		return nil
	}
	return m.updateSubscriptionFn(ctx, id, status, endDate, customerID, subscriptionID)
}
func (m *userRepoMock) ByStripeCustomer(ctx context.Context, customerID string) (*model.User, error) {
	return nil, sql.ErrNoRows
}

type stripeMock struct {
	checkoutFn func(req striperepo.CreateCheckoutReq) (*striperepo.CreateCheckoutResp, error)
	getSubFn   func(subscriptionID string) (*striperepo.Subscription, error)
}

var _ striperepo.Repo = (*stripeMock)(nil)

func (m *stripeMock) CreateCheckoutSession(req striperepo.CreateCheckoutReq) (*striperepo.CreateCheckoutResp, error) {
	return m.checkoutFn(req)
}
func (m *stripeMock) GetSubscription(subscriptionID string) (*striperepo.Subscription, error) {
	if m.getSubFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.getSubFn(subscriptionID)
}
func (m *stripeMock) VerifyCallbackSignature(sigHeader string, rawBody []byte) error { return nil }

func testLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestStatus_LazyDowngrade(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	var downgraded bool
	ur := &userRepoMock{
		byIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{
				ID:                  id,
				SubscriptionStatus:  model.SubActive,
				SubscriptionEndDate: &past,
			}, nil
		},
		updateSubscriptionFn: func(ctx context.Context, id string, status model.SubscriptionStatus,
			endDate *time.Time, customerID, subscriptionID *string) error {
			downgraded = true
			require.Equal(t, model.SubInactive, status)
			return nil
		},
	}
	s := New(ur, &stripeMock{}, "price_1", "http://localhost", testLog())

	st, err := s.Status(context.Background(), "u1")
	require.NoError(t, err)
	require.False(t, st.Active)
	require.True(t, downgraded)
}

func TestStatus_ActiveWithFutureEnd(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	ur := &userRepoMock{
		byIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{
				ID:                  id,
				SubscriptionStatus:  model.SubActive,
				SubscriptionEndDate: &future,
			}, nil
		},
		updateSubscriptionFn: func(ctx context.Context, id string, status model.SubscriptionStatus,
			endDate *time.Time, customerID, subscriptionID *string) error {
			t.Fatal("active subscription must not be touched")
			return nil
		},
	}
	s := New(ur, &stripeMock{}, "price_1", "http://localhost", testLog())

	st, err := s.Status(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, st.Active)
}

func TestStatus_UserNotFound(t *testing.T) {
	ur := &userRepoMock{
		byIDFn: func(ctx context.Context, id string) (*model.User, error) { return nil, sql.ErrNoRows },
	}
	s := New(ur, &stripeMock{}, "price_1", "http://localhost", testLog())

	_, err := s.Status(context.Background(), "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateCheckout(t *testing.T) {
	ur := &userRepoMock{
		byIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
	}
	st := &stripeMock{
		checkoutFn: func(req striperepo.CreateCheckoutReq) (*striperepo.CreateCheckoutResp, error) {
			require.Equal(t, "price_1", req.PriceID)
			require.Equal(t, "u1", req.CustomerRef)
			require.Equal(t, "http://localhost/subscription/success", req.SuccessURL)
			return &striperepo.CreateCheckoutResp{SessionID: "cs_1", CheckoutURL: "https://checkout.stripe.com/cs_1"}, nil
		},
	}
	s := New(ur, st, "price_1", "http://localhost", testLog())

	url, err := s.CreateCheckout(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "https://checkout.stripe.com/cs_1", url)
}

func TestHandleStripe_ActivatesFromCheckoutEvent(t *testing.T) {
	periodEnd := time.Now().AddDate(0, 1, 0).Unix()
	var gotUser string
	var gotEnd *time.Time
	ur := &userRepoMock{
		updateSubscriptionFn: func(ctx context.Context, id string, status model.SubscriptionStatus,
			endDate *time.Time, customerID, subscriptionID *string) error {
			gotUser, gotEnd = id, endDate
			require.Equal(t, model.SubActive, status)
			require.Equal(t, "cus_1", *customerID)
			require.Equal(t, "sub_1", *subscriptionID)
			return nil
		},
	}
	st := &stripeMock{
		getSubFn: func(subscriptionID string) (*striperepo.Subscription, error) {
			return &striperepo.Subscription{ID: subscriptionID, CurrentPeriodEnd: periodEnd}, nil
		},
	}
	s := New(ur, st, "price_1", "http://localhost", testLog())

	raw := []byte(`{
		"type": "checkout.session.completed",
		"data": {"object": {"client_reference_id": "u1", "customer": "cus_1", "subscription": "sub_1"}}
	}`)
	require.NoError(t, s.HandleStripe(context.Background(), "sig", raw))
	require.Equal(t, "u1", gotUser)
	require.Equal(t, periodEnd, gotEnd.Unix())
}

func TestHandleStripe_IgnoresOtherEvents(t *testing.T) {
	ur := &userRepoMock{
		updateSubscriptionFn: func(ctx context.Context, id string, status model.SubscriptionStatus,
			endDate *time.Time, customerID, subscriptionID *string) error {
			t.Fatal("unrelated events must not change subscriptions")
			return nil
		},
	}
	s := New(ur, &stripeMock{}, "price_1", "http://localhost", testLog())

	raw := []byte(`{"type": "invoice.paid", "data": {"object": {}}}`)
	require.NoError(t, s.HandleStripe(context.Background(), "sig", raw))
}

func TestHandleStripe_MissingReference(t *testing.T) {
	s := New(&userRepoMock{}, &stripeMock{}, "price_1", "http://localhost", testLog())

	raw := []byte(`{"type": "checkout.session.completed", "data": {"object": {}}}`)
	require.Error(t, s.HandleStripe(context.Background(), "sig", raw))
}
