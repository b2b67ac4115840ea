package ratingsvc

import (
	"context"
	"database/sql"
	"testing"

	"bookswap/model"
	ratingrepo "bookswap/repository/rating"

	"github.com/stretchr/testify/require"
)

type repoMock struct {
	upsertFn func(ctx context.Context, rt *model.UserRating) error
	deleteFn func(ctx context.Context, ratedUserID, raterUserID string) error
}

var _ ratingrepo.Repo = (*repoMock)(nil)

func (m *repoMock) Upsert(ctx context.Context, rt *model.UserRating) error {
	return m.upsertFn(ctx, rt)
}
func (m *repoMock) ListForUser(ctx context.Context, ratedUserID string) ([]model.RatingWithRater, error) {
	return nil, nil
}
func (m *repoMock) ByRater(ctx context.Context, ratedUserID, raterUserID string) (*model.UserRating, error) {
	return nil, sql.ErrNoRows
}
func (m *repoMock) Delete(ctx context.Context, ratedUserID, raterUserID string) error {
	return m.deleteFn(ctx, ratedUserID, raterUserID)
}

func TestRate(t *testing.T) {
	var saved *model.UserRating
	r := &repoMock{
		upsertFn: func(ctx context.Context, rt *model.UserRating) error {
			rt.ID = "rating-1"
			saved = rt
			return nil
		},
	}
	s := New(r)

	got, err := s.Rate(context.Background(), "rater", "rated", model.RateUserReq{Rating: 4, Comment: "smooth exchange"})
	require.NoError(t, err)
	require.Equal(t, "rating-1", got.ID)
	require.Equal(t, "rater", saved.RaterUserID)
	require.Equal(t, "rated", saved.RatedUserID)
	require.Equal(t, 4, saved.Rating)
}

func TestRate_SelfRejected(t *testing.T) {
	r := &repoMock{
		upsertFn: func(ctx context.Context, rt *model.UserRating) error {
			t.Fatal("self rating must not reach the repository")
			return nil
		},
	}
	s := New(r)

	_, err := s.Rate(context.Background(), "u1", "u1", model.RateUserReq{Rating: 5})
	require.ErrorIs(t, err, ErrSelfRating)
}

func TestRemove(t *testing.T) {
	var gotRated, gotRater string
	r := &repoMock{
		deleteFn: func(ctx context.Context, ratedUserID, raterUserID string) error {
			gotRated, gotRater = ratedUserID, raterUserID
			return nil
		},
	}
	s := New(r)

	require.NoError(t, s.Remove(context.Background(), "rater", "rated"))
	require.Equal(t, "rated", gotRated)
	require.Equal(t, "rater", gotRater)
}
