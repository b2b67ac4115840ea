package ratingsvc

import (
	"context"
	"errors"

	"bookswap/model"
	ratingrepo "bookswap/repository/rating"
)

var ErrSelfRating = errors.New("cannot rate yourself")

type Service interface {
	// Rate records a 1-5 rating; a repeat submission by the same rater
	// updates the existing one instead of adding a second row.
	Rate(ctx context.Context, raterID, ratedID string, req model.RateUserReq) (*model.UserRating, error)
	ListForUser(ctx context.Context, ratedID string) ([]model.RatingWithRater, error)
	Remove(ctx context.Context, raterID, ratedID string) error
}

type service struct{ r ratingrepo.Repo }

func New(r ratingrepo.Repo) Service { return &service{r: r} }

func (s *service) Rate(ctx context.Context, raterID, ratedID string, req model.RateUserReq) (*model.UserRating, error) {
	if raterID == ratedID {
		return nil, ErrSelfRating
	}
	rt := &model.UserRating{
		RatedUserID: ratedID,
		RaterUserID: raterID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	}
	if err := s.r.Upsert(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *service) ListForUser(ctx context.Context, ratedID string) ([]model.RatingWithRater, error) {
	return s.r.ListForUser(ctx, ratedID)
}

func (s *service) Remove(ctx context.Context, raterID, ratedID string) error {
	return s.r.Delete(ctx, ratedID, raterID)
}
