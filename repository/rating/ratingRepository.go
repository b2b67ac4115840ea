package ratingrepo

import (
	"context"
	"database/sql"

	"bookswap/model"
)

type Repo interface {
	// Upsert inserts the rating or, when the (rated, rater) pair already has
	// one, updates it in place.
	Upsert(ctx context.Context, rt *model.UserRating) error
	ListForUser(ctx context.Context, ratedUserID string) ([]model.RatingWithRater, error)
	ByRater(ctx context.Context, ratedUserID, raterUserID string) (*model.UserRating, error)
	Delete(ctx context.Context, ratedUserID, raterUserID string) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Upsert(ctx context.Context, rt *model.UserRating) error {
	const q = `
		INSERT INTO user_ratings (rated_user_id, rater_user_id, rating, comment)
		VALUES ($1,$2,$3,NULLIF($4,''))
		ON CONFLICT (rated_user_id, rater_user_id)
		DO UPDATE SET rating=EXCLUDED.rating, comment=EXCLUDED.comment, updated_at=NOW()
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		rt.RatedUserID, rt.RaterUserID, rt.Rating, rt.Comment,
	).Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
}

func (r *repo) ListForUser(ctx context.Context, ratedUserID string) ([]model.RatingWithRater, error) {
	const q = `
		SELECT ur.id, ur.rated_user_id, ur.rater_user_id, ur.rating,
			COALESCE(ur.comment,''), ur.created_at, ur.updated_at,
			u.username, COALESCE(u.avatar_url,'')
		FROM user_ratings ur
		JOIN users u ON u.id = ur.rater_user_id
		WHERE ur.rated_user_id = $1
		ORDER BY ur.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, ratedUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.RatingWithRater
	for rows.Next() {
		var rt model.RatingWithRater
		if err := rows.Scan(&rt.ID, &rt.RatedUserID, &rt.RaterUserID, &rt.Rating,
			&rt.Comment, &rt.CreatedAt, &rt.UpdatedAt,
			&rt.RaterUsername, &rt.RaterAvatarURL); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *repo) ByRater(ctx context.Context, ratedUserID, raterUserID string) (*model.UserRating, error) {
	const q = `
		SELECT id, rated_user_id, rater_user_id, rating, COALESCE(comment,''),
			created_at, updated_at
		FROM user_ratings
		WHERE rated_user_id=$1 AND rater_user_id=$2`
	rt := &model.UserRating{}
	err := r.db.QueryRowContext(ctx, q, ratedUserID, raterUserID).Scan(
		&rt.ID, &rt.RatedUserID, &rt.RaterUserID, &rt.Rating, &rt.Comment,
		&rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *repo) Delete(ctx context.Context, ratedUserID, raterUserID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_ratings WHERE rated_user_id=$1 AND rater_user_id=$2`,
		ratedUserID, raterUserID)
	return err
}
