package userrepo

import (
	"context"
	"database/sql"
	"time"

	"bookswap/model"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id string) (*model.User, error)
	SearchIDsByUsername(ctx context.Context, q string) ([]string, error)
	UpdateSubscription(ctx context.Context, id string, status model.SubscriptionStatus,
		endDate *time.Time, customerID, subscriptionID *string) error
	ByStripeCustomer(ctx context.Context, customerID string) (*model.User, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const userCols = `
	id, username, email, password_hash, COALESCE(avatar_url,''),
	COALESCE(phone_number,''), COALESCE(location_city,''), latitude, longitude,
	subscription_status, subscription_end_date, stripe_customer_id,
	stripe_subscription_id, created_at`

func scanUser(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.AvatarURL,
		&u.PhoneNumber, &u.LocationCity, &u.Latitude, &u.Longitude,
		&u.SubscriptionStatus, &u.SubscriptionEndDate, &u.StripeCustomerID,
		&u.StripeSubscriptionID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users(username, email, password_hash)
		VALUES ($1,$2,$3)
		RETURNING id, subscription_status, created_at`,
		u.Username, u.Email, u.PasswordHash,
	).Scan(&u.ID, &u.SubscriptionStatus, &u.CreatedAt)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `
        SELECT `+userCols+`
        FROM users
        WHERE lower(email) = lower($1)`, email))
}

func (r *repo) ByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `
        SELECT `+userCols+`
        FROM users
        WHERE id = $1`, id))
}

func (r *repo) SearchIDsByUsername(ctx context.Context, q string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM users WHERE username ILIKE '%'||$1||'%'`, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *repo) UpdateSubscription(ctx context.Context, id string, status model.SubscriptionStatus,
	endDate *time.Time, customerID, subscriptionID *string) error {
	const q = `
		UPDATE users
		SET subscription_status     = $2,
			subscription_end_date   = $3,
			stripe_customer_id      = COALESCE($4, stripe_customer_id),
			stripe_subscription_id  = COALESCE($5, stripe_subscription_id)
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, status, endDate, customerID, subscriptionID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) ByStripeCustomer(ctx context.Context, customerID string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `
        SELECT `+userCols+`
        FROM users
        WHERE stripe_customer_id = $1`, customerID))
}
