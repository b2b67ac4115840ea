package messagingrepo

import (
	"context"
	"database/sql"

	"bookswap/model"
)

// Repo is the notification/message sink. Callers treat both inserts as
// fire-and-forget: failures are logged, never rolled back.
type Repo interface {
	InsertMessage(ctx context.Context, senderID, receiverID, content string) error
	InsertNotification(ctx context.Context, userID string, typ model.NotificationType,
		content string, relatedID *string) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) InsertMessage(ctx context.Context, senderID, receiverID, content string) error {
	const q = `
		INSERT INTO messages (sender_id, receiver_id, content, is_read)
		VALUES ($1,$2,$3,FALSE)`
	_, err := r.db.ExecContext(ctx, q, senderID, receiverID, content)
	return err
}

func (r *repo) InsertNotification(ctx context.Context, userID string, typ model.NotificationType,
	content string, relatedID *string) error {
	const q = `
		INSERT INTO notifications (user_id, type, content, is_read, related_id)
		VALUES ($1,$2,$3,FALSE,$4)`
	_, err := r.db.ExecContext(ctx, q, userID, typ, content, relatedID)
	return err
}
