// repository/exchange/repo.go
package exchangerepo

import (
	"context"
	"database/sql"

	"bookswap/model"
)

type Repo interface {
	HasPending(ctx context.Context, bookID, requesterID string) (bool, error)
	Insert(ctx context.Context, req *model.ExchangeRequest) error
	Get(ctx context.Context, id string) (*model.ExchangeDetail, error)
	SetStatus(ctx context.Context, id string, status model.ExchangeStatus) error

	// Accept/Cancel/Complete pair the status change with the two-book
	// availability flip in a single transaction so one book can never flip
	// without the other.
	AcceptAndMarkUnavailable(ctx context.Context, requestID, bookID string, offeredBookID *string) error
	CancelAndMarkAvailable(ctx context.Context, requestID, bookID string, offeredBookID *string) error
	CompleteAndMarkUnavailable(ctx context.Context, requestID, bookID string, offeredBookID *string) error

	// ListRequestedBooks returns the distinct books a user has requested,
	// most recent request first. Feeds the preference profile.
	ListRequestedBooks(ctx context.Context, requesterID string) ([]model.Book, error)

	ListIncoming(ctx context.Context, ownerID string) ([]model.ExchangeDetail, error)
	ListOutgoing(ctx context.Context, requesterID string) ([]model.ExchangeDetail, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) HasPending(ctx context.Context, bookID, requesterID string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM exchange_requests
			WHERE book_id=$1 AND requester_id=$2 AND status='pending'
		)`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, bookID, requesterID).Scan(&exists)
	return exists, err
}

func (r *repo) Insert(ctx context.Context, req *model.ExchangeRequest) error {
	const q = `
		INSERT INTO exchange_requests (book_id, requester_id, offered_book_id, status, message)
		VALUES ($1,$2,$3,'pending',NULLIF($4,''))
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		req.BookID, req.RequesterID, req.OfferedBookID, req.Message,
	).Scan(&req.ID, &req.CreatedAt)
}

const detailCols = `
	er.id, er.book_id, er.requester_id, er.offered_book_id, er.status,
	COALESCE(er.message,''), er.created_at,
	b.title, b.owner_id, u.username, ob.title`

func scanDetail(scan func(dest ...any) error) (*model.ExchangeDetail, error) {
	d := &model.ExchangeDetail{}
	err := scan(&d.ID, &d.BookID, &d.RequesterID, &d.OfferedBookID, &d.Status,
		&d.Message, &d.CreatedAt,
		&d.BookTitle, &d.BookOwnerID, &d.RequesterUsername, &d.OfferedBookTitle)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *repo) Get(ctx context.Context, id string) (*model.ExchangeDetail, error) {
	const q = `
		SELECT ` + detailCols + `
		FROM exchange_requests er
		JOIN books b ON b.id = er.book_id
		JOIN users u ON u.id = er.requester_id
		LEFT JOIN books ob ON ob.id = er.offered_book_id
		WHERE er.id = $1`
	return scanDetail(r.db.QueryRowContext(ctx, q, id).Scan)
}

func (r *repo) SetStatus(ctx context.Context, id string, status model.ExchangeStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE exchange_requests SET status=$2 WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) AcceptAndMarkUnavailable(ctx context.Context, requestID, bookID string, offeredBookID *string) error {
	return r.statusAndFlip(ctx, requestID, bookID, offeredBookID, model.ExchangeAccepted, false)
}

func (r *repo) CancelAndMarkAvailable(ctx context.Context, requestID, bookID string, offeredBookID *string) error {
	return r.statusAndFlip(ctx, requestID, bookID, offeredBookID, model.ExchangeCancelled, true)
}

func (r *repo) CompleteAndMarkUnavailable(ctx context.Context, requestID, bookID string, offeredBookID *string) error {
	return r.statusAndFlip(ctx, requestID, bookID, offeredBookID, model.ExchangeDone, false)
}

func (r *repo) statusAndFlip(ctx context.Context, requestID, bookID string, offeredBookID *string,
	status model.ExchangeStatus, available bool) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qStatus = `UPDATE exchange_requests SET status=$2 WHERE id=$1`
	if _, err = tx.ExecContext(ctx, qStatus, requestID, status); err != nil {
		return err
	}

	// Both books in one statement: both-or-neither.
	const qFlip = `
		UPDATE books SET is_available=$3
		WHERE id=$1 OR ($2::uuid IS NOT NULL AND id=$2)`
	if _, err = tx.ExecContext(ctx, qFlip, bookID, offeredBookID, available); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repo) ListRequestedBooks(ctx context.Context, requesterID string) ([]model.Book, error) {
	const q = `
		SELECT DISTINCT ON (b.id)
			b.id, b.title, b.author, b.description, COALESCE(b.genre,''), b.condition,
			COALESCE(b.cover_image_url,''), b.owner_id, b.is_available, b.created_at
		FROM exchange_requests er
		JOIN books b ON b.id = er.book_id
		WHERE er.requester_id = $1
		ORDER BY b.id, er.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Genre,
			&b.Condition, &b.CoverImageURL, &b.OwnerID, &b.IsAvailable, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) ListIncoming(ctx context.Context, ownerID string) ([]model.ExchangeDetail, error) {
	const q = `
		SELECT ` + detailCols + `
		FROM exchange_requests er
		JOIN books b ON b.id = er.book_id
		JOIN users u ON u.id = er.requester_id
		LEFT JOIN books ob ON ob.id = er.offered_book_id
		WHERE b.owner_id = $1
		ORDER BY er.created_at DESC`
	return r.listDetails(ctx, q, ownerID)
}

func (r *repo) ListOutgoing(ctx context.Context, requesterID string) ([]model.ExchangeDetail, error) {
	const q = `
		SELECT ` + detailCols + `
		FROM exchange_requests er
		JOIN books b ON b.id = er.book_id
		JOIN users u ON u.id = er.requester_id
		LEFT JOIN books ob ON ob.id = er.offered_book_id
		WHERE er.requester_id = $1
		ORDER BY er.created_at DESC`
	return r.listDetails(ctx, q, requesterID)
}

func (r *repo) listDetails(ctx context.Context, q, arg string) ([]model.ExchangeDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ExchangeDetail
	for rows.Next() {
		d, err := scanDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}
