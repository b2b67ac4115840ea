package bookrepo

import (
	"context"
	"database/sql"

	"bookswap/model"
)

type Repo interface {
	Insert(ctx context.Context, b *model.Book) error
	ByID(ctx context.Context, id string) (*model.Book, error)
	Update(ctx context.Context, id string, req model.UpdateBookReq) (*model.Book, error)
	Delete(ctx context.Context, id string) error
	SetAvailability(ctx context.Context, id string, available bool) error

	ListAll(ctx context.Context) ([]model.Book, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Book, error)
	ListAvailableByGenre(ctx context.Context, genre string) ([]model.Book, error)
	Genres(ctx context.Context) ([]model.BookGenre, error)

	// Search primitives. All return most-recently-created first.
	SearchTitle(ctx context.Context, q string) ([]model.Book, error)
	SearchAuthor(ctx context.Context, q string) ([]model.Book, error)
	SearchGenre(ctx context.Context, genre string) ([]model.Book, error)
	SearchByOwners(ctx context.Context, ownerIDs []string) ([]model.Book, error)
	SearchCombined(ctx context.Context, q string) ([]model.Book, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const bookCols = `
	id, title, author, description, COALESCE(genre,''), condition,
	COALESCE(cover_image_url,''), owner_id, is_available, created_at`

func scanBook(row *sql.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Genre,
		&b.Condition, &b.CoverImageURL, &b.OwnerID, &b.IsAvailable, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBooks(rows *sql.Rows) ([]model.Book, error) {
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

func (r *repo) Insert(ctx context.Context, b *model.Book) error {
	const q = `
INSERT INTO books (title, author, description, genre, condition, cover_image_url, owner_id, is_available)
VALUES ($1,$2,$3,NULLIF($4,''),$5,NULLIF($6,''),$7,TRUE)
RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		b.Title, b.Author, b.Description, b.Genre, b.Condition, b.CoverImageURL, b.OwnerID,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id string) (*model.Book, error) {
	return scanBook(r.db.QueryRowContext(ctx, `SELECT `+bookCols+` FROM books WHERE id=$1`, id))
}

func (r *repo) Update(ctx context.Context, id string, req model.UpdateBookReq) (*model.Book, error) {
	const q = `
UPDATE books SET
	title           = COALESCE($2, title),
	author          = COALESCE($3, author),
	description     = COALESCE($4, description),
	genre           = CASE WHEN $5::text IS NULL THEN genre ELSE NULLIF($5,'') END,
	condition       = COALESCE($6, condition),
	cover_image_url = COALESCE($7, cover_image_url)
WHERE id = $1
RETURNING ` + bookCols
	return scanBook(r.db.QueryRowContext(ctx, q, id,
		req.Title, req.Author, req.Description, req.Genre, req.Condition, req.CoverImageURL))
}

func (r *repo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id=$1`, id)
	return err
}

func (r *repo) SetAvailability(ctx context.Context, id string, available bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE books SET is_available=$2 WHERE id=$1`, id, available)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) ListAll(ctx context.Context) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookCols+` FROM books ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return scanBooks(rows)
}

func (r *repo) ListByOwner(ctx context.Context, ownerID string) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookCols+` FROM books WHERE owner_id=$1 ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return scanBooks(rows)
}

func (r *repo) ListAvailableByGenre(ctx context.Context, genre string) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookCols+` FROM books WHERE genre=$1 AND is_available ORDER BY created_at DESC, id DESC`, genre)
	if err != nil {
		return nil, err
	}
	return scanBooks(rows)
}

func (r *repo) Genres(ctx context.Context) ([]model.BookGenre, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(description,'') FROM book_genres ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.BookGenre
	for rows.Next() {
		var g model.BookGenre
		if err := rows.Scan(&g.ID, &g.Name, &g.Description); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *repo) SearchTitle(ctx context.Context, q string) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookCols+` FROM books WHERE title ILIKE '%'||$1||'%' ORDER BY created_at DESC, id DESC`, q)
	if err != nil {
		return nil, err
	}
	return scanBooks(rows)
}

func (r *repo) SearchAuthor(ctx context.Context, q string) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookCols+` FROM books WHERE author ILIKE '%'||$1||'%' ORDER BY created_at DESC, id DESC`, q)
	if err != nil {
		return nil, err
	}
	return scanBooks(rows)
}

func (r *repo) SearchGenre(ctx context.Context, genre string) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookCols+` FROM books WHERE genre=$1 ORDER BY created_at DESC, id DESC`, genre)
	if err != nil {
		return nil, err
	}
	return scanBooks(rows)
}

func (r *repo) SearchByOwners(ctx context.Context, ownerIDs []string) ([]model.Book, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookCols+` FROM books WHERE owner_id = ANY($1) ORDER BY created_at DESC, id DESC`, ownerIDs)
	if err != nil {
		return nil, err
	}
	return scanBooks(rows)
}

func (r *repo) SearchCombined(ctx context.Context, q string) ([]model.Book, error) {
	const query = `
SELECT ` + bookCols + `
FROM books
WHERE title ILIKE '%'||$1||'%'
   OR author ILIKE '%'||$1||'%'
   OR description ILIKE '%'||$1||'%'
ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, q)
	if err != nil {
		return nil, err
	}
	return scanBooks(rows)
}
