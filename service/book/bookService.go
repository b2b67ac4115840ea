package booksvc

import (
	"context"
	"database/sql"
	"errors"

	"bookswap/model"
	bookrepo "bookswap/repository/book"
)

var (
	ErrNotFound = errors.New("book not found")
	ErrNotOwner = errors.New("not the book owner")
)

type Service interface {
	Add(ctx context.Context, ownerID string, req model.CreateBookReq) (*model.Book, error)
	Update(ctx context.Context, callerID, id string, req model.UpdateBookReq) (*model.Book, error)
	Delete(ctx context.Context, callerID, id string) error
	ToggleAvailability(ctx context.Context, callerID, id string, available bool) error
	ByID(ctx context.Context, id string) (*model.Book, error)

	// List returns the browse view: available books plus all of the
	// caller's own books regardless of availability.
	List(ctx context.Context, callerID string) ([]model.Book, error)
	MyBooks(ctx context.Context, ownerID string) ([]model.Book, error)
	RecentlyAdded(ctx context.Context, limit int) ([]model.Book, error)
	ByGenre(ctx context.Context, genre string) ([]model.Book, error)
	Genres(ctx context.Context) ([]model.BookGenre, error)
}

type service struct{ r bookrepo.Repo }

func New(r bookrepo.Repo) Service { return &service{r: r} }

func (s *service) Add(ctx context.Context, ownerID string, req model.CreateBookReq) (*model.Book, error) {
	b := &model.Book{
		Title:         req.Title,
		Author:        req.Author,
		Description:   req.Description,
		Genre:         req.Genre,
		Condition:     model.BookCondition(req.Condition),
		CoverImageURL: req.CoverImageURL,
		OwnerID:       ownerID,
		IsAvailable:   true,
	}
	if err := s.r.Insert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, callerID, id string, req model.UpdateBookReq) (*model.Book, error) {
	if err := s.ownerGuard(ctx, callerID, id); err != nil {
		return nil, err
	}
	return s.r.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, callerID, id string) error {
	if err := s.ownerGuard(ctx, callerID, id); err != nil {
		return err
	}
	return s.r.Delete(ctx, id)
}

func (s *service) ToggleAvailability(ctx context.Context, callerID, id string, available bool) error {
	if err := s.ownerGuard(ctx, callerID, id); err != nil {
		return err
	}
	return s.r.SetAvailability(ctx, id, available)
}

func (s *service) ownerGuard(ctx context.Context, callerID, id string) error {
	b, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if b.OwnerID != callerID {
		return ErrNotOwner
	}
	return nil
}

func (s *service) ByID(ctx context.Context, id string) (*model.Book, error) {
	b, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context, callerID string) ([]model.Book, error) {
	all, err := s.r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Book
	for _, b := range all {
		if b.IsAvailable || (callerID != "" && b.OwnerID == callerID) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *service) MyBooks(ctx context.Context, ownerID string) ([]model.Book, error) {
	return s.r.ListByOwner(ctx, ownerID)
}

func (s *service) RecentlyAdded(ctx context.Context, limit int) ([]model.Book, error) {
	all, err := s.r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Book
	for _, b := range all {
		if len(out) == limit {
			break
		}
		if b.IsAvailable {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *service) ByGenre(ctx context.Context, genre string) ([]model.Book, error) {
	return s.r.ListAvailableByGenre(ctx, genre)
}

func (s *service) Genres(ctx context.Context) ([]model.BookGenre, error) {
	return s.r.Genres(ctx)
}
