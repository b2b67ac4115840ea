package searchsvc

import (
	"context"
	"log/slog"
	"strings"

	"bookswap/model"
)

// Mode selects the matching strategy used against the catalog.
type Mode string

const (
	ModeTitle    Mode = "title"
	ModeAuthor   Mode = "author"
	ModeGenre    Mode = "genre"
	ModeOwner    Mode = "owner"
	ModeCombined Mode = "combined"
)

// ParseMode maps a request parameter to a Mode, defaulting to combined.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeTitle, ModeAuthor, ModeGenre, ModeOwner:
		return Mode(s)
	default:
		return ModeCombined
	}
}

type BookRepo interface {
	ListAll(ctx context.Context) ([]model.Book, error)
	SearchTitle(ctx context.Context, q string) ([]model.Book, error)
	SearchAuthor(ctx context.Context, q string) ([]model.Book, error)
	SearchGenre(ctx context.Context, genre string) ([]model.Book, error)
	SearchByOwners(ctx context.Context, ownerIDs []string) ([]model.Book, error)
	SearchCombined(ctx context.Context, q string) ([]model.Book, error)
}

type UserRepo interface {
	SearchIDsByUsername(ctx context.Context, q string) ([]string, error)
}

type Service interface {
	// Search runs a single strategy. Catalog errors are logged and collapse
	// to an empty result; callers cannot tell "failed" from "no results".
	Search(ctx context.Context, mode Mode, query string) []model.Book

	// SearchBooks composes genre filter + typed query and removes the
	// caller's own books and unavailable books.
	SearchBooks(ctx context.Context, callerID, query, genreFilter string, mode Mode) []model.Book
}

type strategy func(ctx context.Context, query string) ([]model.Book, error)

type service struct {
	books      BookRepo
	strategies map[Mode]strategy
	log        *slog.Logger
}

func New(books BookRepo, users UserRepo, log *slog.Logger) Service {
	s := &service{books: books, log: log}
	s.strategies = map[Mode]strategy{
		ModeTitle:  books.SearchTitle,
		ModeAuthor: books.SearchAuthor,
		ModeGenre:  books.SearchGenre,
		ModeOwner: func(ctx context.Context, query string) ([]model.Book, error) {
			ids, err := users.SearchIDsByUsername(ctx, query)
			if err != nil {
				return nil, err
			}
			// No matching user means no books; never fall back to the
			// whole catalog.
			if len(ids) == 0 {
				return nil, nil
			}
			return books.SearchByOwners(ctx, ids)
		},
		ModeCombined: func(ctx context.Context, query string) ([]model.Book, error) {
			if strings.TrimSpace(query) == "" {
				return nil, nil
			}
			return books.SearchCombined(ctx, query)
		},
	}
	return s
}

func (s *service) Search(ctx context.Context, mode Mode, query string) []model.Book {
	strat, ok := s.strategies[mode]
	if !ok {
		strat = s.strategies[ModeCombined]
	}
	res, err := strat(ctx, query)
	if err != nil {
		s.log.Error("book search failed", "mode", mode, "err", err)
		return nil
	}
	return res
}

func (s *service) SearchBooks(ctx context.Context, callerID, query, genreFilter string, mode Mode) []model.Book {
	var results []model.Book

	hasQuery := strings.TrimSpace(query) != ""
	if genreFilter != "" && genreFilter != "all" {
		results = s.Search(ctx, ModeGenre, genreFilter)
		if hasQuery {
			// Intersect the genre set with the typed search, by book id,
			// keeping the genre ordering.
			matched := make(map[string]struct{})
			for _, b := range s.Search(ctx, mode, query) {
				matched[b.ID] = struct{}{}
			}
			var both []model.Book
			for _, b := range results {
				if _, ok := matched[b.ID]; ok {
					both = append(both, b)
				}
			}
			results = both
		}
	} else if hasQuery {
		results = s.Search(ctx, mode, query)
	} else {
		all, err := s.books.ListAll(ctx)
		if err != nil {
			s.log.Error("book list failed", "err", err)
			return nil
		}
		results = all
	}

	// Browsing never shows unavailable books or the caller's own listings.
	var out []model.Book
	for _, b := range results {
		if !b.IsAvailable {
			continue
		}
		if callerID != "" && b.OwnerID == callerID {
			continue
		}
		out = append(out, b)
	}
	return out
}
