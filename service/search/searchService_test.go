package searchsvc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"bookswap/model"

	"github.com/stretchr/testify/require"
)

type bookRepoMock struct {
	listAllFn        func(ctx context.Context) ([]model.Book, error)
	searchTitleFn    func(ctx context.Context, q string) ([]model.Book, error)
	searchAuthorFn   func(ctx context.Context, q string) ([]model.Book, error)
	searchGenreFn    func(ctx context.Context, genre string) ([]model.Book, error)
	searchByOwnersFn func(ctx context.Context, ownerIDs []string) ([]model.Book, error)
	searchCombinedFn func(ctx context.Context, q string) ([]model.Book, error)
}

var _ BookRepo = (*bookRepoMock)(nil)

func (m *bookRepoMock) ListAll(ctx context.Context) ([]model.Book, error) {
	if m.listAllFn == nil {
		return nil, nil
	}
	return m.listAllFn(ctx)
}
func (m *bookRepoMock) SearchTitle(ctx context.Context, q string) ([]model.Book, error) {
	if m.searchTitleFn == nil {
		return nil, nil
	}
	return m.searchTitleFn(ctx, q)
}
func (m *bookRepoMock) SearchAuthor(ctx context.Context, q string) ([]model.Book, error) {
	if m.searchAuthorFn == nil {
		return nil, nil
	}
	return m.searchAuthorFn(ctx, q)
}
func (m *bookRepoMock) SearchGenre(ctx context.Context, genre string) ([]model.Book, error) {
	if m.searchGenreFn == nil {
		return nil, nil
	}
	return m.searchGenreFn(ctx, genre)
}
func (m *bookRepoMock) SearchByOwners(ctx context.Context, ownerIDs []string) ([]model.Book, error) {
	if m.searchByOwnersFn == nil {
		return nil, nil
	}
	return m.searchByOwnersFn(ctx, ownerIDs)
}
func (m *bookRepoMock) SearchCombined(ctx context.Context, q string) ([]model.Book, error) {
	if m.searchCombinedFn == nil {
		return nil, nil
	}
	return m.searchCombinedFn(ctx, q)
}

type userRepoMock struct {
	searchIDsFn func(ctx context.Context, q string) ([]string, error)
}

var _ UserRepo = (*userRepoMock)(nil)

func (m *userRepoMock) SearchIDsByUsername(ctx context.Context, q string) ([]string, error) {
	if m.searchIDsFn == nil {
		return nil, nil
	}
	return m.searchIDsFn(ctx, q)
}

func testLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func avail(id, owner string) model.Book {
	return model.Book{ID: id, OwnerID: owner, IsAvailable: true}
}

func TestSearch_DispatchesByMode(t *testing.T) {
	ctx := context.Background()
	var calledMode string
	books := &bookRepoMock{
		searchTitleFn: func(ctx context.Context, q string) ([]model.Book, error) {
			calledMode = "title"
			return []model.Book{avail("b1", "o1")}, nil
		},
		searchAuthorFn: func(ctx context.Context, q string) ([]model.Book, error) {
			calledMode = "author"
			return nil, nil
		},
		searchGenreFn: func(ctx context.Context, genre string) ([]model.Book, error) {
			calledMode = "genre"
			return nil, nil
		},
	}
	s := New(books, &userRepoMock{}, testLog())

	got := s.Search(ctx, ModeTitle, "dune")
	require.Equal(t, "title", calledMode)
	require.Len(t, got, 1)

	s.Search(ctx, ModeAuthor, "herbert")
	require.Equal(t, "author", calledMode)

	s.Search(ctx, ModeGenre, "Mystery")
	require.Equal(t, "genre", calledMode)
}

func TestSearch_OwnerModeNoUserMatch(t *testing.T) {
	ctx := context.Background()
	books := &bookRepoMock{
		searchByOwnersFn: func(ctx context.Context, ownerIDs []string) ([]model.Book, error) {
			t.Fatal("must not query books when no user matched")
			return nil, nil
		},
	}
	users := &userRepoMock{
		searchIDsFn: func(ctx context.Context, q string) ([]string, error) { return nil, nil },
	}
	s := New(books, users, testLog())

	require.Empty(t, s.Search(ctx, ModeOwner, "nonexistentuser"))
}

func TestSearch_OwnerModeResolvesUsers(t *testing.T) {
	ctx := context.Background()
	books := &bookRepoMock{
		searchByOwnersFn: func(ctx context.Context, ownerIDs []string) ([]model.Book, error) {
			require.Equal(t, []string{"u1", "u2"}, ownerIDs)
			return []model.Book{avail("b1", "u1")}, nil
		},
	}
	users := &userRepoMock{
		searchIDsFn: func(ctx context.Context, q string) ([]string, error) { return []string{"u1", "u2"}, nil },
	}
	s := New(books, users, testLog())

	require.Len(t, s.Search(ctx, ModeOwner, "ali"), 1)
}

func TestSearch_CombinedBlankQuery(t *testing.T) {
	ctx := context.Background()
	books := &bookRepoMock{
		searchCombinedFn: func(ctx context.Context, q string) ([]model.Book, error) {
			t.Fatal("blank query must not reach the catalog")
			return nil, nil
		},
	}
	s := New(books, &userRepoMock{}, testLog())

	require.Empty(t, s.Search(ctx, ModeCombined, ""))
	require.Empty(t, s.Search(ctx, ModeCombined, "   "))
}

func TestSearch_RepoErrorYieldsEmpty(t *testing.T) {
	ctx := context.Background()
	books := &bookRepoMock{
		searchTitleFn: func(ctx context.Context, q string) ([]model.Book, error) {
			return nil, errors.New("boom")
		},
	}
	s := New(books, &userRepoMock{}, testLog())

	require.Empty(t, s.Search(ctx, ModeTitle, "dune"))
}

func TestSearchBooks_GenreIntersection(t *testing.T) {
	ctx := context.Background()
	books := &bookRepoMock{
		searchGenreFn: func(ctx context.Context, genre string) ([]model.Book, error) {
			return []model.Book{avail("b1", "o1"), avail("b2", "o2"), avail("b3", "o3")}, nil
		},
		searchCombinedFn: func(ctx context.Context, q string) ([]model.Book, error) {
			return []model.Book{avail("b2", "o2"), avail("b4", "o4")}, nil
		},
	}
	s := New(books, &userRepoMock{}, testLog())

	got := s.SearchBooks(ctx, "", "dune", "Sci-Fi", ModeCombined)
	require.Len(t, got, 1)
	require.Equal(t, "b2", got[0].ID)
}

func TestSearchBooks_ExcludesCallerAndUnavailable(t *testing.T) {
	ctx := context.Background()
	unavailable := model.Book{ID: "b3", OwnerID: "o3", IsAvailable: false}
	books := &bookRepoMock{
		searchCombinedFn: func(ctx context.Context, q string) ([]model.Book, error) {
			return []model.Book{avail("b1", "caller"), avail("b2", "o2"), unavailable}, nil
		},
	}
	s := New(books, &userRepoMock{}, testLog())

	got := s.SearchBooks(ctx, "caller", "dune", "", ModeCombined)
	require.Len(t, got, 1)
	require.Equal(t, "b2", got[0].ID)
}

func TestSearchBooks_NoQueryNoGenreListsCatalog(t *testing.T) {
	ctx := context.Background()
	books := &bookRepoMock{
		listAllFn: func(ctx context.Context) ([]model.Book, error) {
			return []model.Book{avail("b1", "o1"), avail("b2", "o2")}, nil
		},
	}
	s := New(books, &userRepoMock{}, testLog())

	require.Len(t, s.SearchBooks(ctx, "", "", "", ModeCombined), 2)
	require.Len(t, s.SearchBooks(ctx, "", "", "all", ModeCombined), 2)
}

func TestSearchBooks_Idempotent(t *testing.T) {
	ctx := context.Background()
	books := &bookRepoMock{
		searchCombinedFn: func(ctx context.Context, q string) ([]model.Book, error) {
			return []model.Book{avail("b2", "o2"), avail("b1", "o1")}, nil
		},
	}
	s := New(books, &userRepoMock{}, testLog())

	first := s.SearchBooks(ctx, "caller", "dune", "", ModeCombined)
	second := s.SearchBooks(ctx, "caller", "dune", "", ModeCombined)
	require.Equal(t, first, second)
}
