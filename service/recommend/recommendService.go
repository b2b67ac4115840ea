// Package recommendsvc ranks catalog books for a user by blending three
// signals: their past exchange requests, the active genre filter, and the
// free-text query. Scores are additive hand-tuned weights; given identical
// inputs the output order is identical (stable sort, ties keep input order).
package recommendsvc

import (
	"sort"
	"strings"

	"bookswap/model"
)

const DefaultLimit = 6

type Options struct {
	SearchQuery        string
	CurrentGenre       string
	ExcludeBookIDs     []string
	Limit              int
	UserRequestHistory []model.Book
}

// preferences is the per-user profile derived from request history:
// how often each genre and author shows up in the books they asked for.
type preferences struct {
	genres  map[string]int
	authors map[string]int
	total   int
}

func buildPreferences(history []model.Book) preferences {
	p := preferences{
		genres:  make(map[string]int),
		authors: make(map[string]int),
		total:   len(history),
	}
	for _, b := range history {
		if b.Genre != "" {
			p.genres[b.Genre]++
		}
		p.authors[strings.ToLower(b.Author)]++
	}
	return p
}

// GetRecommendations returns the top-limit available books by score,
// skipping excluded ids. limit <= 0 yields an empty result.
func GetRecommendations(allBooks []model.Book, opts Options) []model.Book {
	if opts.Limit <= 0 {
		return nil
	}

	prefs := buildPreferences(opts.UserRequestHistory)
	excluded := make(map[string]struct{}, len(opts.ExcludeBookIDs))
	for _, id := range opts.ExcludeBookIDs {
		excluded[id] = struct{}{}
	}

	type scored struct {
		book  model.Book
		score float64
	}
	var candidates []scored
	for _, b := range allBooks {
		if _, skip := excluded[b.ID]; skip || !b.IsAvailable {
			continue
		}
		candidates = append(candidates, scored{
			book:  b,
			score: score(b, opts.SearchQuery, opts.CurrentGenre, prefs),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	n := opts.Limit
	if n > len(candidates) {
		n = len(candidates)
	}
	out := make([]model.Book, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, c.book)
	}
	return out
}

func score(b model.Book, searchQuery, currentGenre string, prefs preferences) float64 {
	var s float64
	query := strings.TrimSpace(strings.ToLower(searchQuery))

	// Base score for available books.
	if b.IsAvailable {
		s += 10
	}

	if prefs.total > 0 {
		if b.Genre != "" {
			if n, ok := prefs.genres[b.Genre]; ok {
				s += float64(n) / float64(prefs.total) * 100
			}
		}
		if n, ok := prefs.authors[strings.ToLower(b.Author)]; ok {
			s += float64(n) / float64(prefs.total) * 80
		}
	}

	if currentGenre != "" && b.Genre == currentGenre {
		s += 50
	}

	if query != "" {
		title := strings.ToLower(b.Title)
		author := strings.ToLower(b.Author)
		description := strings.ToLower(b.Description)
		genre := strings.ToLower(b.Genre)

		if strings.Contains(title, query) {
			s += 40
		}
		if strings.Contains(author, query) {
			s += 35
		}
		if genre != "" && strings.Contains(genre, query) {
			s += 30
		}
		if strings.Contains(description, query) {
			s += 20
		}

		// Word-by-word matching for multi-word queries.
		for _, word := range strings.Fields(query) {
			if len(word) <= 2 {
				continue
			}
			if strings.Contains(title, word) {
				s += 15
			}
			if strings.Contains(author, word) {
				s += 12
			}
			if genre != "" && strings.Contains(genre, word) {
				s += 10
			}
			if strings.Contains(description, word) {
				s += 5
			}
		}
	}

	switch b.Condition {
	case model.CondLikeNew:
		s += 5
	case model.CondGood:
		s += 3
	}

	return s
}

// PopularBooks picks available books round-robin across genres so the shelf
// stays diverse instead of dominated by the largest genre.
func PopularBooks(allBooks []model.Book, limit int) []model.Book {
	if limit <= 0 {
		return nil
	}
	byGenre := make(map[string][]model.Book)
	var genres []string
	for _, b := range allBooks {
		if !b.IsAvailable {
			continue
		}
		g := b.Genre
		if g == "" {
			g = "Other"
		}
		if _, ok := byGenre[g]; !ok {
			genres = append(genres, g)
		}
		byGenre[g] = append(byGenre[g], b)
	}

	var out []model.Book
	for i := 0; len(genres) > 0 && len(out) < limit; {
		idx := i % len(genres)
		g := genres[idx]
		bucket := byGenre[g]
		out = append(out, bucket[0])
		bucket = bucket[1:]
		byGenre[g] = bucket
		if len(bucket) == 0 {
			genres = append(genres[:idx], genres[idx+1:]...)
			continue
		}
		i++
	}
	return out
}

// BooksByAuthor returns up to limit available books by the given author
// (case-insensitive exact match), skipping excluded ids.
func BooksByAuthor(allBooks []model.Book, author string, excludeBookIDs []string, limit int) []model.Book {
	if limit <= 0 {
		return nil
	}
	excluded := make(map[string]struct{}, len(excludeBookIDs))
	for _, id := range excludeBookIDs {
		excluded[id] = struct{}{}
	}
	want := strings.ToLower(author)
	var out []model.Book
	for _, b := range allBooks {
		if len(out) == limit {
			break
		}
		if _, skip := excluded[b.ID]; skip || !b.IsAvailable {
			continue
		}
		if strings.ToLower(b.Author) == want {
			out = append(out, b)
		}
	}
	return out
}

// BooksByGenre returns up to limit available books in the given genre
// (exact match as stored), skipping excluded ids.
func BooksByGenre(allBooks []model.Book, genre string, excludeBookIDs []string, limit int) []model.Book {
	if limit <= 0 {
		return nil
	}
	excluded := make(map[string]struct{}, len(excludeBookIDs))
	for _, id := range excludeBookIDs {
		excluded[id] = struct{}{}
	}
	var out []model.Book
	for _, b := range allBooks {
		if len(out) == limit {
			break
		}
		if _, skip := excluded[b.ID]; skip || !b.IsAvailable {
			continue
		}
		if b.Genre == genre {
			out = append(out, b)
		}
	}
	return out
}
