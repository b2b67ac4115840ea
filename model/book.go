// model/book.go
package model

import "time"

type BookCondition string

const (
	CondLikeNew  BookCondition = "Like New"
	CondVeryGood BookCondition = "Very Good"
	CondGood     BookCondition = "Good"
	CondFair     BookCondition = "Fair"
	CondPoor     BookCondition = "Poor"
)

type Book struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Author        string        `json:"author"`
	Description   string        `json:"description"`
	Genre         string        `json:"genre,omitempty"`
	Condition     BookCondition `json:"condition"`
	CoverImageURL string        `json:"cover_image_url,omitempty"`
	OwnerID       string        `json:"owner_id"`
	IsAvailable   bool          `json:"is_available"`
	CreatedAt     time.Time     `json:"created_at"`
}

type BookGenre struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateBookReq represents the add-book payload
// swagger:model CreateBookReq
type CreateBookReq struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	Description   string `json:"description"`
	Genre         string `json:"genre"`
	Condition     string `json:"condition" validate:"required,oneof='Like New' 'Very Good' 'Good' 'Fair' 'Poor'"`
	CoverImageURL string `json:"cover_image_url"`
}

// UpdateBookReq represents the edit-book payload; zero fields are left as-is
// swagger:model UpdateBookReq
type UpdateBookReq struct {
	Title         *string `json:"title,omitempty"`
	Author        *string `json:"author,omitempty"`
	Description   *string `json:"description,omitempty"`
	Genre         *string `json:"genre,omitempty"`
	Condition     *string `json:"condition,omitempty" validate:"omitempty,oneof='Like New' 'Very Good' 'Good' 'Fair' 'Poor'"`
	CoverImageURL *string `json:"cover_image_url,omitempty"`
}
