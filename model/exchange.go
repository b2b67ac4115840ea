// model/exchange.go
package model

import "time"

type ExchangeStatus string

const (
	ExchangePending   ExchangeStatus = "pending"
	ExchangeAccepted  ExchangeStatus = "accepted"
	ExchangeRejected  ExchangeStatus = "rejected"
	ExchangeCancelled ExchangeStatus = "cancelled"
	ExchangeDone      ExchangeStatus = "done"
)

// Terminal reports whether no further transition is permitted from s.
func (s ExchangeStatus) Terminal() bool {
	return s == ExchangeRejected || s == ExchangeCancelled || s == ExchangeDone
}

type ExchangeRequest struct {
	ID            string         `json:"id"`
	BookID        string         `json:"book_id"`
	RequesterID   string         `json:"requester_id"`
	OfferedBookID *string        `json:"offered_book_id,omitempty"`
	Status        ExchangeStatus `json:"status"`
	Message       string         `json:"message,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ExchangeDetail is a request joined with the wanted book, as listed on the
// requests page.
type ExchangeDetail struct {
	ExchangeRequest
	BookTitle         string  `json:"book_title"`
	BookOwnerID       string  `json:"book_owner_id"`
	RequesterUsername string  `json:"requester_username"`
	OfferedBookTitle  *string `json:"offered_book_title,omitempty"`
}

// CreateExchangeReq represents the exchange-request payload
// swagger:model CreateExchangeReq
type CreateExchangeReq struct {
	BookID        string  `json:"book_id" validate:"required,uuid"`
	Message       string  `json:"message"`
	OfferedBookID *string `json:"offered_book_id,omitempty" validate:"omitempty,uuid"`
}

// RespondExchangeReq represents the accept/reject payload
// swagger:model RespondExchangeReq
type RespondExchangeReq struct {
	Accept *bool `json:"accept" validate:"required"`
}
