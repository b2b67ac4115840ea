package exchangesvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"bookswap/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrNotAuthorized ErrCode = "NOT_AUTHORIZED"
	ErrConflict      ErrCode = "CONFLICT"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() ErrCode { return e.code }

func makeErr(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

// Code extracts the error code; upstream errors yield "".
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	HasPending(ctx context.Context, bookID, requesterID string) (bool, error)
	Insert(ctx context.Context, req *model.ExchangeRequest) error
	Get(ctx context.Context, id string) (*model.ExchangeDetail, error)
	SetStatus(ctx context.Context, id string, status model.ExchangeStatus) error
	AcceptAndMarkUnavailable(ctx context.Context, requestID, bookID string, offeredBookID *string) error
	CancelAndMarkAvailable(ctx context.Context, requestID, bookID string, offeredBookID *string) error
	CompleteAndMarkUnavailable(ctx context.Context, requestID, bookID string, offeredBookID *string) error
	ListRequestedBooks(ctx context.Context, requesterID string) ([]model.Book, error)
	ListIncoming(ctx context.Context, ownerID string) ([]model.ExchangeDetail, error)
	ListOutgoing(ctx context.Context, requesterID string) ([]model.ExchangeDetail, error)
}

type BookRepo interface {
	ByID(ctx context.Context, id string) (*model.Book, error)
}

type MessagingRepo interface {
	InsertMessage(ctx context.Context, senderID, receiverID, content string) error
	InsertNotification(ctx context.Context, userID string, typ model.NotificationType,
		content string, relatedID *string) error
}

type Service interface {
	// Request creates a pending exchange request and messages the book
	// owner. Fails on duplicate pending requests for the same
	// (book, requester) pair.
	Request(ctx context.Context, requesterID, bookID, message string, offeredBookID *string) (*model.ExchangeRequest, error)

	// Respond accepts or rejects a pending request. Owner of the requested
	// book only. Accepting flips both books to unavailable atomically.
	Respond(ctx context.Context, callerID, requestID string, accept bool) error

	// Cancel moves a pending or accepted request to cancelled. Owner or
	// requester only. Cancelling an accepted request reverts both books to
	// available.
	Cancel(ctx context.Context, callerID, requestID string) error

	// MarkDone completes an accepted exchange; both books stay unavailable
	// for good.
	MarkDone(ctx context.Context, callerID, requestID string) error

	RequestHistory(ctx context.Context, requesterID string) ([]model.Book, error)
	Incoming(ctx context.Context, ownerID string) ([]model.ExchangeDetail, error)
	Outgoing(ctx context.Context, requesterID string) ([]model.ExchangeDetail, error)
}

type service struct {
	r     Repo
	books BookRepo
	msg   MessagingRepo
	log   *slog.Logger
}

func New(r Repo, books BookRepo, msg MessagingRepo, log *slog.Logger) Service {
	return &service{r: r, books: books, msg: msg, log: log}
}

func (s *service) Request(ctx context.Context, requesterID, bookID, message string, offeredBookID *string) (*model.ExchangeRequest, error) {
	book, err := s.books.ByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound, "book not found")
		}
		return nil, err
	}
	if book.OwnerID == requesterID {
		return nil, makeErr(ErrConflict, "cannot request your own book")
	}

	var offered *model.Book
	if offeredBookID != nil {
		offered, err = s.books.ByID(ctx, *offeredBookID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, makeErr(ErrNotFound, "offered book not found")
			}
			return nil, err
		}
		if offered.OwnerID != requesterID {
			return nil, makeErr(ErrNotAuthorized, "offered book is not yours")
		}
		if !offered.IsAvailable {
			return nil, makeErr(ErrConflict, "offered book is not available")
		}
	}

	pending, err := s.r.HasPending(ctx, bookID, requesterID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, makeErr(ErrConflict, "pending request already exists for this book")
	}

	req := &model.ExchangeRequest{
		BookID:        bookID,
		RequesterID:   requesterID,
		OfferedBookID: offeredBookID,
		Status:        model.ExchangePending,
		Message:       message,
	}
	if err := s.r.Insert(ctx, req); err != nil {
		return nil, err
	}

	// Best-effort heads-up to the owner; the request stands even if this
	// insert fails.
	content := fmt.Sprintf("Hi! I'm interested in your book %q.", book.Title)
	if offered != nil {
		content += fmt.Sprintf(" I'd like to offer my book %q in exchange.", offered.Title)
	}
	if message != "" {
		content += " Message: " + message
	}
	if err := s.msg.InsertMessage(ctx, requesterID, book.OwnerID, content); err != nil {
		s.log.Error("exchange request message failed", "request_id", req.ID, "err", err)
	}

	return req, nil
}

func (s *service) Respond(ctx context.Context, callerID, requestID string, accept bool) error {
	d, err := s.get(ctx, requestID)
	if err != nil {
		return err
	}
	if d.BookOwnerID != callerID {
		return makeErr(ErrNotAuthorized, "only the book owner can respond")
	}
	if d.Status != model.ExchangePending {
		return makeErr(ErrConflict, "request is not pending")
	}

	verdict := "rejected"
	if accept {
		if err := s.r.AcceptAndMarkUnavailable(ctx, requestID, d.BookID, d.OfferedBookID); err != nil {
			return err
		}
		verdict = "accepted"
	} else {
		if err := s.r.SetStatus(ctx, requestID, model.ExchangeRejected); err != nil {
			return err
		}
	}

	s.notify(ctx, d.RequesterID, model.NotifyExchangeResponse,
		fmt.Sprintf("Your request for %q has been %s", d.BookTitle, verdict), d.BookID)
	return nil
}

func (s *service) Cancel(ctx context.Context, callerID, requestID string) error {
	d, err := s.get(ctx, requestID)
	if err != nil {
		return err
	}
	isOwner := d.BookOwnerID == callerID
	isRequester := d.RequesterID == callerID
	if !isOwner && !isRequester {
		return makeErr(ErrNotAuthorized, "only the owner or requester can cancel")
	}
	if d.Status.Terminal() {
		return makeErr(ErrConflict, "request already settled")
	}

	if d.Status == model.ExchangeAccepted {
		// Reverses the accept side effect; both books come back in one
		// transaction.
		if err := s.r.CancelAndMarkAvailable(ctx, requestID, d.BookID, d.OfferedBookID); err != nil {
			return err
		}
	} else {
		if err := s.r.SetStatus(ctx, requestID, model.ExchangeCancelled); err != nil {
			return err
		}
	}

	s.notify(ctx, s.counterparty(d, isOwner), model.NotifyExchangeCancelled,
		fmt.Sprintf("Exchange request for %q has been cancelled", d.BookTitle), d.BookID)
	return nil
}

func (s *service) MarkDone(ctx context.Context, callerID, requestID string) error {
	d, err := s.get(ctx, requestID)
	if err != nil {
		return err
	}
	isOwner := d.BookOwnerID == callerID
	isRequester := d.RequesterID == callerID
	if !isOwner && !isRequester {
		return makeErr(ErrNotAuthorized, "only the owner or requester can complete")
	}
	if d.Status != model.ExchangeAccepted {
		return makeErr(ErrConflict, "only accepted exchanges can be marked as done")
	}

	if err := s.r.CompleteAndMarkUnavailable(ctx, requestID, d.BookID, d.OfferedBookID); err != nil {
		return err
	}

	s.notify(ctx, s.counterparty(d, isOwner), model.NotifyExchangeDone,
		fmt.Sprintf("Exchange for %q has been completed!", d.BookTitle), d.BookID)
	return nil
}

func (s *service) RequestHistory(ctx context.Context, requesterID string) ([]model.Book, error) {
	return s.r.ListRequestedBooks(ctx, requesterID)
}

func (s *service) Incoming(ctx context.Context, ownerID string) ([]model.ExchangeDetail, error) {
	return s.r.ListIncoming(ctx, ownerID)
}

func (s *service) Outgoing(ctx context.Context, requesterID string) ([]model.ExchangeDetail, error) {
	return s.r.ListOutgoing(ctx, requesterID)
}

func (s *service) get(ctx context.Context, requestID string) (*model.ExchangeDetail, error) {
	d, err := s.r.Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound, "exchange request not found")
		}
		return nil, err
	}
	return d, nil
}

func (s *service) counterparty(d *model.ExchangeDetail, callerIsOwner bool) string {
	if callerIsOwner {
		return d.RequesterID
	}
	return d.BookOwnerID
}

func (s *service) notify(ctx context.Context, userID string, typ model.NotificationType, content, bookID string) {
	if err := s.msg.InsertNotification(ctx, userID, typ, content, &bookID); err != nil {
		s.log.Error("notification failed", "user_id", userID, "type", typ, "err", err)
	}
}
