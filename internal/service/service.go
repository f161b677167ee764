// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/maxviazov/ticket-registration-service/internal/model"
	"github.com/maxviazov/ticket-registration-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error; nil when fe is empty.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	var v feIface
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// TicketInput is the attendee-supplied part of a ticket, as posted by the registration form.
// A nil Quantity means the field was omitted and defaults to one seat; an explicit 0 is rejected.
type TicketInput struct {
	FullName      string `json:"full_name" validate:"required,min=2,max=120"`
	Email         string `json:"email" validate:"required,email,max=254"`
	Phone         string `json:"phone" validate:"required,phone"`
	IDNumber      string `json:"id_number" validate:"max=50"`
	Gender        string `json:"gender" validate:"omitempty,oneof=female male 'prefer not to say'"`
	TicketType    string `json:"ticket_type" validate:"required,oneof=standard vip vvip"`
	Quantity      *int   `json:"quantity" validate:"required,min=1,max=10"`
	EventDate     string `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventLocation string `json:"event_location" validate:"max=200"`
}

// TicketService defines ticket registration use cases.
type TicketService interface {
	CreateTicket(ctx context.Context, in TicketInput) (model.Ticket, error)
	GetTicket(ctx context.Context, id int64) (model.Ticket, error)
	ListTickets(ctx context.Context, page repository.Page) (repository.PageResult[model.Ticket], error)
	UpdateTicket(ctx context.Context, id int64, in TicketInput) (model.Ticket, error)
	DeleteTicket(ctx context.Context, id int64) error
	Summary(ctx context.Context) (model.TicketSummary, error)
}

// Recorder receives ticket lifecycle events, typically to feed metrics.
type Recorder interface {
	TicketCreated(ticketType string, seats int)
	TicketDeleted(ticketType string, seats int)
}

// NopRecorder discards every event.
type NopRecorder struct{}

func (NopRecorder) TicketCreated(string, int) {}
func (NopRecorder) TicketDeleted(string, int) {}
