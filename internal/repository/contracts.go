package repository

import (
	"context"

	"github.com/maxviazov/ticket-registration-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TicketRepository declares persistence operations for ticket registrations.
// I return domain models and surface domain errors from errors.go rather than PG codes.
type TicketRepository interface {
	Create(ctx context.Context, t model.Ticket) (model.Ticket, error)
	GetByID(ctx context.Context, id int64) (model.Ticket, error)
	List(ctx context.Context, p Page) (PageResult[model.Ticket], error)
	// Update replaces every attendee/ticket field of the stored row with t's values.
	// ID, Reference and CreatedAt are never changed.
	Update(ctx context.Context, t model.Ticket) (model.Ticket, error)
	Delete(ctx context.Context, id int64) error
	// CountByType returns one row per ticket type that has registrations, ordered by type.
	CountByType(ctx context.Context) ([]model.TicketTypeSummary, error)
}
