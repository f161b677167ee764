// Package contract holds storage-agnostic test suites every TicketRepository must pass.
package contract

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/ticket-registration-service/internal/model"
	"github.com/maxviazov/ticket-registration-service/internal/repository"
)

// TicketFactory returns a fresh, empty repository and its cleanup.
type TicketFactory func(t *testing.T) (repository.TicketRepository, func())

// PingerFactory returns a readiness probe and its cleanup.
type PingerFactory func(t *testing.T) (repository.Pinger, func())

// SampleTicket builds a valid ticket; n varies the attendee.
func SampleTicket(n int, ticketType string) model.Ticket {
	return model.Ticket{
		Reference:     uuid.New(),
		FullName:      fmt.Sprintf("Attendee %d", n),
		Email:         fmt.Sprintf("attendee%d@example.com", n),
		Phone:         "+233 555 123 456",
		TicketType:    ticketType,
		Quantity:      1 + n%3,
		EventDate:     model.NewDate(time.Date(2026, time.December, 12, 0, 0, 0, 0, time.UTC)),
		EventLocation: "Accra",
	}
}

func RunTicketRepositoryContract(t *testing.T, makeRepo TicketFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		in := SampleTicket(1, model.TicketVIP)
		created, err := repo.Create(ctx, in)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.ID <= 0 || created.CreatedAt.IsZero() {
			t.Fatalf("store must assign id and timestamps: %+v", created)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.Reference != in.Reference || got.FullName != in.FullName || got.TicketType != in.TicketType ||
			got.Quantity != in.Quantity || got.EventDate.String() != in.EventDate.String() {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("duplicate_reference", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		first := SampleTicket(1, model.TicketStandard)
		if _, err := repo.Create(ctx, first); err != nil {
			t.Fatalf("seed: %v", err)
		}
		dup := SampleTicket(2, model.TicketStandard)
		dup.Reference = first.Reference
		if _, err := repo.Create(ctx, dup); !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("list_pagination_total", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 7; i++ {
			if _, err := repo.Create(ctx, SampleTicket(i, model.TicketStandard)); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		res, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 3 || res.Total != 7 || res.Limit != 3 {
			t.Fatalf("unexpected page: len=%d total=%d limit=%d", len(res.Items), res.Total, res.Limit)
		}
		if res.Items[0].ID >= res.Items[1].ID {
			t.Fatalf("items must be ordered by id: %d, %d", res.Items[0].ID, res.Items[1].ID)
		}
		res2, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 6})
		if err != nil {
			t.Fatalf("list2: %v", err)
		}
		if len(res2.Items) != 1 || res2.Total != 7 {
			t.Fatalf("unexpected last page: len=%d total=%d", len(res2.Items), res2.Total)
		}
		res3, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 50})
		if err != nil {
			t.Fatalf("list3: %v", err)
		}
		if len(res3.Items) != 0 || res3.Total != 7 {
			t.Fatalf("offset past end: len=%d total=%d", len(res3.Items), res3.Total)
		}
	})

	t.Run("update_keeps_identity", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, SampleTicket(1, model.TicketStandard))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		changed := SampleTicket(9, model.TicketVVIP)
		changed.ID = created.ID
		changed.Quantity = 4
		updated, err := repo.Update(ctx, changed)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Reference != created.Reference || !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Fatalf("identity changed: before=%+v after=%+v", created, updated)
		}
		if updated.TicketType != model.TicketVVIP || updated.Quantity != 4 || updated.FullName != changed.FullName {
			t.Fatalf("fields not updated: %+v", updated)
		}
		if updated.UpdatedAt.Before(created.UpdatedAt) {
			t.Fatalf("updated_at went backwards")
		}
	})

	t.Run("update_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		missing := SampleTicket(1, model.TicketStandard)
		missing.ID = 424242
		if _, err := repo.Update(context.Background(), missing); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, SampleTicket(1, model.TicketStandard))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		if err := repo.Delete(ctx, created.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.Delete(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("count_by_type", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		seed := []struct {
			kind string
			qty  int
		}{
			{model.TicketVIP, 2},
			{model.TicketStandard, 1},
			{model.TicketVIP, 3},
		}
		for i, s := range seed {
			tk := SampleTicket(i, s.kind)
			tk.Quantity = s.qty
			if _, err := repo.Create(ctx, tk); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		got, err := repo.CountByType(ctx)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		want := []model.TicketTypeSummary{
			{TicketType: model.TicketStandard, Tickets: 1, Seats: 1},
			{TicketType: model.TicketVIP, Tickets: 2, Seats: 5},
		}
		if len(got) != len(want) {
			t.Fatalf("unexpected summary: %+v", got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("row %d: want %+v, got %+v", i, want[i], got[i])
			}
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			t.Fatalf("ping failed: %v", err)
		}
	})
}
