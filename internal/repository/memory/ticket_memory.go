// Package memory is an in-process TicketRepository for local runs and tests.
// It mirrors the Postgres repository's semantics: ids ascend from 1, references
// are unique, and every timestamp is stored in UTC.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/ticket-registration-service/internal/model"
	"github.com/maxviazov/ticket-registration-service/internal/repository"
)

type TicketRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]model.Ticket
	refs   map[uuid.UUID]int64
	now    func() time.Time
}

// NewTicketRepository returns an empty store.
func NewTicketRepository() *TicketRepository {
	return &TicketRepository{
		nextID: 1,
		items:  make(map[int64]model.Ticket),
		refs:   make(map[uuid.UUID]int64),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *TicketRepository) Create(ctx context.Context, t model.Ticket) (model.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return model.Ticket{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.refs[t.Reference]; taken {
		return model.Ticket{}, repository.ErrAlreadyExists
	}
	now := r.now()
	t.ID = r.nextID
	t.CreatedAt = now
	t.UpdatedAt = now
	r.nextID++
	r.items[t.ID] = t
	r.refs[t.Reference] = t.ID
	return t, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (model.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return model.Ticket{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	if !ok {
		return model.Ticket{}, repository.ErrNotFound
	}
	return t, nil
}

func (r *TicketRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Ticket], error) {
	if err := ctx.Err(); err != nil {
		return repository.PageResult[model.Ticket]{}, err
	}
	p = p.Normalize()

	r.mu.RLock()
	ids := make([]int64, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	res := repository.PageResult[model.Ticket]{
		Items:  make([]model.Ticket, 0, p.Limit),
		Total:  len(ids),
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	for i := p.Offset; i < len(ids) && len(res.Items) < p.Limit; i++ {
		res.Items = append(res.Items, r.items[ids[i]])
	}
	r.mu.RUnlock()
	return res, nil
}

func (r *TicketRepository) Update(ctx context.Context, t model.Ticket) (model.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return model.Ticket{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.items[t.ID]
	if !ok {
		return model.Ticket{}, repository.ErrNotFound
	}
	t.Reference = cur.Reference
	t.CreatedAt = cur.CreatedAt
	t.UpdatedAt = r.now()
	r.items[t.ID] = t
	return t, nil
}

func (r *TicketRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	delete(r.refs, t.Reference)
	return nil
}

func (r *TicketRepository) CountByType(ctx context.Context) ([]model.TicketTypeSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	byType := make(map[string]*model.TicketTypeSummary)
	for _, t := range r.items {
		s, ok := byType[t.TicketType]
		if !ok {
			s = &model.TicketTypeSummary{TicketType: t.TicketType}
			byType[t.TicketType] = s
		}
		s.Tickets++
		s.Seats += t.Quantity
	}
	r.mu.RUnlock()

	var out []model.TicketTypeSummary
	for _, s := range byType {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TicketType < out[j].TicketType })
	return out, nil
}

// Ping always succeeds; the store lives in process memory.
func (r *TicketRepository) Ping(ctx context.Context) error { return ctx.Err() }

var (
	_ repository.TicketRepository = (*TicketRepository)(nil)
	_ repository.Pinger           = (*TicketRepository)(nil)
)
