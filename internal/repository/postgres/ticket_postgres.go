package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/ticket-registration-service/internal/model"
	"github.com/maxviazov/ticket-registration-service/internal/repository"
)

const ticketColumns = `id, reference, full_name, email, phone, id_number, gender,
	ticket_type, quantity, event_date, event_location, created_at, updated_at`

type ticketRepository struct{ pool *pgxpool.Pool }

func NewTicketRepository(pool *pgxpool.Pool) repository.TicketRepository {
	return &ticketRepository{pool: pool}
}

// scanTicket reads ticketColumns (plus any trailing destinations) from row.
func scanTicket(row pgx.Row, extra ...any) (model.Ticket, error) {
	var (
		out       model.Ticket
		eventDate time.Time
	)
	dest := []any{
		&out.ID, &out.Reference, &out.FullName, &out.Email, &out.Phone, &out.IDNumber, &out.Gender,
		&out.TicketType, &out.Quantity, &eventDate, &out.EventLocation, &out.CreatedAt, &out.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return model.Ticket{}, err
	}
	out.EventDate = model.NewDate(eventDate)
	return out, nil
}

func (r *ticketRepository) Create(ctx context.Context, t model.Ticket) (model.Ticket, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Ticket{}, err
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO tickets (reference, full_name, email, phone, id_number, gender,
			ticket_type, quantity, event_date, event_location)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+ticketColumns,
		t.Reference, t.FullName, t.Email, t.Phone, t.IDNumber, t.Gender,
		t.TicketType, t.Quantity, t.EventDate.Time, t.EventLocation,
	)
	out, err := scanTicket(row)
	if err != nil {
		return model.Ticket{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (model.Ticket, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Ticket{}, err
	}
	row := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	out, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Ticket{}, repository.ErrNotFound
		}
		return model.Ticket{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *ticketRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Ticket], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Ticket]{}, err
	}
	p = p.Normalize()
	rows, err := r.pool.Query(ctx,
		`SELECT `+ticketColumns+`, COUNT(*) OVER() AS total
		 FROM tickets
		 ORDER BY id
		 LIMIT $1 OFFSET $2`,
		p.Limit, p.Offset,
	)
	if err != nil {
		return repository.PageResult[model.Ticket]{}, repository.MapPgError(err)
	}
	defer rows.Close()

	res := repository.PageResult[model.Ticket]{
		Items:  make([]model.Ticket, 0, p.Limit),
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	for rows.Next() {
		var total int
		t, err := scanTicket(rows, &total)
		if err != nil {
			return repository.PageResult[model.Ticket]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, t)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Ticket]{}, repository.MapPgError(err)
	}
	// an offset past the end yields no rows, so the window count is unavailable
	if len(res.Items) == 0 && p.Offset > 0 {
		if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&res.Total); err != nil {
			return repository.PageResult[model.Ticket]{}, repository.MapPgError(err)
		}
	}
	return res, nil
}

func (r *ticketRepository) Update(ctx context.Context, t model.Ticket) (model.Ticket, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Ticket{}, err
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE tickets SET
			full_name = $2, email = $3, phone = $4, id_number = $5, gender = $6,
			ticket_type = $7, quantity = $8, event_date = $9, event_location = $10,
			updated_at = now()
		 WHERE id = $1
		 RETURNING `+ticketColumns,
		t.ID, t.FullName, t.Email, t.Phone, t.IDNumber, t.Gender,
		t.TicketType, t.Quantity, t.EventDate.Time, t.EventLocation,
	)
	out, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Ticket{}, repository.ErrNotFound
		}
		return model.Ticket{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ticketRepository) CountByType(ctx context.Context) ([]model.TicketTypeSummary, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT ticket_type, COUNT(*), COALESCE(SUM(quantity), 0)
		 FROM tickets
		 GROUP BY ticket_type
		 ORDER BY ticket_type`,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	var out []model.TicketTypeSummary
	for rows.Next() {
		var s model.TicketTypeSummary
		if err := rows.Scan(&s.TicketType, &s.Tickets, &s.Seats); err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

// ensurePool guards against a repository constructed with a nil pool.
func ensurePool(pool *pgxpool.Pool) error {
	if pool == nil {
		return errors.New("pgx pool is nil")
	}
	return nil
}

var _ repository.TicketRepository = (*ticketRepository)(nil)
