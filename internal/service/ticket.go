package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/maxviazov/ticket-registration-service/internal/model"
	"github.com/maxviazov/ticket-registration-service/internal/repository"
	"github.com/rs/zerolog"
)

// ticketService holds ticket use-case logic: validation + orchestration, no transport / SQL details.
type ticketService struct {
	repo     repository.TicketRepository
	rec      Recorder
	validate *validator.Validate
	log      zerolog.Logger
}

func NewTicketService(repo repository.TicketRepository, rec Recorder, logger zerolog.Logger) TicketService {
	if rec == nil {
		rec = NopRecorder{}
	}
	l := logger.With().Str("module", "service").Str("component", "ticket").Logger()
	return &ticketService{repo: repo, rec: rec, validate: newValidator(), log: l}
}

// build validates the input and maps it onto a ticket without identity fields.
func (s *ticketService) build(in TicketInput) (model.Ticket, error) {
	in = normalizeTicketInput(in)
	if err := validateStruct(s.validate, in); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("ticket validation failed")
		return model.Ticket{}, err
	}
	date, err := model.ParseDate(in.EventDate)
	if err != nil {
		// datetime tag already vetted the layout; keep the guard for direct callers
		return model.Ticket{}, NewInvalidInputError([]FieldError{{Field: "event_date", Message: "must be a date in YYYY-MM-DD format"}})
	}
	return model.Ticket{
		FullName:      in.FullName,
		Email:         in.Email,
		Phone:         in.Phone,
		IDNumber:      in.IDNumber,
		Gender:        in.Gender,
		TicketType:    in.TicketType,
		Quantity:      *in.Quantity,
		EventDate:     date,
		EventLocation: in.EventLocation,
	}, nil
}

func validID(id int64) error {
	if id <= 0 {
		return NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return nil
}

func (s *ticketService) CreateTicket(ctx context.Context, in TicketInput) (model.Ticket, error) {
	start := time.Now()
	t, err := s.build(in)
	if err != nil {
		return model.Ticket{}, err
	}
	t.Reference = uuid.New()

	out, err := s.repo.Create(ctx, t)
	if err != nil {
		// Repository surfaces domain-level errors already, do not wrap.
		s.log.Error().Err(err).Str("ticket_type", t.TicketType).Msg("create ticket failed")
		return model.Ticket{}, err
	}
	s.rec.TicketCreated(out.TicketType, out.Quantity)
	s.log.Info().
		Dur("took", time.Since(start)).
		Int64("ticket_id", out.ID).
		Str("reference", out.Reference.String()).
		Str("ticket_type", out.TicketType).
		Int("quantity", out.Quantity).
		Msg("ticket created")
	return out, nil
}

func (s *ticketService) GetTicket(ctx context.Context, id int64) (model.Ticket, error) {
	if err := validID(id); err != nil {
		return model.Ticket{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ticketService) ListTickets(ctx context.Context, page repository.Page) (repository.PageResult[model.Ticket], error) {
	p := page.Normalize()
	res, err := s.repo.List(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list tickets failed")
		return repository.PageResult[model.Ticket]{}, err
	}
	return res, nil
}

func (s *ticketService) UpdateTicket(ctx context.Context, id int64, in TicketInput) (model.Ticket, error) {
	if err := validID(id); err != nil {
		return model.Ticket{}, err
	}
	t, err := s.build(in)
	if err != nil {
		return model.Ticket{}, err
	}
	t.ID = id
	out, err := s.repo.Update(ctx, t)
	if err != nil {
		s.log.Warn().Err(err).Int64("ticket_id", id).Msg("update ticket failed")
		return model.Ticket{}, err
	}
	s.log.Info().Int64("ticket_id", id).Msg("ticket updated")
	return out, nil
}

func (s *ticketService) DeleteTicket(ctx context.Context, id int64) error {
	if err := validID(id); err != nil {
		return err
	}
	// fetched first so the metrics know what was released
	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("ticket_id", id).Msg("delete ticket failed")
		return err
	}
	s.rec.TicketDeleted(cur.TicketType, cur.Quantity)
	s.log.Info().Int64("ticket_id", id).Msg("ticket deleted")
	return nil
}

func (s *ticketService) Summary(ctx context.Context) (model.TicketSummary, error) {
	rows, err := s.repo.CountByType(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("ticket summary failed")
		return model.TicketSummary{}, err
	}
	sum := model.TicketSummary{ByType: make([]model.TicketTypeSummary, 0, len(model.TicketTypes))}
	counts := make(map[string]model.TicketTypeSummary, len(rows))
	for _, r := range rows {
		counts[r.TicketType] = r
	}
	// every known type is listed, zero rows included, in display order
	for _, kind := range model.TicketTypes {
		row := counts[kind]
		row.TicketType = kind
		sum.ByType = append(sum.ByType, row)
		sum.Tickets += row.Tickets
		sum.Seats += row.Seats
	}
	return sum, nil
}
