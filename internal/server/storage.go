package server

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/maxviazov/ticket-registration-service/internal/config"
	"github.com/maxviazov/ticket-registration-service/internal/repository"
	"github.com/maxviazov/ticket-registration-service/internal/repository/memory"
	"github.com/maxviazov/ticket-registration-service/internal/repository/postgres"
)

// Storage bundles the ticket store with its readiness probe.
type Storage struct {
	Tickets repository.TicketRepository
	Pinger  repository.Pinger
	close   func()
}

// Close releases the backing resources. Safe on a nil Storage.
func (s *Storage) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenStorage opens the driver selected by cfg.Storage.Driver. The postgres driver
// applies the embedded migrations first when cfg.Postgres.Migrate is set.
func OpenStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case "", config.DriverMemory:
		repo := memory.NewTicketRepository()
		logger.Info().Str("driver", config.DriverMemory).Msg("ticket storage ready")
		return &Storage{Tickets: repo, Pinger: repo}, nil

	case config.DriverPostgres:
		db, err := repository.New(ctx, cfg, &logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.Migrate {
			if err := postgres.Migrate(ctx, db.Pool()); err != nil {
				db.Close()
				return nil, err
			}
			logger.Info().Msg("database migrations applied")
		}
		logger.Info().Str("driver", config.DriverPostgres).Msg("ticket storage ready")
		return &Storage{
			Tickets: postgres.NewTicketRepository(db.Pool()),
			Pinger:  postgres.NewPinger(db.Pool()),
			close:   db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
