package workers

import (
	"context"
	"time"

	"github.com/eduagent/eduagent/internal/logger"
	"github.com/eduagent/eduagent/internal/store"
)

// LedgerSweeper periodically deletes token ledger entries whose expiry has
// passed. Revocation correctness does not depend on the sweep: an expired
// token is already rejected by its "exp" claim, so the sweeper only keeps
// the table from growing without bound.
type LedgerSweeper struct {
	ctx             context.Context
	tokenRepository store.TokenRepository
	interval        time.Duration
	logger          *logger.Logger
}

// NewLedgerSweeper constructs a sweeper pruning on the given interval until
// ctx is cancelled.
func NewLedgerSweeper(ctx context.Context, tokenRepository store.TokenRepository, interval time.Duration, logger *logger.Logger) *LedgerSweeper {
	return &LedgerSweeper{
		ctx:             ctx,
		tokenRepository: tokenRepository,
		interval:        interval,
		logger:          logger,
	}
}

// Run starts the sweep loop in a background goroutine and returns
// immediately.
func (s *LedgerSweeper) Run() {
	s.logger.Info().Dur("interval", s.interval).Msg("ledger sweeper started")

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				s.logger.Info().Msg("ledger sweeper stopped")
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *LedgerSweeper) sweep() {
	deleted, err := s.tokenRepository.DeleteExpiredTokens(s.ctx)
	if err != nil {
		s.logger.Err(err).Msg("ledger sweep failed")
		return
	}

	if deleted > 0 {
		s.logger.Info().Int64("deleted", deleted).Msg("expired ledger entries pruned")
	}
}
