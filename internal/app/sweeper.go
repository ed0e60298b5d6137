package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rpm-system/rpm-backend/internal/repository"
)

// TokenSweeper periodically deletes expired refresh-token rows. Expired
// rows are already unusable; the sweeper only keeps the table from
// growing without bound.
type TokenSweeper struct {
	tokens   repository.TokenRepository
	interval time.Duration
	logger   *zap.Logger
}

func NewTokenSweeper(tokens repository.TokenRepository, interval time.Duration, logger *zap.Logger) *TokenSweeper {
	return &TokenSweeper{
		tokens:   tokens,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps until the context is cancelled
func (s *TokenSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *TokenSweeper) sweep(ctx context.Context) {
	deleted, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("token sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("swept expired refresh tokens", zap.Int64("deleted", deleted))
	}
}
