// Package service records and reads the verdict log
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	perr "adwarden/internal/platform/errors"
	"adwarden/internal/platform/logger"
	"adwarden/internal/services/verdicts/domain"
	"adwarden/internal/services/verdicts/repo"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Svc implements domain.WriterPort and domain.QueryPort
type Svc struct {
	repo repo.Repo
	log  logger.Logger
	now  func() time.Time
}

// New constructs a verdict log service
func New(r repo.Repo, log logger.Logger) *Svc {
	if r == nil {
		panic("verdicts.Service requires a non nil Repo")
	}
	return &Svc{repo: r, log: log, now: time.Now}
}

// Append stamps id and time when missing and writes the event
func (s *Svc) Append(ctx context.Context, e domain.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.At.IsZero() {
		e.At = s.now()
	}
	if err := s.repo.Insert(ctx, []domain.Event{e}); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "append verdict %s", e.ID)
	}
	return nil
}

// Recent returns the newest verdicts of a guild; limit defaults to 50, capped at 500
func (s *Svc) Recent(ctx context.Context, guildID string, limit int) ([]domain.Event, error) {
	if guildID == "" {
		return nil, perr.InvalidArgf("guild is required")
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)
	out, err := s.repo.Recent(ctx, guildID, limit)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "read verdicts")
	}
	if out == nil {
		out = []domain.Event{}
	}
	return out, nil
}
