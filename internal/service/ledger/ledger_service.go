// Package ledger exposes read access to ledger entries and user balances.
// Entries are only ever written by the reservation and settlement services.
package ledger

import (
	"context"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/repository"
)

type LedgerUseCase interface {
	Entries(ctx context.Context, actor domain.Actor, userID int64) ([]domain.LedgerEntry, error)
	Balance(ctx context.Context, actor domain.Actor, userID int64) (*domain.Balance, error)
}

type LedgerService struct {
	repo repository.LedgerRepository
}

func NewLedgerService(repo repository.LedgerRepository) *LedgerService {
	return &LedgerService{repo: repo}
}

// Entries returns the ledger of userID, newest first. userID 0 means the
// actor itself; admins may pass any user, or 0 to see every entry.
func (s *LedgerService) Entries(ctx context.Context, actor domain.Actor, userID int64) ([]domain.LedgerEntry, error) {
	target, err := resolveUser(actor, userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListEntries(ctx, repository.LedgerFilter{UserID: target})
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	return entries, nil
}

func (s *LedgerService) Balance(ctx context.Context, actor domain.Actor, userID int64) (*domain.Balance, error) {
	target, err := resolveUser(actor, userID)
	if err != nil {
		return nil, err
	}
	if target == 0 {
		target = actor.UserID
	}
	if target <= 0 {
		return nil, domain.Invalid("user_id", "required")
	}
	b, err := s.repo.GetBalance(ctx, target)
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	return b, nil
}

func resolveUser(actor domain.Actor, userID int64) (int64, error) {
	if userID < 0 {
		return 0, domain.Invalid("user_id", "must not be negative")
	}
	if actor.IsAdmin() {
		return userID, nil
	}
	if actor.UserID <= 0 {
		return 0, domain.ErrForbidden
	}
	if userID != 0 && userID != actor.UserID {
		return 0, domain.ErrForbidden
	}
	return actor.UserID, nil
}

var _ LedgerUseCase = (*LedgerService)(nil)
