// Package users implements account-level operations: listing a caller's
// participations and full account deletion.
package users

import (
	"context"
	"fmt"

	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/repository"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// ParticipantRepository interface for membership reads and teardown.
type ParticipantRepository interface {
	ListParticipations(callsign string) ([]repository.ParticipationRow, error)
	DeleteByCallsign(callsign string) error
}

// ProgressRepository interface for progress teardown.
type ProgressRepository interface {
	DeleteByCallsign(callsign string) error
}

// FriendRepository interface for social teardown.
type FriendRepository interface {
	DeleteUserData(callsign string) error
}

// Service handles per-account queries and deletion.
type Service struct {
	participantRepo ParticipantRepository
	progressRepo    ProgressRepository
	friendRepo      FriendRepository
	log             *logger.Logger
}

// NewService creates a new users service with concrete repositories.
func NewService(
	participantRepo *repository.ParticipantRepository,
	progressRepo *repository.ProgressRepository,
	friendRepo *repository.FriendRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		participantRepo: participantRepo,
		progressRepo:    progressRepo,
		friendRepo:      friendRepo,
		log:             log,
	}
}

// NewServiceWithInterfaces creates a new users service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(
	participantRepo ParticipantRepository,
	progressRepo ProgressRepository,
	friendRepo FriendRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		participantRepo: participantRepo,
		progressRepo:    progressRepo,
		friendRepo:      friendRepo,
		log:             log,
	}
}

// Participations returns the caller's active memberships.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Participations(ctx context.Context, callsign string) ([]repository.ParticipationRow, error) {
	rows, err := s.participantRepo.ListParticipations(callsign)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to list participations: %w", err))
	}
	if rows == nil {
		rows = []repository.ParticipationRow{}
	}
	return rows, nil
}

// DeleteAccount removes everything tied to the caller's callsign: progress
// rows, memberships, the participant itself, and the social footprint.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) DeleteAccount(ctx context.Context, callsign string) error {
	if err := s.progressRepo.DeleteByCallsign(callsign); err != nil {
		return apperr.Internal(fmt.Errorf("failed to delete progress: %w", err))
	}
	if err := s.friendRepo.DeleteUserData(callsign); err != nil {
		return apperr.Internal(fmt.Errorf("failed to delete social data: %w", err))
	}
	if err := s.participantRepo.DeleteByCallsign(callsign); err != nil {
		return apperr.Internal(fmt.Errorf("failed to delete participant: %w", err))
	}

	s.log.Info().
		Str("callsign", repository.NormalizeCallsign(callsign)).
		Msg("Account deleted")
	return nil
}
