// Package leaderboard computes ranked, paginated leaderboards over stored
// progress rows.
package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/metrics"
	"github.com/n0xlf/hamchallenges/internal/models"
	"github.com/n0xlf/hamchallenges/internal/repository"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// ChallengeRepository interface for challenge lookups.
type ChallengeRepository interface {
	GetByID(id string) (*models.Challenge, error)
}

// ProgressRepository interface for progress reads.
type ProgressRepository interface {
	ListByChallenge(challengeID string) ([]models.Progress, error)
	CountByChallenge(challengeID string) (int64, error)
}

// Entry is one ranked leaderboard row. CompletedAt mirrors updated_at when
// the score is positive and is null otherwise.
type Entry struct {
	Rank        int64      `json:"rank"`
	Callsign    string     `json:"callsign"`
	Score       int        `json:"score"`
	CurrentTier *string    `json:"currentTier"`
	CompletedAt *time.Time `json:"completedAt"`
}

// Default pagination bounds.
const (
	DefaultLimit  = 100
	MaxLimit      = 100
	DefaultWindow = 5
)

// Service ranks progress rows and serves leaderboard queries.
type Service struct {
	challengeRepo ChallengeRepository
	progressRepo  ProgressRepository
	log           *logger.Logger
}

// NewService creates a new leaderboard service with concrete repositories.
func NewService(challengeRepo *repository.ChallengeRepository, progressRepo *repository.ProgressRepository, log *logger.Logger) *Service {
	return &Service{challengeRepo: challengeRepo, progressRepo: progressRepo, log: log}
}

// NewServiceWithInterfaces creates a new leaderboard service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(challengeRepo ChallengeRepository, progressRepo ProgressRepository, log *logger.Logger) *Service {
	return &Service{challengeRepo: challengeRepo, progressRepo: progressRepo, log: log}
}

// Page returns one page of the ranked leaderboard plus the unpaginated total
// row count. Limit is clamped to [1, 100]; offset below zero becomes zero.
//
//nolint:revive,unparam // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Page(ctx context.Context, challengeID string, limit, offset int) ([]Entry, int64, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	if err := s.requireChallenge(challengeID); err != nil {
		return nil, 0, err
	}

	entries, err := s.ranked(challengeID)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(entries))

	if offset >= len(entries) {
		entries = []Entry{}
	} else {
		end := offset + limit
		if end > len(entries) {
			end = len(entries)
		}
		entries = entries[offset:end]
	}

	metrics.RecordLeaderboardQuery(challengeID, "page")
	return entries, total, nil
}

// Around returns all entries whose rank falls within [R-window, R+window]
// where R is the target callsign's rank. A callsign with no progress row
// yields an empty list, not an error.
//
//nolint:revive,unparam // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Around(ctx context.Context, challengeID, callsign string, window int) ([]Entry, error) {
	if window < 0 {
		window = 0
	}

	if err := s.requireChallenge(challengeID); err != nil {
		return nil, err
	}

	entries, err := s.ranked(challengeID)
	if err != nil {
		return nil, err
	}

	normalized := repository.NormalizeCallsign(callsign)
	var center int64
	for _, e := range entries {
		if e.Callsign == normalized {
			center = e.Rank
			break
		}
	}
	if center == 0 {
		// Target never reported progress; an empty window is the documented
		// answer rather than a not-found error.
		return []Entry{}, nil
	}

	low := center - int64(window)
	high := center + int64(window)
	windowed := make([]Entry, 0, 2*window+1)
	for _, e := range entries {
		if e.Rank >= low && e.Rank <= high {
			windowed = append(windowed, e)
		}
	}

	metrics.RecordLeaderboardQuery(challengeID, "around")
	return windowed, nil
}

// Rank returns the target callsign's rank, or 0 when it has no progress row.
//
//nolint:revive,unparam // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Rank(ctx context.Context, challengeID, callsign string) (int64, error) {
	entries, err := s.ranked(challengeID)
	if err != nil {
		return 0, err
	}

	normalized := repository.NormalizeCallsign(callsign)
	for _, e := range entries {
		if e.Callsign == normalized {
			return e.Rank, nil
		}
	}
	return 0, nil
}

// Total returns the number of progress rows for a challenge.
//
//nolint:revive,unparam // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Total(ctx context.Context, challengeID string) (int64, error) {
	return s.progressRepo.CountByChallenge(challengeID)
}

// requireChallenge fails with a not-found error for unknown challenge ids so
// the leaderboard routes distinguish a missing challenge from an empty one.
func (s *Service) requireChallenge(challengeID string) error {
	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to load challenge: %w", err))
	}
	if challenge == nil {
		return apperr.ChallengeNotFound(challengeID)
	}
	return nil
}

// ranked loads all progress rows in display order and assigns standard
// competition ranks: equal scores share a rank, the next distinct score
// resumes at its one-based position (gap after a tie run). The tie-break on
// updated_at orders rows within a shared rank, it does not split the rank.
func (s *Service) ranked(challengeID string) ([]Entry, error) {
	rows, err := s.progressRepo.ListByChallenge(challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		rank := int64(i + 1)
		if i > 0 && row.Score == rows[i-1].Score {
			rank = entries[i-1].Rank
		}

		var completedAt *time.Time
		if row.Score > 0 {
			t := row.UpdatedAt
			completedAt = &t
		}

		entries = append(entries, Entry{
			Rank:        rank,
			Callsign:    row.Callsign,
			Score:       row.Score,
			CurrentTier: row.CurrentTier,
			CompletedAt: completedAt,
		})
	}
	return entries, nil
}
