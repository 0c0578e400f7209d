// Package progress implements the progress-report flow: policy
// interpretation, score and tier computation, idempotent persistence, and
// rank lookup.
package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/metrics"
	"github.com/n0xlf/hamchallenges/internal/models"
	"github.com/n0xlf/hamchallenges/internal/repository"
	"github.com/n0xlf/hamchallenges/internal/scoring"
	"github.com/n0xlf/hamchallenges/internal/service/leaderboard"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// ChallengeRepository interface for challenge lookups.
type ChallengeRepository interface {
	GetByID(id string) (*models.Challenge, error)
}

// ParticipantRepository interface for participation checks.
type ParticipantRepository interface {
	GetParticipation(challengeID, callsign string) (*models.ChallengeParticipant, error)
}

// ProgressRepository interface for progress persistence.
type ProgressRepository interface {
	Upsert(challengeID, callsign string, completedGoals []string, currentValue, score int, currentTier *string, lastQsoDate *time.Time) (*models.Progress, error)
	Get(challengeID, callsign string) (*models.Progress, error)
}

// Ranker interface for rank lookups.
type Ranker interface {
	Rank(ctx context.Context, challengeID, callsign string) (int64, error)
}

// ReportRequest is a participant's self-reported achievement payload.
type ReportRequest struct {
	CompletedGoals     []string   `json:"completedGoals"`
	CurrentValue       int        `json:"currentValue"`
	QualifyingQsoCount int        `json:"qualifyingQsoCount"`
	LastQsoDate        *time.Time `json:"lastQsoDate,omitempty"`
}

// ServerProgress is the authoritative progress state returned to clients.
type ServerProgress struct {
	CompletedGoals []string `json:"completedGoals"`
	CurrentValue   int      `json:"currentValue"`
	Percentage     float64  `json:"percentage"`
	Score          int      `json:"score"`
	Rank           int64    `json:"rank"`
	CurrentTier    *string  `json:"currentTier"`
}

// ReportResponse acknowledges an accepted report.
type ReportResponse struct {
	Accepted       bool           `json:"accepted"`
	ServerProgress ServerProgress `json:"serverProgress"`
	NewBadges      []string       `json:"newBadges"`
}

// Service handles progress reporting and retrieval.
type Service struct {
	challengeRepo   ChallengeRepository
	participantRepo ParticipantRepository
	progressRepo    ProgressRepository
	ranker          Ranker
	log             *logger.Logger
}

// NewService creates a new progress service with concrete dependencies.
func NewService(
	challengeRepo *repository.ChallengeRepository,
	participantRepo *repository.ParticipantRepository,
	progressRepo *repository.ProgressRepository,
	ranker *leaderboard.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
		progressRepo:    progressRepo,
		ranker:          ranker,
		log:             log,
	}
}

// NewServiceWithInterfaces creates a new progress service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(
	challengeRepo ChallengeRepository,
	participantRepo ParticipantRepository,
	progressRepo ProgressRepository,
	ranker Ranker,
	log *logger.Logger,
) *Service {
	return &Service{
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
		progressRepo:    progressRepo,
		ranker:          ranker,
		log:             log,
	}
}

// Report scores a reported payload against the challenge's current
// configuration and persists it as the callsign's progress, replacing any
// previous report in full.
func (s *Service) Report(ctx context.Context, challengeID, callsign string, req ReportRequest) (*ReportResponse, error) {
	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to load challenge: %w", err))
	}
	if challenge == nil {
		return nil, apperr.ChallengeNotFound(challengeID)
	}

	participation, err := s.participantRepo.GetParticipation(challengeID, callsign)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to load participation: %w", err))
	}
	if participation == nil {
		return nil, apperr.ErrNotParticipating
	}

	policy := scoring.Interpret(challenge.Configuration)
	score := policy.Score(req.CompletedGoals, req.CurrentValue)
	tier := policy.ResolveTier(score)

	if _, err := s.progressRepo.Upsert(
		challengeID, callsign,
		req.CompletedGoals, req.CurrentValue,
		score, tier, req.LastQsoDate,
	); err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to upsert progress: %w", err))
	}

	rank, err := s.ranker.Rank(ctx, challengeID, callsign)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to compute rank: %w", err))
	}

	percentage := policy.Percentage(len(req.CompletedGoals), req.CurrentValue)

	s.log.Info().
		Str("challenge_id", challengeID).
		Str("callsign", repository.NormalizeCallsign(callsign)).
		Int("score", score).
		Int64("rank", rank).
		Msg("Progress report accepted")
	metrics.RecordProgressReport(challengeID, string(policy.Method), score)

	goals := req.CompletedGoals
	if goals == nil {
		goals = []string{}
	}

	return &ReportResponse{
		Accepted: true,
		ServerProgress: ServerProgress{
			CompletedGoals: goals,
			CurrentValue:   req.CurrentValue,
			Percentage:     percentage,
			Score:          score,
			Rank:           rank,
			CurrentTier:    tier,
		},
		// Badge awarding on report is not implemented; the field stays an
		// empty list so clients can rely on its presence.
		NewBadges: []string{},
	}, nil
}

// Get reconstructs the caller's server progress from the stored row plus a
// fresh rank lookup. Percentage is recomputed against the challenge's
// current configuration, so it always reflects the latest edit.
func (s *Service) Get(ctx context.Context, challengeID, callsign string) (*ServerProgress, error) {
	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to load challenge: %w", err))
	}
	if challenge == nil {
		return nil, apperr.ChallengeNotFound(challengeID)
	}

	row, err := s.progressRepo.Get(challengeID, callsign)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to load progress: %w", err))
	}
	if row == nil {
		return nil, apperr.ErrNotParticipating
	}

	rank, err := s.ranker.Rank(ctx, challengeID, callsign)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to compute rank: %w", err))
	}

	goals := row.CompletedGoalIDs()
	policy := scoring.Interpret(challenge.Configuration)
	percentage := policy.Percentage(len(goals), row.CurrentValue)

	return &ServerProgress{
		CompletedGoals: goals,
		CurrentValue:   row.CurrentValue,
		Percentage:     percentage,
		Score:          row.Score,
		Rank:           rank,
		CurrentTier:    row.CurrentTier,
	}, nil
}
