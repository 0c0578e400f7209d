// Package join implements challenge membership: joining with invite
// enforcement and leaving.
package join

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/auth"
	"github.com/n0xlf/hamchallenges/internal/metrics"
	"github.com/n0xlf/hamchallenges/internal/models"
	"github.com/n0xlf/hamchallenges/internal/repository"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// ChallengeRepository interface for challenge lookups.
type ChallengeRepository interface {
	GetByID(id string) (*models.Challenge, error)
}

// ParticipantRepository interface for membership operations.
type ParticipantRepository interface {
	GetOrCreate(callsign string, deviceName *string, deviceToken string) (*models.Participant, bool, error)
	GetParticipation(challengeID, callsign string) (*models.ChallengeParticipant, error)
	Join(challengeID, callsign string, inviteToken *string) (*models.ChallengeParticipant, error)
	Leave(challengeID, callsign string) (bool, error)
	CountByChallenge(challengeID string) (int64, error)
}

// InviteRepository interface for invite validation.
type InviteRepository interface {
	GetByToken(token string) (*models.InviteToken, error)
	IncrementUse(token string) error
}

// ProgressRepository interface for cleanup on leave.
type ProgressRepository interface {
	Delete(challengeID, callsign string) error
}

// JoinRequest carries the joining callsign and optional invite token.
type JoinRequest struct {
	Callsign    string  `json:"callsign" binding:"required"`
	DeviceName  *string `json:"deviceName,omitempty"`
	InviteToken *string `json:"inviteToken,omitempty"`
}

// JoinResponse confirms a new membership and carries the device token the
// client authenticates with from then on.
type JoinResponse struct {
	ParticipationID   string    `json:"participationId"`
	DeviceToken       string    `json:"deviceToken"`
	JoinedAt          time.Time `json:"joinedAt"`
	Status            string    `json:"status"`
	HistoricalAllowed bool      `json:"historicalAllowed"`
}

// Service handles joining and leaving challenges.
type Service struct {
	challengeRepo   ChallengeRepository
	participantRepo ParticipantRepository
	inviteRepo      InviteRepository
	progressRepo    ProgressRepository
	log             *logger.Logger
}

// NewService creates a new join service with concrete repositories.
func NewService(
	challengeRepo *repository.ChallengeRepository,
	participantRepo *repository.ParticipantRepository,
	inviteRepo *repository.InviteRepository,
	progressRepo *repository.ProgressRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
		inviteRepo:      inviteRepo,
		progressRepo:    progressRepo,
		log:             log,
	}
}

// NewServiceWithInterfaces creates a new join service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(
	challengeRepo ChallengeRepository,
	participantRepo ParticipantRepository,
	inviteRepo InviteRepository,
	progressRepo ProgressRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
		inviteRepo:      inviteRepo,
		progressRepo:    progressRepo,
		log:             log,
	}
}

// Join adds a callsign to a challenge, enforcing the challenge's invite
// policy and invite token validity.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Join(ctx context.Context, challengeID string, req JoinRequest) (*JoinResponse, error) {
	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to load challenge: %w", err))
	}
	if challenge == nil {
		return nil, apperr.ChallengeNotFound(challengeID)
	}
	if !challenge.IsActive {
		return nil, apperr.ErrChallengeEnded
	}

	invitePolicy := parseInviteConfig(challenge.InviteConfig)
	if invitePolicy.RequiresToken && req.InviteToken == nil {
		return nil, apperr.ErrInviteRequired
	}

	if req.InviteToken != nil {
		invite, err := s.inviteRepo.GetByToken(*req.InviteToken)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("failed to load invite: %w", err))
		}
		if invite == nil || invite.ChallengeID != challengeID {
			return nil, apperr.InviteNotFound(*req.InviteToken)
		}
		if invite.Expired(time.Now().UTC()) {
			return nil, apperr.ErrInviteExpired
		}
		if invite.Exhausted() {
			return nil, apperr.ErrInviteExhausted
		}
	}

	if invitePolicy.MaxParticipants > 0 {
		count, err := s.participantRepo.CountByChallenge(challengeID)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("failed to count participants: %w", err))
		}
		if count >= int64(invitePolicy.MaxParticipants) {
			return nil, apperr.ErrMaxParticipants
		}
	}

	existing, err := s.participantRepo.GetParticipation(challengeID, req.Callsign)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to load participation: %w", err))
	}
	if existing != nil && existing.Status == "active" {
		return nil, apperr.ErrAlreadyJoined
	}

	participant, created, err := s.participantRepo.GetOrCreate(req.Callsign, req.DeviceName, auth.GenerateDeviceToken())
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to resolve participant: %w", err))
	}

	participation, err := s.participantRepo.Join(challengeID, req.Callsign, req.InviteToken)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to join challenge: %w", err))
	}

	if req.InviteToken != nil {
		if err := s.inviteRepo.IncrementUse(*req.InviteToken); err != nil {
			s.log.Warn().Err(err).Str("token", *req.InviteToken).Msg("Failed to bump invite use count")
		}
	}

	count, _ := s.participantRepo.CountByChallenge(challengeID)
	metrics.RecordJoin(challengeID, count)

	s.log.Info().
		Str("challenge_id", challengeID).
		Str("callsign", participant.Callsign).
		Bool("new_participant", created).
		Msg("Joined challenge")

	return &JoinResponse{
		ParticipationID:   participation.ID,
		DeviceToken:       participant.DeviceToken,
		JoinedAt:          participation.JoinedAt,
		Status:            participation.Status,
		HistoricalAllowed: historicalAllowed(challenge.Configuration),
	}, nil
}

// Leave marks the membership as left and removes the callsign's progress
// for the challenge.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Leave(ctx context.Context, challengeID, callsign string) error {
	if err := s.progressRepo.Delete(challengeID, callsign); err != nil {
		return apperr.Internal(fmt.Errorf("failed to delete progress: %w", err))
	}

	left, err := s.participantRepo.Leave(challengeID, callsign)
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to leave challenge: %w", err))
	}
	if !left {
		return apperr.ErrNotParticipating
	}

	s.log.Info().
		Str("challenge_id", challengeID).
		Str("callsign", repository.NormalizeCallsign(callsign)).
		Msg("Left challenge")
	return nil
}

// invitePolicy is the interpreted inviteConfig document; missing fields
// default to an open challenge.
type invitePolicy struct {
	RequiresToken   bool `json:"requiresToken"`
	MaxParticipants int  `json:"maxParticipants"`
}

func parseInviteConfig(raw json.RawMessage) invitePolicy {
	var policy invitePolicy
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &policy)
	}
	return policy
}

// historicalAllowed reads configuration.historicalQsosAllowed, default true.
func historicalAllowed(configuration json.RawMessage) bool {
	var cfg struct {
		HistoricalQsosAllowed *bool `json:"historicalQsosAllowed"`
	}
	if err := json.Unmarshal(configuration, &cfg); err != nil || cfg.HistoricalQsosAllowed == nil {
		return true
	}
	return *cfg.HistoricalQsosAllowed
}
