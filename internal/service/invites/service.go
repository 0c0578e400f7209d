// Package invites manages shareable challenge invite links.
package invites

import (
	"context"
	"fmt"
	"time"

	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/auth"
	"github.com/n0xlf/hamchallenges/internal/config"
	"github.com/n0xlf/hamchallenges/internal/models"
	"github.com/n0xlf/hamchallenges/internal/repository"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// ChallengeRepository interface for challenge lookups.
type ChallengeRepository interface {
	GetByID(id string) (*models.Challenge, error)
}

// InviteRepository interface for invite storage.
type InviteRepository interface {
	Create(invite *models.InviteToken) error
	GetByToken(token string) (*models.InviteToken, error)
	ListByChallenge(challengeID string) ([]models.InviteToken, error)
	Delete(token string) (bool, error)
}

// CreateRequest carries the optional invite constraints.
type CreateRequest struct {
	MaxUses    *int `json:"maxUses,omitempty"`
	ExpiryDays *int `json:"expiryDays,omitempty"`
}

// Invite is the API view of an invite token including the shareable URL.
type Invite struct {
	Token     string     `json:"token"`
	URL       string     `json:"url"`
	MaxUses   *int       `json:"maxUses,omitempty"`
	UseCount  int        `json:"useCount"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Service manages invite creation, listing, and revocation.
type Service struct {
	challengeRepo ChallengeRepository
	inviteRepo    InviteRepository
	cfg           config.InvitesConfig
	log           *logger.Logger
}

// NewService creates a new invite service with concrete repositories.
func NewService(
	challengeRepo *repository.ChallengeRepository,
	inviteRepo *repository.InviteRepository,
	cfg config.InvitesConfig,
	log *logger.Logger,
) *Service {
	return &Service{challengeRepo: challengeRepo, inviteRepo: inviteRepo, cfg: cfg, log: log}
}

// NewServiceWithInterfaces creates a new invite service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(
	challengeRepo ChallengeRepository,
	inviteRepo InviteRepository,
	cfg config.InvitesConfig,
	log *logger.Logger,
) *Service {
	return &Service{challengeRepo: challengeRepo, inviteRepo: inviteRepo, cfg: cfg, log: log}
}

// Create mints a new invite token for a challenge. Expiry defaults to the
// configured number of days when the request does not set one.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Create(ctx context.Context, challengeID string, req CreateRequest) (*Invite, error) {
	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to load challenge: %w", err))
	}
	if challenge == nil {
		return nil, apperr.ChallengeNotFound(challengeID)
	}

	expiryDays := s.cfg.ExpiryDays
	if req.ExpiryDays != nil {
		expiryDays = *req.ExpiryDays
	}
	var expiresAt *time.Time
	if expiryDays > 0 {
		t := time.Now().UTC().AddDate(0, 0, expiryDays)
		expiresAt = &t
	}

	invite := &models.InviteToken{
		Token:       auth.GenerateInviteToken(),
		ChallengeID: challengeID,
		MaxUses:     req.MaxUses,
		ExpiresAt:   expiresAt,
	}
	if err := s.inviteRepo.Create(invite); err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to create invite: %w", err))
	}

	s.log.Info().
		Str("challenge_id", challengeID).
		Str("token", invite.Token).
		Msg("Invite created")
	return s.render(invite, challengeID), nil
}

// List returns all invites for a challenge.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) List(ctx context.Context, challengeID string) ([]Invite, error) {
	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to load challenge: %w", err))
	}
	if challenge == nil {
		return nil, apperr.ChallengeNotFound(challengeID)
	}

	rows, err := s.inviteRepo.ListByChallenge(challengeID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to list invites: %w", err))
	}

	invites := make([]Invite, 0, len(rows))
	for i := range rows {
		invites = append(invites, *s.render(&rows[i], challengeID))
	}
	return invites, nil
}

// Revoke deletes an invite token so it can no longer be redeemed.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Revoke(ctx context.Context, challengeID, token string) error {
	invite, err := s.inviteRepo.GetByToken(token)
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to load invite: %w", err))
	}
	if invite == nil || invite.ChallengeID != challengeID {
		return apperr.InviteNotFound(token)
	}

	if _, err := s.inviteRepo.Delete(token); err != nil {
		return apperr.Internal(fmt.Errorf("failed to delete invite: %w", err))
	}

	s.log.Info().
		Str("challenge_id", challengeID).
		Str("token", token).
		Msg("Invite revoked")
	return nil
}

func (s *Service) render(invite *models.InviteToken, challengeID string) *Invite {
	return &Invite{
		Token:     invite.Token,
		URL:       fmt.Sprintf("%s/challenges/%s/join?invite=%s", s.cfg.BaseURL, challengeID, invite.Token),
		MaxUses:   invite.MaxUses,
		UseCount:  invite.UseCount,
		ExpiresAt: invite.ExpiresAt,
		CreatedAt: invite.CreatedAt,
	}
}
